package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cayiba/cayiba-admin/internal/apiclient"
	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/service"
	"github.com/cayiba/cayiba-admin/internal/table"
	"github.com/cayiba/cayiba-admin/internal/web"
)

// PathAdvertisements is the console path of the advertisement list.
const PathAdvertisements = "/advertisement"

const (
	detailError    = "Failed to load advertisement details. Please try again later."
	detailNotFound = "Advertisement not found."
	blockedNotice  = "Advertisement blocked successfully"
)

// FilterTile is one status filter link above the advertisement table.
type FilterTile struct {
	model.StatusFilter
	Link   string
	Active bool
}

type advertisementsData struct {
	Table     table.View
	Filters   []FilterTile
	Selected  *model.StatusFilter
	ClearLink string
}

type advertisementDetailData struct {
	Ad  model.AdvertisementDetail
	Err string
}

// AdvertisementHandler serves the advertisement list and detail screens.
type AdvertisementHandler struct {
	*Screens
	service *service.AdvertisementService
	table   *table.Engine[model.Advertisement]
}

// NewAdvertisementHandler creates a new AdvertisementHandler.
func NewAdvertisementHandler(screens *Screens, svc *service.AdvertisementService, budget time.Duration) *AdvertisementHandler {
	return &AdvertisementHandler{
		Screens: screens,
		service: svc,
		table: table.New(table.Config[model.Advertisement]{
			Scope:             service.ScopeAdvertisements,
			Path:              PathAdvertisements,
			Columns:           advertisementColumns(),
			Fetch:             svc.List,
			DefaultPageSize:   10,
			PageSizeOptions:   []int{5, 10, 20, 50},
			SearchPlaceholder: "Search advertisements...",
			RenderBudget:      budget,
		}),
	}
}

func advertisementColumns() []table.Column[model.Advertisement] {
	return []table.Column[model.Advertisement]{
		table.Display("advertismentId", "ID", func(a model.Advertisement) template.HTML {
			return truncated(a.AdvertisementID, 8)
		}),
		table.Text("productName", "Product Name", func(a model.Advertisement) string { return a.ProductName }),
		table.Display("categoryName", "Category", func(a model.Advertisement) template.HTML {
			return template.HTML(fmt.Sprintf(`%s<br><span class="muted">%s</span>`,
				template.HTMLEscapeString(a.CategoryName), template.HTMLEscapeString(a.SubcategoryName)))
		}),
		table.Text("price", "Price", func(a model.Advertisement) string { return a.Price }),
		table.Text("views", "Views", func(a model.Advertisement) string { return strconv.Itoa(a.Views) }),
		table.Display("city", "Location", func(a model.Advertisement) template.HTML {
			return template.HTML(fmt.Sprintf(`%s<br><span class="muted">%s</span>`,
				template.HTMLEscapeString(a.City), template.HTMLEscapeString(a.Zip)))
		}),
		table.Display("status", "Status", func(a model.Advertisement) template.HTML {
			return badge(web.StatusVariant(a.Status), string(a.Status))
		}),
		table.Display("inventoryDetails", "Inventory", func(a model.Advertisement) template.HTML {
			return badge(web.InventoryVariant(a.InventoryDetails), string(a.InventoryDetails))
		}),
		table.Text("createdAt", "Created", func(a model.Advertisement) string { return web.FormatDate(a.CreatedAt) }),
		table.Display("actions", "Actions", func(a model.Advertisement) template.HTML {
			return template.HTML(fmt.Sprintf(`<a class="button" href="%s">View More</a>`,
				template.HTMLEscapeString(DetailPath(a.AdvertisementID))))
		}),
	}
}

// DetailPath is the console path of advertisement id.
func DetailPath(id string) string {
	return PathAdvertisements + "/details/" + url.PathEscape(id)
}

// ParseStatusFilter returns the status tile selected by s. Missing and
// unknown values select every status.
func ParseStatusFilter(s string) model.StatusFilter {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, f := range model.StatusFilters {
		if f.Value == s {
			return f
		}
	}
	return model.StatusFilters[0]
}

// HandleList handles GET /advertisement requests.
func (h *AdvertisementHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ParseStatusFilter(q.Get(service.StatusParam))

	state := h.table.State(q)
	state.Filters = url.Values{service.StatusParam: {filter.Value}}

	view := h.table.Load(r.Context(), h.cache(r), state)
	if view.Redirect != "" {
		h.leave(w, r, view.Redirect)
		return
	}

	data := advertisementsData{Table: view, ClearLink: PathAdvertisements}
	for _, f := range model.StatusFilters {
		data.Filters = append(data.Filters, FilterTile{
			StatusFilter: f,
			Link:         PathAdvertisements + "?" + url.Values{service.StatusParam: {f.Value}}.Encode(),
			Active:       f.Value == filter.Value,
		})
	}
	if filter.Value != model.StatusFilterAll {
		selected := filter
		data.Selected = &selected
	}

	p := h.page(r, "Advertisements", "advertisement", data)
	p.Refresh = refreshFor(view)
	h.render(w, http.StatusOK, web.PageAdvertisements, p)
}

// HandleDetail handles GET /advertisement/details/{id} requests.
func (h *AdvertisementHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ad, err := h.service.Get(r.Context(), h.cache(r), id)
	if h.expired(w, r, err) {
		return
	}

	data := advertisementDetailData{Ad: ad}
	status := http.StatusOK
	switch {
	case apiclient.Classify(err) == apiclient.KindNotFound:
		data.Err, status = detailNotFound, http.StatusNotFound
	case err != nil:
		h.Logger.Warn("advertisement detail failed", "id", id, "error", err)
		data.Err, status = detailError, statusOf(err)
	case ad.AdvertisementID == "":
		data.Err, status = detailNotFound, http.StatusNotFound
	}

	title := ad.ProductName
	if title == "" {
		title = "Advertisement"
	}
	h.render(w, status, web.PageAdvertisementDetail, h.page(r, title, "advertisement", data))
}

// HandleBlock handles POST /advertisement/details/{id}/block requests. The
// outcome is shown as a notice on the detail screen.
func (h *AdvertisementHandler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	msg, err := h.service.Block(r.Context(), h.cache(r), id)
	if h.expired(w, r, err) {
		return
	}
	if err != nil {
		h.Logger.Warn("block advertisement failed", "id", id, "error", err)
		h.flash(r, apiclient.ActionMessage(err))
	} else {
		if msg == "" {
			msg = blockedNotice
		}
		h.flash(r, msg)
	}

	http.Redirect(w, r, DetailPath(id), http.StatusSeeOther)
}
