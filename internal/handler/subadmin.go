package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cayiba/cayiba-admin/internal/apiclient"
	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/service"
	"github.com/cayiba/cayiba-admin/internal/table"
	"github.com/cayiba/cayiba-admin/internal/web"
)

// Console paths of the sub-admin screens.
const (
	PathSubAdmins      = "/admin"
	PathCreateSubAdmin = "/admin/create"
)

type subAdminsData struct {
	Table table.View
}

type createSubAdminData struct {
	Form         CreateSubAdminForm
	Errors       map[string]string
	Error        string
	Suggested    string
	CountryCodes []model.CountryCode
	Countries    []string
}

// SubAdminHandler serves the sub-admin list and the create form.
type SubAdminHandler struct {
	*Screens
	service  *service.SubAdminService
	table    *table.Engine[model.SubAdmin]
	validate *validator.Validate
}

// NewSubAdminHandler creates a new SubAdminHandler. budget bounds how long
// the list waits for a page before showing the previous one.
func NewSubAdminHandler(screens *Screens, svc *service.SubAdminService, budget time.Duration) *SubAdminHandler {
	return &SubAdminHandler{
		Screens: screens,
		service: svc,
		table: table.New(table.Config[model.SubAdmin]{
			Scope:             service.ScopeSubAdmins,
			Path:              PathSubAdmins,
			Columns:           subAdminColumns(),
			Fetch:             svc.List,
			DefaultPageSize:   10,
			PageSizeOptions:   []int{5, 10, 20, 50},
			SearchPlaceholder: "Search sub-admins...",
			RenderBudget:      budget,
		}),
		validate: newValidator(),
	}
}

func subAdminColumns() []table.Column[model.SubAdmin] {
	return []table.Column[model.SubAdmin]{
		table.Display("adminId", "ID", func(a model.SubAdmin) template.HTML {
			return truncated(a.AdminID, 6)
		}),
		table.Text("fullName", "Full Name", func(a model.SubAdmin) string { return a.FullName }),
		table.Text("email", "Email", func(a model.SubAdmin) string { return a.Email }),
		table.Text("phoneNumber", "Phone", func(a model.SubAdmin) string {
			return strings.TrimSpace(a.CountryCode + " " + a.PhoneNumber)
		}),
		table.Text("country", "Country", func(a model.SubAdmin) string { return a.Country }),
		table.Display("role", "Role", func(a model.SubAdmin) template.HTML {
			return badge("destructive", a.Role)
		}),
		table.Text("referralCode", "Referral Code", func(a model.SubAdmin) string { return a.ReferralCode }),
	}
}

// HandleList handles GET /admin requests.
func (h *SubAdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	view := h.table.Load(r.Context(), h.cache(r), h.table.State(r.URL.Query()))
	if view.Redirect != "" {
		h.leave(w, r, view.Redirect)
		return
	}

	p := h.page(r, "Sub-Admin List", "admin", subAdminsData{Table: view})
	p.Refresh = refreshFor(view)
	h.render(w, http.StatusOK, web.PageSubAdmins, p)
}

// HandleCreatePage handles GET /admin/create requests. ?suggest=1 offers a
// generated password.
func (h *SubAdminHandler) HandleCreatePage(w http.ResponseWriter, r *http.Request) {
	data := h.createData(CreateSubAdminForm{})
	if r.URL.Query().Get("suggest") != "" {
		suggested, err := h.service.SuggestPassword()
		if err != nil {
			h.Logger.Error("failed to suggest password", "error", err)
		}
		data.Suggested = suggested
	}
	h.render(w, http.StatusOK, web.PageCreateSubAdmin, h.page(r, "Create Sub-Admin", "create-admin", data))
}

// HandleCreate handles POST /admin/create requests.
func (h *SubAdminHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := r.ParseForm(); err != nil {
		data := h.createData(CreateSubAdminForm{})
		data.Error = "Invalid form submission"
		h.render(w, http.StatusBadRequest, web.PageCreateSubAdmin, h.page(r, "Create Sub-Admin", "create-admin", data))
		return
	}

	form := CreateSubAdminForm{
		FullName:        strings.TrimSpace(r.PostForm.Get("fullName")),
		Email:           strings.TrimSpace(r.PostForm.Get("email")),
		CountryCode:     r.PostForm.Get("countryCode"),
		PhoneNumber:     strings.TrimSpace(r.PostForm.Get("phoneNumber")),
		Country:         r.PostForm.Get("country"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirmPassword"),
	}
	data := h.createData(form)

	if errs := fieldErrors(h.validate, form, createMessages); errs != nil {
		data.Errors = errs
		h.render(w, http.StatusUnprocessableEntity, web.PageCreateSubAdmin, h.page(r, "Create Sub-Admin", "create-admin", data))
		return
	}

	created, err := h.service.Create(r.Context(), h.cache(r), form.Request())
	if h.expired(w, r, err) {
		return
	}
	if err != nil {
		h.Logger.Warn("create sub-admin failed", "email", form.Email, "error", err)
		data.Error = apiclient.CreateSubAdminMessage(err)
		h.render(w, statusOf(err), web.PageCreateSubAdmin, h.page(r, "Create Sub-Admin", "create-admin", data))
		return
	}

	name := created.FullName
	if name == "" {
		name = form.FullName
	}
	h.flash(r, fmt.Sprintf("Sub-admin %s created successfully!", name))
	http.Redirect(w, r, PathSubAdmins, http.StatusSeeOther)
}

func (h *SubAdminHandler) createData(form CreateSubAdminForm) createSubAdminData {
	form.Password, form.ConfirmPassword = "", ""
	return createSubAdminData{
		Form:         form,
		CountryCodes: model.CountryCodes,
		Countries:    model.Countries,
	}
}

// refreshFor polls while the table still waits for its current page.
func refreshFor(v table.View) int {
	if v.Err != "" {
		return 0
	}
	if v.Loading || !v.HasData {
		return 1
	}
	return 0
}

func truncated(s string, n int) template.HTML {
	return template.HTML(fmt.Sprintf(`<span title="%s">%s</span>`,
		template.HTMLEscapeString(s), template.HTMLEscapeString(table.Truncate(s, n))))
}

func badge(variant, label string) template.HTML {
	return template.HTML(fmt.Sprintf(`<span class="badge %s">%s</span>`,
		template.HTMLEscapeString(variant), template.HTMLEscapeString(label)))
}
