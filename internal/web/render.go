// Package web holds the console's HTML templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cayiba/cayiba-admin/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageLogin               = "login.html"
	PageDashboard           = "dashboard.html"
	PageSubAdmins           = "subadmins.html"
	PageCreateSubAdmin      = "subadmin_create.html"
	PageAdvertisements      = "advertisements.html"
	PageAdvertisementDetail = "advertisement_detail.html"
)

var pages = []string{
	PageLogin,
	PageDashboard,
	PageSubAdmins,
	PageCreateSubAdmin,
	PageAdvertisements,
	PageAdvertisementDetail,
}

// NavItem is an entry of the sidebar.
type NavItem struct {
	ID       string
	Label    string
	Href     string
	Children []NavItem
}

// Sidebar is the console navigation.
var Sidebar = []NavItem{
	{ID: "dashboard", Label: "Dashboard", Href: "/dashboard"},
	{ID: "users", Label: "Users", Children: []NavItem{
		{ID: "admin", Label: "All Admin", Href: "/admin"},
		{ID: "create-admin", Label: "Create Admin", Href: "/admin/create"},
	}},
	{ID: "advertisement", Label: "Advertisement", Href: "/advertisement"},
}

// Page is the data every screen is rendered with.
type Page struct {
	Title string
	// Nav is the ID of the highlighted sidebar entry.
	Nav   string
	User  *model.User
	Flash string
	CSRF  template.HTML
	// Refresh reloads the screen after that many seconds while data is
	// still loading.
	Refresh int
	Data    any
}

// Renderer executes the console templates.
type Renderer struct {
	pages map[string]*template.Template
	log   *slog.Logger
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer(log *slog.Logger) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages)), log: log}
	for _, name := range pages {
		tpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/table.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = tpl
	}
	return r, nil
}

// Render writes page name with status. The page is rendered to a buffer
// first so a template failure never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) {
	tpl, ok := r.pages[name]
	if !ok {
		r.log.Error("unknown page", "page", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		r.log.Error("render failed", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

var funcs = template.FuncMap{
	"formatDate":       FormatDate,
	"statusVariant":    StatusVariant,
	"inventoryVariant": InventoryVariant,
	"thousands":        Thousands,
	"orNA":             orNA,
	"sidebar":          func() []NavItem { return Sidebar },
}

// FormatDate renders an API timestamp as a short date, or returns it
// unchanged when it cannot be parsed.
func FormatDate(ts string) string {
	if ts == "" {
		return "N/A"
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return ts
}

// StatusVariant is the badge style of an advertisement status.
func StatusVariant(s model.AdStatus) string {
	switch s {
	case model.AdStatusActive:
		return "default"
	case model.AdStatusBlocked:
		return "destructive"
	case model.AdStatusDeleted:
		return "secondary"
	}
	return "outline"
}

// InventoryVariant is the badge style of an inventory state.
func InventoryVariant(s model.InventoryStatus) string {
	switch s {
	case model.InventoryAvailable:
		return "default"
	case model.InventorySold:
		return "destructive"
	case model.InventoryUnlist:
		return "secondary"
	}
	return "outline"
}

// Thousands formats n with comma separators.
func Thousands(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
