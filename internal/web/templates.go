package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/loftwall/atrium/internal/domain"
	"github.com/loftwall/atrium/internal/service"
	"github.com/loftwall/atrium/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// pageData is the shared payload for every server-rendered page. Unused
// fields stay zero.
type pageData struct {
	Title        string
	AppName      string
	AnalyticsKey string
	Error        string // dismissible error banner
	Notice       string

	Email      string
	RedirectTo string
	Token      string

	User     domain.User
	Overview service.Overview
}

func (rt *Router) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if data.AppName == "" {
		data.AppName = rt.appName
	}
	data.AnalyticsKey = rt.AnalyticsKey

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name+".html", data); err != nil {
		slogx.FromContext(r.Context()).Error("template render failed", "template", name, "error", err)
	}
}
