package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/users"
)

//go:embed templates/*.html
var templateFiles embed.FS

const contentTypeHTML = "text/html; charset=utf-8"

var templateFuncs = template.FuncMap{
	"naira": func(amount float64) string {
		return fmt.Sprintf("₦%.2f", amount)
	},
}

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplates parses every page once. Pages are looked up by file name.
func ParseTemplates() (*template.Template, error) {
	return template.New("pages").Funcs(templateFuncs).ParseFS(TemplateFilesFS(), "*.html")
}

// pageData is what every page template gets.
type pageData struct {
	AppName string
	Title   string
	Active  string
	User    *users.User
	Notices []api.Notification
	Email   string
	Refresh int // seconds until the page reloads itself, 0 for never
	Data    any
}

// newPageData fills the common fields and drains the browser's pending
// notifications so each one is shown once.
func (s *Server) newPageData(r *http.Request, title, active string) pageData {
	data := pageData{
		AppName: s.config.GetAppName(),
		Title:   title,
		Active:  active,
	}
	if sess := browserSessionFrom(r.Context()); sess != nil {
		data.User = sess.Context.User()
		data.Notices = sess.Notices.Drain()
	}
	return data
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		zerolog.Ctx(r.Context()).Err(err).Str("template", name).Msg("failed to render page")
	}
}

func (s *Server) renderWaiting(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(r, "Loading", "")
	data.Refresh = 1
	s.render(w, r, http.StatusOK, "waiting.html", data)
}
