// Package templates renders the viewer's HTML.
//
// Pages are html/template files embedded at build time and exposed as
// templ components, so handlers render every fragment the same way:
//
//	templates.Index(view).Render(r.Context(), w)
package templates

import (
	"embed"
	"html/template"

	"github.com/JonMunkholm/artviewer/internal/core"
	"github.com/a-h/templ"
)

//go:embed *.html
var files embed.FS

var tmpl = template.Must(template.New("").Funcs(funcs).ParseFS(files, "*.html"))

var funcs = template.FuncMap{
	"add":       func(a, b int) int { return a + b },
	"sub":       func(a, b int) int { return a - b },
	"pageLinks": PageLinks,
}

// linkWindow is how many numbered page links the paginator shows.
const linkWindow = 5

// PageLinks returns the page numbers shown between the prev and next links:
// a window of up to five pages centred on the current one.
func PageLinks(v core.View) []int {
	if v.TotalPages < 1 || v.Page < 1 {
		return nil
	}

	start := v.Page - linkWindow/2
	end := start + linkWindow - 1
	if start < 1 {
		start, end = 1, min(linkWindow, v.TotalPages)
	}
	if end > v.TotalPages {
		end = v.TotalPages
		start = max(1, end-linkWindow+1)
	}

	links := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		links = append(links, p)
	}
	return links
}

// Index is the full page.
func Index(v core.View) templ.Component {
	return templ.FromGoHTML(tmpl.Lookup("index"), v)
}

// Viewer is the swappable fragment holding toasts, toolbar, table and
// paginator.
func Viewer(v core.View) templ.Component {
	return templ.FromGoHTML(tmpl.Lookup("viewer"), v)
}

type alert struct {
	Message string
	Action  string
	Code    string
}

// ErrorAlert renders a dismissible error box with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.FromGoHTML(tmpl.Lookup("error_alert"), alert{Message: message, Action: action, Code: code})
}
