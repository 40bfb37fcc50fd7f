package api

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/modernice/zipdoc/archive"
	"github.com/modernice/zipdoc/generate"
)

//go:embed templates/*.html
var templatesFS embed.FS

const pageTemplate = "index.html"

type renderer struct {
	templates *template.Template
}

func newRenderer() *renderer {
	return &renderer{
		templates: template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

type page struct {
	Title       string
	Description string
	Field       string
	Notices     []generate.Notice
	Download    template.URL
	Filename    string
}

func newPage() *page {
	return &page{
		Title:       "AI Code Documentation and Data Flow Generator",
		Description: "Upload a ZIP file containing your code to generate comprehensive documentation for each file.",
		Field:       FormField,
		Filename:    generate.Filename,
	}
}

func (p *page) notice(kind generate.NoticeKind, msg string) {
	p.Notices = append(p.Notices, generate.Notice{Kind: kind, Message: msg})
}

func (p *page) rejected(rejections []archive.Rejection) {
	for _, r := range rejections {
		p.Notices = append(p.Notices, generate.Notice{
			Kind:    generate.Warning,
			Path:    r.Name,
			Message: fmt.Sprintf("Skipped %s: %s", r.Name, r.Reason),
		})
	}
}

// offer attaches doc as a download link. Empty documents are never offered.
func (p *page) offer(doc *generate.Document) {
	if doc == nil || doc.Empty() {
		return
	}
	p.Download = dataURI(generate.MIMEType, []byte(doc.Markdown()))
}

func dataURI(mime string, data []byte) template.URL {
	return template.URL(fmt.Sprintf("data:%s;charset=utf-8;base64,%s", mime, base64.StdEncoding.EncodeToString(data)))
}
