package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/summary.html.tmpl
var templatesFS embed.FS

var summaryTemplate = template.Must(
	template.New("summary.html.tmpl").
		Funcs(template.FuncMap{
			"timestamp": func(doc Document) string {
				if doc.Meta.GeneratedAt.IsZero() {
					return ""
				}

				return doc.Meta.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST")
			},
		}).
		ParseFS(templatesFS, "templates/summary.html.tmpl"),
)

// RenderHTML writes doc as a self-contained HTML page to w.
func RenderHTML(w io.Writer, doc Document) error {
	if err := summaryTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("rendering summary html: %w", err)
	}

	return nil
}
