package review

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/yuin/goldmark"

	"github.com/benwest/storycast/internal/store"
)

//go:embed templates/preview.html
var templateFS embed.FS

var md = goldmark.New()

// WritePreview renders the given drafts to a standalone HTML page.
func WritePreview(path string, drafts []store.Draft) error {
	tmpl, err := template.New("preview.html").Funcs(template.FuncMap{
		"markdown": renderMarkdown,
	}).ParseFS(templateFS, "templates/preview.html")
	if err != nil {
		return fmt.Errorf("parsing preview template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]any{
		"Drafts":      drafts,
		"GeneratedAt": time.Now().Format("2006-01-02 15:04"),
	})
	if err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating preview directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}
	return nil
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}
