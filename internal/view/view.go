// Package view holds the embedded HTML templates and the helpers they call.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const dateLayout = "2006-01-02 15:04"

// FuncMap returns the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"markdown": RenderMarkdown,
		"date":     FormatDate,
		"excerpt":  Excerpt,
		"add": func(a, b int) int {
			return a + b
		},
	}
}

// Templates parses every embedded template with FuncMap installed.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// RenderMarkdown converts markdown to sanitized HTML.
func RenderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}

// FormatDate renders time.Time and *time.Time values; nil and zero render empty.
func FormatDate(value interface{}) string {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.In(time.Local).Format(dateLayout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return FormatDate(*v)
	default:
		return ""
	}
}

// Excerpt trims text to at most limit runes, appending an ellipsis when cut.
func Excerpt(text string, limit int) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if limit <= 0 || len(runes) <= limit {
		return trimmed
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
