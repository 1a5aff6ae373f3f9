// Package render turns model output (markdown) into terminal text or HTML.
package render

import (
	"bytes"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// gfm renders tables, strikethrough and autolinks, which the prompts ask for.
var gfm = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// HTML converts markdown to an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := gfm.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

const documentHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; line-height: 1.5; color: #2f3e2f; }
table { border-collapse: collapse; }
td, th { border: 1px solid #a3b18a; padding: 0.25rem 0.5rem; }
h2 { border-bottom: 1px solid #a3b18a; padding-bottom: 0.25rem; }
</style>
</head>
<body>
`

// Document wraps the rendered markdown in a standalone HTML page.
func Document(title, markdown string) (string, error) {
	body, err := HTML(markdown)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(documentHead, title) + body + "</body>\n</html>\n", nil
}

// ExportHTML writes markdown as a standalone HTML page to path.
func ExportHTML(path, title, markdown string) error {
	doc, err := Document(title, markdown)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Terminal renders markdown for display in a terminal of the given width.
// On a renderer failure the markdown is returned as is.
func Terminal(markdown string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
