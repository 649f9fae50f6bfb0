// Package pages embeds the HTML shell, static assets and per-mode help text.
package pages

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var static embed.FS

//go:embed help/*.md
var help embed.FS

// Static returns the static asset tree rooted at static/
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Help returns the Markdown help text for an operation, or nil when none exists
func Help(operation string) []byte {
	data, err := help.ReadFile("help/" + operation + ".md")
	if err != nil {
		return nil
	}
	return data
}
