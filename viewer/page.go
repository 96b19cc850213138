package viewer

import (
	"bytes"
	_ "embed"
	"html"
)

//go:embed viewer.html
var pageHTML []byte

// renderPage fills the tab title into the embedded page.
func renderPage(title string) []byte {
	return bytes.ReplaceAll(pageHTML, []byte("__TITLE__"), []byte(html.EscapeString(title)))
}
