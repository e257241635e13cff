// Package views bundles the HTML templates into the binary and builds the
// Fiber view engine around them.
package views

import (
	"embed"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed *.html layouts/*.html
var files embed.FS

// NewEngine returns the view engine with the template helpers the pages use.
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(files), ".html")
	engine.AddFunc("date", func(t time.Time) string {
		return t.Format("January 2, 2006")
	})
	engine.AddFunc("add", func(a, b int) int { return a + b })
	engine.AddFunc("sub", func(a, b int) int { return a - b })
	return engine
}
