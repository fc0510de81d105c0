// Package views holds the embedded page templates and static assets.
package views

import (
	"embed"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed *.html
var templates embed.FS

// Static is served under /static.
//
//go:embed static
var Static embed.FS

func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(templates), ".html")
	engine.AddFunc("date", func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	})
	engine.AddFunc("inc", func(i int) int { return i + 1 })
	engine.AddFunc("datetime", func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	})
	return engine
}
