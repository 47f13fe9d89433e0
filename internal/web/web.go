// Package web renders the marketing page from embedded templates.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/laxmiresto/website/internal/menu"
	"github.com/laxmiresto/website/internal/order"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

// PageData feeds the index template.
type PageData struct {
	Business  order.Business
	Groups    []menu.Group
	CartCount int
}

// Page renders the site's single marketing page.
type Page struct {
	tmpl *template.Template
}

// NewPage parses the embedded templates.
func NewPage() (*Page, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	return &Page{tmpl: t}, nil
}

// Render writes the index page. The template executes into a buffer first
// so a failure mid-render never leaks half a page.
func (p *Page) Render(ctx context.Context, w http.ResponseWriter, data PageData) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "index.gohtml", data); err != nil {
		zctx.From(ctx).Error("render page", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
