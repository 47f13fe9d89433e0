// Package handler exposes the JSON ordering API and the server-rendered
// marketing page. Handlers stay thin: cart and order semantics live in
// their domain packages, and this layer only maps HTTP to them.
package handler

import (
	"net/http"

	"github.com/laxmiresto/website/internal/menu"
	"github.com/laxmiresto/website/internal/order"
	"github.com/laxmiresto/website/internal/session"
	"github.com/laxmiresto/website/internal/web"
)

// sessionCookie carries the visitor's session ID. The cart lives
// server-side; the cookie is the only state the browser holds.
const sessionCookie = "resto_session"

// Handler serves the site and its API.
type Handler struct {
	catalog   *menu.Catalog
	sessions  *session.Manager
	assembler *order.Assembler
	business  order.Business
	page      *web.Page
}

// NewHandler constructs a Handler with its domain dependencies.
func NewHandler(
	catalog *menu.Catalog,
	sessions *session.Manager,
	assembler *order.Assembler,
	business order.Business,
	page *web.Page,
) *Handler {
	return &Handler{
		catalog:   catalog,
		sessions:  sessions,
		assembler: assembler,
		business:  business,
		page:      page,
	}
}

// Routes registers all endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.index)

	mux.HandleFunc("GET /api/menu", h.listMenu)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addCartItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.setCartItemQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.removeCartItem)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)

	mux.HandleFunc("POST /api/checkout", h.checkout)
	mux.HandleFunc("GET /api/checkout/receipt", h.downloadReceipt)
	mux.HandleFunc("POST /api/checkout/done", h.finishCheckout)
	mux.HandleFunc("POST /api/checkout/back", h.reopenCheckout)

	mux.HandleFunc("POST /api/contact", h.contact)
}

// session resolves the visitor's session from the cookie, creating one
// (and setting the cookie) on first contact.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	s, created := h.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

// index renders the marketing page with the menu grouped by category.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.page.Render(r.Context(), w, web.PageData{
		Business:  h.business,
		Groups:    h.catalog.Grouped(),
		CartCount: sess.Cart.Count(),
	})
}
