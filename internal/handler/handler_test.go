package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxmiresto/website/internal/menu"
	"github.com/laxmiresto/website/internal/order"
	"github.com/laxmiresto/website/internal/session"
	"github.com/laxmiresto/website/internal/web"
)

var testBusiness = order.Business{
	Name:          "Hotel Laxmi Resto",
	Tagline:       "Open 24×7 • Pure Veg Family Restaurant",
	Address:       "Budsu Road, Kuchaman City, Rajasthan",
	WhatsAppPhone: "919414649999",
}

const testMenu = `[
	{"id": "st-1", "name": "Paneer Tikka", "price": 200, "category": "Starters", "veg": true},
	{"id": "br-1", "name": "Butter Naan", "price": 40, "category": "Breads", "veg": true}
]`

// client replays the session cookie across requests, like a browser.
type client struct {
	t      *testing.T
	mux    *http.ServeMux
	cookie *http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()

	catalog, err := menu.Parse([]byte(testMenu))
	require.NoError(t, err)

	page, err := web.NewPage()
	require.NoError(t, err)

	h := NewHandler(
		catalog,
		session.NewManager(time.Hour),
		order.NewAssembler(testBusiness),
		testBusiness,
		page,
	)
	mux := http.NewServeMux()
	h.Routes(mux)

	return &client{t: t, mux: mux}
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if c.cookie != nil {
		r.AddCookie(c.cookie)
	}

	w := httptest.NewRecorder()
	c.mux.ServeHTTP(w, r)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestListMenu(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodGet, "/api/menu", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	groups := body["groups"].([]any)
	require.Len(t, groups, 2)
	first := groups[0].(map[string]any)
	assert.Equal(t, "Starters", first["category"])
}

func TestAddToCart_MergesQuantities(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodPost, "/api/cart/items", `{"id": "st-1", "quantity": 2}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodPost, "/api/cart/items", `{"id": "st-1", "quantity": 3}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	lines := body["lines"].([]any)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 5, lines[0].(map[string]any)["quantity"])
	assert.EqualValues(t, 5, body["count"])
	assert.EqualValues(t, 1000, body["total"])
}

func TestAddToCart_UnknownItem(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodPost, "/api/cart/items", `{"id": "nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAddToCart_InvalidQuantity(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodPost, "/api/cart/items", `{"id": "st-1", "quantity": 0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = c.do(http.MethodGet, "/api/cart", "")
	assert.EqualValues(t, 0, decode(t, w)["count"])
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/api/cart/items", `{"id": "st-1", "quantity": 2}`)

	w := c.do(http.MethodPut, "/api/cart/items/st-1", `{"quantity": 0}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Empty(t, body["lines"])
	assert.EqualValues(t, 0, body["count"])
	assert.EqualValues(t, 0, body["total"])
}

func TestRemoveAndClear(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/api/cart/items", `{"id": "st-1"}`)
	c.do(http.MethodPost, "/api/cart/items", `{"id": "br-1"}`)

	w := c.do(http.MethodDelete, "/api/cart/items/st-1", "")
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = c.do(http.MethodDelete, "/api/cart", "")
	assert.EqualValues(t, 0, decode(t, w)["count"])
}

func TestSessionIsolation(t *testing.T) {
	a := newClient(t)
	b := newClient(t)

	a.do(http.MethodPost, "/api/cart/items", `{"id": "st-1", "quantity": 2}`)

	w := b.do(http.MethodGet, "/api/cart", "")
	assert.EqualValues(t, 0, decode(t, w)["count"])
}

func TestCheckout_MissingFieldKeepsCart(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/api/cart/items", `{"id": "st-1", "quantity": 2}`)

	w := c.do(http.MethodPost, "/api/checkout", `{"name": "", "phone": "98765", "address": "somewhere"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotContains(t, w.Body.String(), "orderId")

	w = c.do(http.MethodGet, "/api/cart", "")
	assert.EqualValues(t, 2, decode(t, w)["count"])

	// No confirmed order, so no receipt either.
	w = c.do(http.MethodGet, "/api/checkout/receipt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckout_EmptyCart(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodPost, "/api/checkout", `{"name": "Ravi", "phone": "98765", "address": "somewhere"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout_UnknownPayment(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/api/cart/items", `{"id": "st-1"}`)

	w := c.do(http.MethodPost, "/api/checkout",
		`{"name": "Ravi", "phone": "98765", "address": "somewhere", "payment": "bitcoin"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckout_ConfirmAndDownload(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/api/cart/items", `{"id": "st-1", "quantity": 2}`)

	w := c.do(http.MethodPost, "/api/checkout", `{
		"name": "Ravi",
		"phone": "9876543210",
		"address": "12 Station Road",
		"payment": "phonepe",
		"location": {"lat": 27.1178, "lng": 74.7797}
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	orderID := body["orderId"].(string)
	assert.True(t, strings.HasPrefix(orderID, "ORD"))
	assert.EqualValues(t, 400, body["total"])
	assert.Equal(t, "PHONEPE", body["payment"])

	share := body["whatsappUrl"].(string)
	assert.True(t, strings.HasPrefix(share, "https://wa.me/919414649999?text="))
	assert.Contains(t, share, "27.1178")

	// Receipt is downloadable, twice.
	for range 2 {
		w = c.do(http.MethodGet, "/api/checkout/receipt", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Regexp(t, `attachment; filename="Receipt_ORD\d+_[0-9a-f]{8}\.html"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "Paneer Tikka")
	}

	// Cart survives confirmation until an explicit done.
	w = c.do(http.MethodGet, "/api/cart", "")
	assert.EqualValues(t, 2, decode(t, w)["count"])
}

func TestCheckout_BackKeepsCart(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/api/cart/items", `{"id": "st-1", "quantity": 2}`)
	c.do(http.MethodPost, "/api/checkout", `{"name": "Ravi", "phone": "98765", "address": "somewhere"}`)

	w := c.do(http.MethodPost, "/api/checkout/back", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = c.do(http.MethodGet, "/api/checkout/receipt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodGet, "/api/cart", "")
	assert.EqualValues(t, 2, decode(t, w)["count"])
}

func TestCheckout_DoneClearsCart(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/api/cart/items", `{"id": "st-1", "quantity": 2}`)
	c.do(http.MethodPost, "/api/checkout", `{"name": "Ravi", "phone": "98765", "address": "somewhere"}`)

	w := c.do(http.MethodPost, "/api/checkout/done", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = c.do(http.MethodGet, "/api/cart", "")
	assert.EqualValues(t, 0, decode(t, w)["count"])

	w = c.do(http.MethodGet, "/api/checkout/receipt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContact(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodPost, "/api/contact",
		`{"name": "Sita", "phone": "9811111111", "message": "Rooms for tonight?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	link := decode(t, w)["whatsappUrl"].(string)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/919414649999?text="))
	assert.Contains(t, link, "Sita")

	w = c.do(http.MethodPost, "/api/contact", `{"name": "", "phone": "123"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestIndexPage(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/api/cart/items", `{"id": "st-1", "quantity": 3}`)

	w := c.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)

	page := w.Body.String()
	assert.Contains(t, page, "Hotel Laxmi Resto")
	assert.Contains(t, page, "Paneer Tikka")
	assert.Contains(t, page, "Cart: 3")
}
