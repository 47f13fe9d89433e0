package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/laxmiresto/website/internal/cart"
	"github.com/laxmiresto/website/internal/menu"
)

// listMenu returns the catalog grouped by category.
func (h *Handler) listMenu(w http.ResponseWriter, _ *http.Request) {
	groups := h.catalog.Grouped()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("groups", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, g := range groups {
						encodeGroup(e, g)
					}
				})
			})
		})
	})
}

func encodeGroup(e *jx.Encoder, g menu.Group) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("category", func(e *jx.Encoder) { e.Str(g.Category) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range g.Items {
					encodeMenuItem(e, item)
				}
			})
		})
	})
}

func encodeMenuItem(e *jx.Encoder, item menu.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(item.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
		e.Field("price", func(e *jx.Encoder) { e.RawStr(item.Price.String()) })
		e.Field("image", func(e *jx.Encoder) { e.Str(item.Image) })
		e.Field("category", func(e *jx.Encoder) { e.Str(item.Category) })
		e.Field("description", func(e *jx.Encoder) { e.Str(item.Description) })
		e.Field("prepTime", func(e *jx.Encoder) { e.Str(item.PrepTime) })
		e.Field("veg", func(e *jx.Encoder) { e.Bool(item.Veg) })
	})
}

// getCart returns the session's cart with derived totals.
func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.respondCart(w, sess.Cart)
}

func (h *Handler) respondCart(w http.ResponseWriter, c *cart.Store) {
	lines := c.Lines()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("lines", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, l := range lines {
						encodeLine(e, l)
					}
				})
			})
			e.Field("total", func(e *jx.Encoder) { e.RawStr(c.TotalPrice().String()) })
			e.Field("count", func(e *jx.Encoder) { e.Int(c.Count()) })
		})
	})
}

func encodeLine(e *jx.Encoder, l cart.Line) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(l.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(l.Name) })
		e.Field("price", func(e *jx.Encoder) { e.RawStr(l.Price.String()) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(l.Quantity) })
		e.Field("image", func(e *jx.Encoder) { e.Str(l.Image) })
		e.Field("category", func(e *jx.Encoder) { e.Str(l.Category) })
		e.Field("lineTotal", func(e *jx.Encoder) { e.RawStr(l.Total().String()) })
	})
}

type addItemRequest struct {
	ID       string
	Quantity int
}

func decodeAddItem(data []byte) (addItemRequest, error) {
	req := addItemRequest{Quantity: 1}
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			req.ID, err = d.Str()
		case "quantity":
			req.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	return req, err
}

// addCartItem adds a menu item to the session cart, merging quantity when
// the item is already there.
func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	req, err := decodeAddItem(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	item, err := h.catalog.GetByID(req.ID)
	if err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, "menu item "+req.ID+" not found")
			return
		}
		serverError(w, r, "lookup menu item", err)
		return
	}

	if err := sess.Cart.AddLine(cart.Line{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: req.Quantity,
		Image:    item.Image,
		Category: item.Category,
	}); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.respondCart(w, sess.Cart)
}

type setQuantityRequest struct {
	Quantity int
}

func decodeSetQuantity(data []byte) (setQuantityRequest, error) {
	var req setQuantityRequest
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "quantity":
			req.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	return req, err
}

// setCartItemQuantity sets a line's quantity; below 1 removes the line.
func (h *Handler) setCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	req, err := decodeSetQuantity(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	sess.Cart.SetQuantity(r.PathValue("id"), req.Quantity)
	h.respondCart(w, sess.Cart)
}

// removeCartItem deletes a line from the cart.
func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Cart.Remove(r.PathValue("id"))
	h.respondCart(w, sess.Cart)
}

// clearCart empties the cart.
func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Cart.Clear()
	h.respondCart(w, sess.Cart)
}
