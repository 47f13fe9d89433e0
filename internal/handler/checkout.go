package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/laxmiresto/website/internal/order"
)

type checkoutRequest struct {
	Customer order.Customer
	Location *order.Coordinate
	Payment  string
}

func decodeCheckout(data []byte) (checkoutRequest, error) {
	var req checkoutRequest
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			req.Customer.Name, err = d.Str()
		case "phone":
			req.Customer.Phone, err = d.Str()
		case "address":
			req.Customer.Address, err = d.Str()
		case "instructions":
			req.Customer.Instructions, err = d.Str()
		case "payment":
			req.Payment, err = d.Str()
		case "location":
			if d.Next() == jx.Null {
				return d.Null()
			}
			loc := &order.Coordinate{}
			err = d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "lat":
					loc.Lat, err = d.Float64()
				case "lng":
					loc.Lng, err = d.Float64()
				default:
					err = d.Skip()
				}
				return err
			})
			if err == nil {
				req.Location = loc
			}
		default:
			err = d.Skip()
		}
		return err
	})
	return req, err
}

// checkout validates the delivery form against the session cart and, on
// success, confirms the order: the record is parked in the session and the
// client gets the share link and receipt location. The cart is only
// cleared later by an explicit done.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	req, err := decodeCheckout(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	payment, err := order.ParsePayment(req.Payment)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rec, err := h.assembler.Assemble(sess.Cart.Lines(), req.Customer, req.Location, payment)
	if err != nil {
		var mfErr *order.MissingFieldError
		switch {
		case errors.As(err, &mfErr):
			writeError(w, http.StatusUnprocessableEntity, mfErr.Error())
		case errors.Is(err, order.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "cart is empty")
		default:
			serverError(w, r, "assemble order", err)
		}
		return
	}

	sess.Confirm(rec)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("orderId", func(e *jx.Encoder) { e.Str(rec.ID) })
			e.Field("total", func(e *jx.Encoder) { e.RawStr(rec.Total.String()) })
			e.Field("payment", func(e *jx.Encoder) { e.Str(rec.Payment.Tag()) })
			e.Field("whatsappUrl", func(e *jx.Encoder) { e.Str(rec.ShareURL()) })
			e.Field("receiptUrl", func(e *jx.Encoder) { e.Str("/api/checkout/receipt") })
		})
	})
}

// downloadReceipt streams the confirmed order's receipt as an HTML file
// attachment. Repeatable while the order stays confirmed.
func (h *Handler) downloadReceipt(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	rec := sess.Pending()
	if rec == nil {
		writeError(w, http.StatusNotFound, "no confirmed order")
		return
	}

	doc, err := rec.Receipt()
	if err != nil {
		serverError(w, r, "render receipt", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+rec.ReceiptFilename()+`"`)
	_, _ = w.Write([]byte(doc))
}

// finishCheckout completes the flow: cart cleared, order discarded.
func (h *Handler) finishCheckout(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Done()
	w.WriteHeader(http.StatusNoContent)
}

// reopenCheckout backs out of a confirmed order, keeping the cart.
func (h *Handler) reopenCheckout(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Back()
	w.WriteHeader(http.StatusNoContent)
}

type contactRequest struct {
	Name    string
	Phone   string
	Message string
}

func decodeContact(data []byte) (contactRequest, error) {
	var req contactRequest
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			req.Name, err = d.Str()
		case "phone":
			req.Phone, err = d.Str()
		case "message":
			req.Message, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return req, err
}

// contact turns a contact-form submission into a WhatsApp link. It is
// independent of the cart flow.
func (h *Handler) contact(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	req, err := decodeContact(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name and phone are required")
		return
	}

	msg := order.ContactMessage(req.Name, req.Phone, req.Message)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("whatsappUrl", func(e *jx.Encoder) {
				e.Str(order.WhatsAppURL(h.business.WhatsAppPhone, msg))
			})
		})
	})
}
