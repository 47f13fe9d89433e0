// Package order assembles a checkout attempt into an order record and its
// two outbound artifacts: the WhatsApp message and the printable receipt.
//
// Assembly is pure: nothing here navigates, downloads, or persists. The
// handler layer owns the hand-off to the browser.
package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/laxmiresto/website/internal/cart"
)

// orderIDPrefix tags every generated order identifier.
const orderIDPrefix = "ORD"

var (
	// ErrEmptyCart is returned when checkout is attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrUnknownPayment is returned for an unrecognized settlement method.
	ErrUnknownPayment = errors.New("unknown payment method")
)

// MissingFieldError indicates a required customer field was left blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Business identifies the restaurant in messages and receipts.
type Business struct {
	Name          string
	Tagline       string
	Address       string
	WhatsAppPhone string
}

// Coordinate is an optional device location attached to an order.
type Coordinate struct {
	Lat float64
	Lng float64
}

// MapURL returns a Google Maps link for the coordinate.
func (c Coordinate) MapURL() string {
	return "https://maps.google.com/?q=" + formatCoord(c.Lat) + "," + formatCoord(c.Lng)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Customer holds the delivery form fields. Name, Phone, and Address are
// required; Instructions is free text.
type Customer struct {
	Name         string
	Phone        string
	Address      string
	Instructions string
}

// Payment is the settlement method chosen at checkout. It is a cosmetic
// tag: no transaction is processed.
type Payment string

const (
	PaymentRazorpay Payment = "razorpay"
	PaymentPhonePe  Payment = "phonepe"
	PaymentCash     Payment = "cash"
)

// ParsePayment normalizes a settlement method tag. An empty tag defaults
// to cash, matching the order form's fallback.
func ParsePayment(s string) (Payment, error) {
	switch p := Payment(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PaymentCash, nil
	case PaymentRazorpay, PaymentPhonePe, PaymentCash:
		return p, nil
	default:
		return "", ErrUnknownPayment
	}
}

// Tag returns the uppercased form used in messages and receipts.
func (p Payment) Tag() string { return strings.ToUpper(string(p)) }

// Record is the ephemeral snapshot of one confirmed checkout. It lives in
// the session until the customer finishes or backs out, and is never
// persisted.
type Record struct {
	ID        string
	Business  Business
	Customer  Customer
	Location  *Coordinate
	Items     []cart.Line
	Total     decimal.Decimal
	Payment   Payment
	CreatedAt time.Time
}

// Assembler builds order records for one business.
type Assembler struct {
	business Business
	now      func() time.Time
}

// NewAssembler returns an Assembler for the given business.
func NewAssembler(business Business) *Assembler {
	return &Assembler{business: business, now: time.Now}
}

// Assemble validates the customer fields and snapshots the cart into a
// Record. On any validation error no order identifier is generated and the
// caller's cart is left untouched.
func (a *Assembler) Assemble(lines []cart.Line, customer Customer, loc *Coordinate, payment Payment) (*Record, error) {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Phone = strings.TrimSpace(customer.Phone)
	customer.Address = strings.TrimSpace(customer.Address)
	customer.Instructions = strings.TrimSpace(customer.Instructions)

	switch {
	case customer.Name == "":
		return nil, &MissingFieldError{Field: "name"}
	case customer.Phone == "":
		return nil, &MissingFieldError{Field: "phone"}
	case customer.Address == "":
		return nil, &MissingFieldError{Field: "address"}
	}

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]cart.Line, len(lines))
	copy(items, lines)

	total := decimal.Zero
	for _, l := range items {
		total = total.Add(l.Total())
	}

	now := a.now()
	return &Record{
		ID:        orderIDPrefix + strconv.FormatInt(now.UnixMilli(), 10),
		Business:  a.business,
		Customer:  customer,
		Location:  loc,
		Items:     items,
		Total:     total,
		Payment:   payment,
		CreatedAt: now,
	}, nil
}
