package order

import (
	"fmt"
	"net/url"
	"strings"
)

// Message renders the shareable order text. The layout is deterministic:
// header, identity block, itemized lines in cart order, grand total, an
// optional map link (omitted entirely when no location was shared),
// optional instructions, and the settlement tag.
func (r *Record) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽️ *%s Order*\n\n", r.Business.Name)
	fmt.Fprintf(&b, "*Order ID:* %s\n", r.ID)
	fmt.Fprintf(&b, "*Name:* %s\n", r.Customer.Name)
	fmt.Fprintf(&b, "*Phone:* %s\n", r.Customer.Phone)
	fmt.Fprintf(&b, "*Address:* %s\n\n", r.Customer.Address)

	b.WriteString("*Order Details:*\n")
	for _, l := range r.Items {
		fmt.Fprintf(&b, "%s x%d - ₹%s\n", l.Name, l.Quantity, l.Total().String())
	}

	fmt.Fprintf(&b, "\n*Total: ₹%s*", r.Total.String())
	if r.Location != nil {
		fmt.Fprintf(&b, "\n📍 Live Location: %s", r.Location.MapURL())
	}
	b.WriteString("\n\n")

	if r.Customer.Instructions != "" {
		fmt.Fprintf(&b, "*Special Instructions:* %s\n", r.Customer.Instructions)
	}
	fmt.Fprintf(&b, "*Payment Method:* %s", r.Payment.Tag())

	return b.String()
}

// ShareURL returns the WhatsApp link that opens a chat with the restaurant
// pre-filled with the order message.
func (r *Record) ShareURL() string {
	return WhatsAppURL(r.Business.WhatsAppPhone, r.Message())
}

// WhatsAppURL builds a wa.me link carrying text as a percent-encoded query
// parameter.
func WhatsAppURL(phone, text string) string {
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(text)
}

// ContactMessage renders the contact-form text. It is independent of the
// cart flow.
func ContactMessage(name, phone, message string) string {
	return fmt.Sprintf("Name: %s\nPhone: %s\nMessage: %s", name, phone, message)
}
