package order

import (
	"encoding/base64"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// receiptTmpl is the standalone receipt document. All styling is inlined
// and the only image is a data URI, so the file renders identically from a
// preview tab, a downloaded copy, or a printer.
var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Business.Name}} - Order Receipt</title>
<style>
  body { font-family: Arial, sans-serif; background: #f5f5f5; padding: 20px; margin: 0; }
  .container { max-width: 500px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
  .header { text-align: center; border-bottom: 3px solid #1a5522; padding-bottom: 15px; margin-bottom: 20px; }
  .header h1 { color: #1a5522; margin: 0; font-size: 24px; }
  .header p { color: #666; margin: 5px 0 0 0; font-size: 12px; }
  .order-id { text-align: center; background: #f0f0f0; padding: 10px; border-radius: 5px; margin-bottom: 20px; font-weight: bold; color: #333; }
  .details { margin-bottom: 20px; font-size: 14px; }
  .detail-item { display: flex; justify-content: space-between; padding: 5px 0; border-bottom: 1px solid #eee; }
  .detail-label { color: #666; font-weight: 500; }
  .detail-value { color: #333; font-weight: bold; }
  table { width: 100%; border-collapse: collapse; margin: 20px 0; }
  thead { background: #f5f5f5; }
  th { padding: 10px; text-align: left; font-weight: bold; border-bottom: 2px solid #1a5522; color: #333; }
  td { padding: 8px; border-bottom: 1px solid #ddd; }
  .qty { text-align: center; }
  .amount { text-align: right; }
  .total-row { background: #f0f0f0; font-size: 16px; font-weight: bold; }
  .total-amount { color: #ea9e24; font-size: 20px; }
  .location { background: #e3f2fd; padding: 10px; border-radius: 5px; font-size: 12px; margin: 15px 0; border-left: 4px solid #1a5522; }
  .location a { color: #1a5522; text-decoration: none; }
  .special-instructions { background: #fff3cd; padding: 10px; border-radius: 5px; margin: 15px 0; border-left: 4px solid #ea9e24; font-size: 13px; }
  .qr { text-align: center; margin: 15px 0; }
  .qr img { width: 120px; height: 120px; }
  .qr p { color: #999; font-size: 11px; margin: 4px 0 0 0; }
  .footer { text-align: center; color: #999; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
  @media print {
    body { background: white; padding: 0; }
    .container { box-shadow: none; max-width: 100%; }
  }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>🍽️ {{.Business.Name}}</h1>
    <p>Order Confirmation Receipt</p>
  </div>

  <div class="order-id">Order ID: {{.OrderID}}</div>

  <div class="details">
    <div class="detail-item"><span class="detail-label">Customer Name:</span><span class="detail-value">{{.Customer.Name}}</span></div>
    <div class="detail-item"><span class="detail-label">Phone:</span><span class="detail-value">{{.Customer.Phone}}</span></div>
    <div class="detail-item"><span class="detail-label">Delivery Address:</span><span class="detail-value">{{.Customer.Address}}</span></div>
    <div class="detail-item"><span class="detail-label">Date &amp; Time:</span><span class="detail-value">{{.Timestamp}}</span></div>
    <div class="detail-item"><span class="detail-label">Payment:</span><span class="detail-value">{{.Payment}}</span></div>
  </div>

  {{if .Location}}
  <div class="location">
    📍 <strong>Live Location Shared</strong><br>
    Latitude: {{.Location.Lat}}<br>
    Longitude: {{.Location.Lng}}<br>
    <a href="{{.Location.MapURL}}">View on Google Maps →</a>
  </div>
  {{end}}

  <table>
    <thead>
      <tr><th>Item</th><th class="qty">Qty</th><th class="amount">Price</th></tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr><td>{{.Name}}</td><td class="qty">x{{.Quantity}}</td><td class="amount">₹{{.Total}}</td></tr>
      {{end}}
      <tr class="total-row">
        <td colspan="2">Total Amount</td>
        <td class="amount total-amount">₹{{.Total}}</td>
      </tr>
    </tbody>
  </table>

  {{if .Instructions}}
  <div class="special-instructions"><strong>Special Instructions:</strong> {{.Instructions}}</div>
  {{end}}

  {{if .QR}}
  <div class="qr">
    <img src="{{.QR}}" alt="QR code">
    <p>{{.QRCaption}}</p>
  </div>
  {{end}}

  <div class="footer">
    <p><strong>Thank you for ordering!</strong></p>
    <p>We will confirm your order via WhatsApp shortly.</p>
    <p>{{.Business.Name}} • {{.Business.Address}}</p>
    <p>{{.Business.Tagline}}</p>
  </div>
</div>
</body>
</html>
`))

// receiptZone pins receipt timestamps to the restaurant's timezone so the
// printed copy reads the same regardless of where the server runs. A fixed
// offset avoids depending on the host's tzdata.
var receiptZone = time.FixedZone("IST", 5*3600+1800)

type receiptItem struct {
	Name     string
	Quantity int
	Total    string
}

type receiptLocation struct {
	Lat    string
	Lng    string
	MapURL string
}

type receiptData struct {
	Business     Business
	OrderID      string
	Timestamp    string
	Customer     Customer
	Payment      string
	Location     *receiptLocation
	Items        []receiptItem
	Total        string
	Instructions string
	QR           template.URL
	QRCaption    string
}

// Receipt renders the record as a complete standalone HTML document. The
// QR code (map link when a location was shared, otherwise the restaurant's
// WhatsApp link) keeps the printed copy scannable; if QR generation fails
// the block is simply omitted.
func (r *Record) Receipt() (string, error) {
	data := receiptData{
		Business:     r.Business,
		OrderID:      r.ID,
		Timestamp:    r.CreatedAt.In(receiptZone).Format("2 Jan 2006, 3:04 PM"),
		Customer:     r.Customer,
		Payment:      r.Payment.Tag(),
		Total:        r.Total.String(),
		Instructions: r.Customer.Instructions,
	}

	for _, l := range r.Items {
		data.Items = append(data.Items, receiptItem{
			Name:     l.Name,
			Quantity: l.Quantity,
			Total:    l.Total().String(),
		})
	}

	qrTarget := "https://wa.me/" + r.Business.WhatsAppPhone
	data.QRCaption = "Scan to chat on WhatsApp"
	if r.Location != nil {
		data.Location = &receiptLocation{
			Lat:    formatCoord(r.Location.Lat),
			Lng:    formatCoord(r.Location.Lng),
			MapURL: r.Location.MapURL(),
		}
		qrTarget = r.Location.MapURL()
		data.QRCaption = "Scan for delivery location"
	}
	if png, err := qrcode.Encode(qrTarget, qrcode.Medium, 192); err == nil {
		data.QR = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	}

	var b strings.Builder
	if err := receiptTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ReceiptFilename returns a download name of the form
// Receipt_<orderID>_<suffix>.html. The suffix is fresh on every call so
// repeated downloads never clobber each other.
func (r *Record) ReceiptFilename() string {
	return "Receipt_" + r.ID + "_" + uuid.NewString()[:8] + ".html"
}
