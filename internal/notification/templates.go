package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"storefront-be/internal/order"
)

type emailTemplate struct {
	subject string
	body    *template.Template
}

const layout = `<!doctype html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<p>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</p>
{{block "content" .}}{{end}}
<p>Order <strong>#{{.OrderID}}</strong> &middot; Total {{.Total}}</p>
{{if .TrackingID}}<p>Tracking ID: <strong>{{.TrackingID}}</strong></p>{{end}}
<p>Thank you for shopping with us.</p>
</body></html>`

var templates = map[order.Event]emailTemplate{
	order.EventPlaced: {
		subject: "We received your order #%s",
		body:    mustParse(`{{define "content"}}<p>Your order has been placed and confirmed.</p>{{end}}`),
	},
	order.EventConfirmed: {
		subject: "Your order #%s is confirmed",
		body:    mustParse(`{{define "content"}}<p>Your order is confirmed and being prepared.</p>{{end}}`),
	},
	order.EventShipped: {
		subject: "Your order #%s has shipped",
		body:    mustParse(`{{define "content"}}<p>Good news, your order is on its way.</p>{{end}}`),
	},
	order.EventDelivered: {
		subject: "Your order #%s was delivered",
		body:    mustParse(`{{define "content"}}<p>Your order has been delivered. We hope you love it.</p>{{end}}`),
	},
}

func mustParse(content string) *template.Template {
	t := template.Must(template.New("email").Parse(layout))
	return template.Must(t.Parse(content))
}

type emailData struct {
	Name       string
	OrderID    string
	Total      string
	TrackingID string
}

// render builds the subject and HTML body for event.
func render(event order.Event, name string, o *order.Order) (string, string, error) {
	tmpl, ok := templates[event]
	if !ok {
		return "", "", fmt.Errorf("no email template for event %q", event)
	}

	data := emailData{
		Name:    name,
		OrderID: shortID(o.ID),
		Total:   o.TotalAmount.StringFixed(2),
	}
	if o.TrackingID != nil {
		data.TrackingID = *o.TrackingID
	}

	var buf bytes.Buffer
	if err := tmpl.body.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return fmt.Sprintf(tmpl.subject, data.OrderID), buf.String(), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
