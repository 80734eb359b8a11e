package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"newsteps/internal/model"
)

var requestConfirmationTmpl = template.Must(template.New("request").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hi {{.RequestorInfo.FirstName}},</p>
<p>We received your shoe request <strong>{{.RequestID}}</strong>.</p>
<ul>
{{range .Items}}<li>{{.Brand}} {{.Name}}, size {{.Size}}</li>
{{end}}</ul>
{{if eq .ShippingInfo.DeliveryMethod "shipping"}}<p>Shipping to {{.ShippingInfo.AddressLine1}}, {{.ShippingInfo.City}}, {{.ShippingInfo.State}} {{.ShippingInfo.ZipCode}}.</p>
{{else}}<p>We will contact you to arrange pickup.</p>
{{end}}<p>Shipping fee: ${{printf "%.2f" .ShippingFee}}. Total: ${{printf "%.2f" .TotalCost}}.</p>
<p>New Steps</p>
</body>
</html>`))

var donationConfirmationTmpl = template.Must(template.New("donation").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hi {{.DonorInfo.FirstName}},</p>
<p>Thank you for your donation <strong>{{.DonationID}}</strong>.</p>
{{if eq .Kind "money"}}<p>Amount: ${{printf "%.2f" .Amount}}</p>
{{else}}<ul>
{{range .Items}}<li>{{.Quantity}} x {{.Brand}} {{.ModelName}}, size {{.Size}}</li>
{{end}}</ul>
{{end}}<p>New Steps</p>
</body>
</html>`))

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// RequestConfirmation renders the email sent after a request is submitted.
func RequestConfirmation(req *model.Request) (Message, error) {
	var buf bytes.Buffer
	if err := requestConfirmationTmpl.Execute(&buf, req); err != nil {
		return Message{}, fmt.Errorf("render request confirmation: %w", err)
	}
	return Message{
		To:      req.RequestorInfo.Email,
		Subject: fmt.Sprintf("Your New Steps request %s", req.RequestID),
		HTML:    buf.String(),
	}, nil
}

// DonationConfirmation renders the email sent after a donation is submitted.
func DonationConfirmation(d *model.Donation) (Message, error) {
	var buf bytes.Buffer
	if err := donationConfirmationTmpl.Execute(&buf, d); err != nil {
		return Message{}, fmt.Errorf("render donation confirmation: %w", err)
	}
	return Message{
		To:      d.DonorInfo.Email,
		Subject: fmt.Sprintf("Thank you for donation %s", d.DonationID),
		HTML:    buf.String(),
	}, nil
}
