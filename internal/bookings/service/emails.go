package service

import (
	"bytes"
	"html/template"
)

const (
	businessSubjectPrefix = "New Service Booking Request - "
	confirmationSubject   = "Booking Confirmation - Open Door Professionals"
)

var businessTemplate = template.Must(template.New("business").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #77C249; border-bottom: 2px solid #77C249; padding-bottom: 10px;">
    New Booking Request
  </h1>

  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h2 style="color: #333; margin-top: 0;">Client Information</h2>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Phone:</strong> {{.Phone}}</p>
  </div>

  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h2 style="color: #333; margin-top: 0;">Service Details</h2>
    <p><strong>Service Type:</strong> {{.ServiceType}}</p>
    <p><strong>Preferred Date:</strong> {{.FormattedDate}}</p>
    <p><strong>Preferred Time:</strong> {{.PreferredTime}}</p>
    {{- if .Message}}
    <p><strong>Additional Message:</strong> {{.Message}}</p>
    {{- end}}
  </div>

  <div style="margin-top: 30px; padding: 20px; background-color: #e8f5e8; border-radius: 8px;">
    <p style="margin: 0; color: #333;">
      Please contact the client within 24 hours to confirm the appointment and discuss details.
    </p>
  </div>

  <div style="margin-top: 30px; text-align: center; color: #666; font-size: 12px;">
    <p>This is an automated message from the Open Door Professionals booking system.</p>
  </div>
</div>
`))

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #77C249; border-bottom: 2px solid #77C249; padding-bottom: 10px;">
    Thank You for Your Booking Request!
  </h1>

  <p>Dear {{.Name}},</p>

  <p>Thank you for your interest in our {{.ServiceType}} services. We have received your booking request and our team will contact you within 24 hours to confirm your appointment.</p>

  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h2 style="color: #333; margin-top: 0;">Your Booking Details</h2>
    <p><strong>Service:</strong> {{.ServiceType}}</p>
    <p><strong>Requested Date:</strong> {{.FormattedDate}}</p>
    <p><strong>Requested Time:</strong> {{.PreferredTime}}</p>
  </div>

  <p>If you have any urgent questions, please don't hesitate to contact us directly.</p>

  <div style="margin-top: 30px; padding: 20px; background-color: #e8f5e8; border-radius: 8px;">
    <p style="margin: 0; color: #333; text-align: center;">
      <strong>Open Door Professionals</strong><br>
      Your trusted partner for HR, BPO, and business solutions in the Philippines.
    </p>
  </div>
</div>
`))

// emailData is an admitted booking plus its display date.
type emailData struct {
	Name          string
	Email         string
	Phone         string
	ServiceType   string
	FormattedDate string
	PreferredTime string
	Message       string
}

func render(t *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
