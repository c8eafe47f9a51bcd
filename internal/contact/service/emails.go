package service

import (
	"bytes"
	"html/template"
)

const (
	businessSubjectPrefix = "New Contact Form Submission from "
	confirmationSubject   = "Thank you for contacting Open Door Professionals"
)

var businessTemplate = template.Must(template.New("contact_business").Parse(`
<h2>New Inquiry</h2>
<p><b>Name:</b> {{.Name}}</p>
<p><b>Company:</b> {{or .Company "N/A"}}</p>
<p><b>Email:</b> {{.Email}}</p>
<p><b>Phone:</b> {{or .Phone "N/A"}}</p>
<p><b>Message:</b> {{.Message}}</p>
`))

var confirmationTemplate = template.Must(template.New("contact_confirmation").Parse(
	`<p>Hi {{.Name}},</p><p>Thanks for reaching out! We'll get back to you within one business day.</p>`,
))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
