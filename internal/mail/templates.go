package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns notification data into HTML messages.
type Renderer struct {
	templates  *template.Template
	schoolName string
}

// NewRenderer parses the embedded templates.
func NewRenderer(schoolName string) (*Renderer, error) {
	tmpl, err := template.New("mail").Funcs(template.FuncMap{
		"paragraphs": func(s string) []string { return strings.Split(s, "\n") },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Renderer{templates: tmpl, schoolName: schoolName}, nil
}

// ContactDetails describes a contact form submission.
type ContactDetails struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Welcome renders the message sent after registration.
func (r *Renderer) Welcome(to, fullName string) (Message, error) {
	return r.render("welcome.html", []string{to}, "Welcome to "+r.schoolName, map[string]any{
		"Name":   fullName,
		"School": r.schoolName,
	})
}

// ContactNotification renders the staff notice for a new contact message.
func (r *Renderer) ContactNotification(recipients []string, details ContactDetails) (Message, error) {
	subject := details.Subject
	if subject == "" {
		subject = "No subject"
	}
	details.Subject = subject
	return r.render("contact_notification.html", recipients, "New contact message: "+subject, map[string]any{
		"Contact": details,
		"School":  r.schoolName,
	})
}

// ContactConfirmation renders the acknowledgement sent to the visitor.
func (r *Renderer) ContactConfirmation(to, name string) (Message, error) {
	return r.render("contact_confirmation.html", []string{to}, "We received your message", map[string]any{
		"Name":   name,
		"School": r.schoolName,
	})
}

func (r *Renderer) render(name string, to []string, subject string, data any) (Message, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Message{To: to, Subject: subject, HTMLBody: buf.String()}, nil
}
