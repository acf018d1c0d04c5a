package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// NewEmailSender sends through SMTP. Deadlines are rendered in loc.
func NewEmailSender(host string, port int, user, password, from string, loc *time.Location) *EmailSender {
	if loc == nil {
		loc = time.UTC
	}
	return &EmailSender{
		From:     from,
		dialer:   gomail.NewDialer(host, port, user, password),
		location: loc,
	}
}

func (s *EmailSender) SendLeadAssigned(to, leadName, reason string) error {
	return s.send(to,
		fmt.Sprintf("Nouveau lead assigné : %s", leadName),
		"lead_assigned.html",
		LeadAssignedData{LeadName: leadName, Reason: reason},
	)
}

func (s *EmailSender) SendSLAAlert(to, leadName string, level entity.SLALevel, deadline time.Time) error {
	subject := fmt.Sprintf("Délai de réponse bientôt dépassé : %s", leadName)
	if level == entity.SLABreached {
		subject = fmt.Sprintf("Délai de réponse dépassé : %s", leadName)
	}
	return s.send(to, subject, "sla_alert.html", SLAAlertData{
		LeadName: leadName,
		Breached: level == entity.SLABreached,
		Deadline: deadline.In(s.location).Format("02/01/2006 15:04"),
	})
}

func (s *EmailSender) send(to, subject, tmpl string, data any) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send smtp mail: %w", err)
	}
	return nil
}
