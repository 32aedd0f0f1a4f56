package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/prospection-crm/internal/entity"
)

var dealClosedTemplate = template.Must(template.New("deal_closed").Parse(`<p>Bonjour,</p>
{{if .Won}}<p>🎉 Affaire conclue avec <strong>{{.Nom}}</strong>{{if .Entreprise}} ({{.Entreprise}}){{end}}.</p>
{{else}}<p>L'opportunité <strong>{{.Nom}}</strong>{{if .Entreprise}} ({{.Entreprise}}){{end}} est passée en « {{.Statut}} ».</p>
{{end}}{{if .Email}}<p>Contact: {{.Email}}</p>
{{end}}<p>{{.Date}}</p>
`))

var meetingTemplate = template.Must(template.New("meeting").Parse(`<p>Bonjour,</p>
<p>Une réunion est planifiée avec <strong>{{.Nom}}</strong>{{if .Entreprise}} ({{.Entreprise}}){{end}} le {{.Date}}.</p>
{{if .Email}}<p>Contact: {{.Email}}</p>
{{end}}`))

const mailDateLayout = "02/01/2006 15:04"

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	s := &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
	s.send = func(m *gomail.Message) error {
		return gomail.NewDialer(s.Host, s.Port, s.User, s.Password).DialAndSend(m)
	}
	return s
}

func (s *EmailSender) NotifyDealClosed(evt entity.PipelineEvent) error {
	data := DealClosedEmailData{
		Nom:        evt.Nom,
		Entreprise: evt.Entreprise,
		Email:      evt.Email,
		Statut:     evt.ToStatus.Label(),
		Won:        evt.ToStatus == entity.StatusConclu,
		Date:       evt.OccurredAt.Format(mailDateLayout),
	}

	subject := fmt.Sprintf("Prospect perdu: %s", evt.Nom)
	if data.Won {
		subject = fmt.Sprintf("🎉 Affaire conclue: %s", evt.Nom)
	}
	return s.sendTemplate(subject, dealClosedTemplate, data)
}

func (s *EmailSender) NotifyMeetingScheduled(evt entity.PipelineEvent) error {
	when := evt.OccurredAt
	if evt.InteractionDate != nil {
		when = *evt.InteractionDate
	}
	data := MeetingEmailData{
		Nom:        evt.Nom,
		Entreprise: evt.Entreprise,
		Email:      evt.Email,
		Date:       when.In(parisOrUTC()).Format(mailDateLayout),
	}
	return s.sendTemplate(fmt.Sprintf("📅 Réunion avec %s", evt.Nom), meetingTemplate, data)
}

func (s *EmailSender) sendTemplate(subject string, t *template.Template, data any) error {
	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erreur de rendu du template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.send(m); err != nil {
		return fmt.Errorf("erreur d'envoi SMTP: %w", err)
	}
	return nil
}

func parisOrUTC() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.UTC
	}
	return loc
}
