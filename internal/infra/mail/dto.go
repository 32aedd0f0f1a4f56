package mail

import "gopkg.in/gomail.v2"

type DealClosedEmailData struct {
	Nom        string
	Entreprise string
	Email      string
	Statut     string
	Won        bool
	Date       string
}

type MeetingEmailData struct {
	Nom        string
	Entreprise string
	Email      string
	Date       string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string

	send func(m *gomail.Message) error
}
