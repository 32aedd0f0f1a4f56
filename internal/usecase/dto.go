package usecase

import "time"

// ImportRow is one spreadsheet line after header resolution.
type ImportRow struct {
	Line          int
	Nom           string
	Entreprise    string
	Email         string
	Telephone     string
	Adresse       string
	ValeurEstimee *float64
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

type CalendarEventInput struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       time.Time `json:"startTime"`
	End         time.Time `json:"endTime"`
	Location    string    `json:"location"`
	Attendees   []string  `json:"attendees"`
}

type CalendarEventOutput struct {
	EventID  string `json:"eventId"`
	HTMLLink string `json:"htmlLink"`
}

type ScheduleMeetingInput struct {
	Provider    string
	AccessToken string
	ProspectID  string
	Event       CalendarEventInput
}

type ScheduleMeetingOutput struct {
	Success     bool   `json:"success"`
	EventID     string `json:"eventId"`
	HTMLLink    string `json:"htmlLink"`
	Interaction string `json:"interactionId,omitempty"`
}
