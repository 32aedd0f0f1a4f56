package outlook

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type dateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type location struct {
	DisplayName string `json:"displayName"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type attendee struct {
	EmailAddress emailAddress `json:"emailAddress"`
	Type         string       `json:"type"`
}

type eventRequest struct {
	Subject                    string           `json:"subject"`
	Body                       itemBody         `json:"body"`
	Start                      dateTimeTimeZone `json:"start"`
	End                        dateTimeTimeZone `json:"end"`
	Location                   *location        `json:"location,omitempty"`
	Attendees                  []attendee       `json:"attendees"`
	IsReminderOn               bool             `json:"isReminderOn"`
	ReminderMinutesBeforeStart int              `json:"reminderMinutesBeforeStart"`
}

type eventResponse struct {
	ID      string `json:"id"`
	WebLink string `json:"webLink"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
