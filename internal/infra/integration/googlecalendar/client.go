package googlecalendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/xavierca1/prospection-crm/internal/usecase"
)

const BaseURL = "https://www.googleapis.com/calendar/v3"

var ErrNotAuthenticated = fmt.Errorf("%w: veuillez vous connecter à Google Calendar", usecase.ErrCalendarUnauthorized)

type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	TimeZone   string
}

func NewClient(timeZone string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    BaseURL,
		TimeZone:   timeZone,
	}
}

// CreateEvent inserts the event in the user's primary calendar with an
// email reminder one day before and a popup 30 minutes before.
func (c *Client) CreateEvent(ctx context.Context, accessToken string, in usecase.CalendarEventInput) (*usecase.CalendarEventOutput, error) {
	if accessToken == "" {
		return nil, ErrNotAuthenticated
	}

	event := eventRequest{
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
		Start:       eventDateTime{DateTime: in.Start.Format(time.RFC3339), TimeZone: c.TimeZone},
		End:         eventDateTime{DateTime: in.End.Format(time.RFC3339), TimeZone: c.TimeZone},
		Reminders: reminders{
			UseDefault: false,
			Overrides: []reminderOverride{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
		},
	}
	for _, email := range in.Attendees {
		event.Attendees = append(event.Attendees, attendee{Email: email})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/calendars/primary/events", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.authorized(ctx, accessToken).Do(req)
	if err != nil {
		return nil, fmt.Errorf("google calendar request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		log.Printf("❌ [Google] Erreur création événement: %d - %s", resp.StatusCode, string(body))
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("google calendar: status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	var created eventResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("google calendar decode: %w", err)
	}

	return &usecase.CalendarEventOutput{EventID: created.ID, HTMLLink: created.HTMLLink}, nil
}

func (c *Client) authorized(ctx context.Context, accessToken string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}
