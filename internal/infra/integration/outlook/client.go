package outlook

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

const BaseURL = "https://graph.microsoft.com/v1.0"

// Graph reads dateTime as wall-clock time in the given zone.
const graphDateTime = "2006-01-02T15:04:05"

var ErrNotAuthenticated = fmt.Errorf("%w: veuillez vous connecter à Outlook Calendar", usecase.ErrCalendarUnauthorized)

type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	TimeZone   string
	loc        *time.Location
}

func NewClient(timeZone string) *Client {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		log.Printf("⚠️ [Outlook] Fuseau %q inconnu, utilisation de UTC", timeZone)
		loc, timeZone = time.UTC, "UTC"
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    BaseURL,
		TimeZone:   timeZone,
		loc:        loc,
	}
}

func (c *Client) CreateEvent(ctx context.Context, accessToken string, in usecase.CalendarEventInput) (*usecase.CalendarEventOutput, error) {
	if accessToken == "" {
		return nil, ErrNotAuthenticated
	}

	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}

	event := eventRequest{
		Subject:                    in.Summary,
		Body:                       itemBody{ContentType: "HTML", Content: in.Description},
		Start:                      dateTimeTimeZone{DateTime: in.Start.In(loc).Format(graphDateTime), TimeZone: c.TimeZone},
		End:                        dateTimeTimeZone{DateTime: in.End.In(loc).Format(graphDateTime), TimeZone: c.TimeZone},
		Attendees:                  []attendee{},
		IsReminderOn:               true,
		ReminderMinutesBeforeStart: 30,
	}
	if in.Location != "" {
		event.Location = &location{DisplayName: in.Location}
	}
	for _, email := range in.Attendees {
		event.Attendees = append(event.Attendees, attendee{
			EmailAddress: emailAddress{Address: email},
			Type:         "required",
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/me/events", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
	)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		log.Printf("❌ [Outlook] Erreur Graph: %d - %s", resp.StatusCode, string(body))
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("outlook: status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	var created eventResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("outlook decode: %w", err)
	}

	return &usecase.CalendarEventOutput{EventID: created.ID, HTMLLink: created.WebLink}, nil
}
