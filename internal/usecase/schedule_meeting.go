package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/xavierca1/prospection-crm/internal/entity"
)

type ScheduleMeetingUseCase struct {
	Providers    map[string]CalendarProvider
	Interactions InteractionAdder
}

func NewScheduleMeetingUseCase(providers map[string]CalendarProvider, interactions InteractionAdder) *ScheduleMeetingUseCase {
	return &ScheduleMeetingUseCase{
		Providers:    providers,
		Interactions: interactions,
	}
}

// Execute creates the calendar event and, when a prospect is given, logs a
// meeting interaction for it. The event is not rolled back if logging the
// interaction fails.
func (uc *ScheduleMeetingUseCase) Execute(ctx context.Context, input ScheduleMeetingInput) (*ScheduleMeetingOutput, error) {
	var errs []ValidationError
	if strings.TrimSpace(input.Event.Summary) == "" {
		errs = append(errs, ValidationError{"summary", "is required"})
	}
	if input.Event.Start.IsZero() {
		errs = append(errs, ValidationError{"startTime", "is required"})
	}
	if input.Event.End.IsZero() {
		errs = append(errs, ValidationError{"endTime", "is required"})
	} else if input.Event.End.Before(input.Event.Start) {
		errs = append(errs, ValidationError{"endTime", "must not be before startTime"})
	}
	if len(errs) > 0 {
		return nil, NewValidationFailed(errs)
	}

	provider, ok := uc.Providers[input.Provider]
	if !ok {
		return nil, &DomainError{Code: CodeUnknownProvider, Message: "calendrier inconnu: " + input.Provider}
	}

	event := input.Event
	event.Attendees = FilterAttendees(event.Attendees)

	created, err := provider.CreateEvent(ctx, input.AccessToken, event)
	if err != nil {
		return nil, &TechnicalError{Code: CodeCalendar, Message: "Erreur lors de la création de l'événement: " + err.Error(), Err: err}
	}
	log.Printf("📅 Événement %s créé via %s", created.EventID, input.Provider)

	out := &ScheduleMeetingOutput{
		Success:  true,
		EventID:  created.EventID,
		HTMLLink: created.HTMLLink,
	}

	if input.ProspectID != "" && uc.Interactions != nil {
		duree := int(event.End.Sub(event.Start).Minutes())
		notes := event.Summary
		if event.Description != "" {
			notes += "\n" + event.Description
		}
		it, err := uc.Interactions.AddInteraction(ctx, input.ProspectID, entity.NewInteraction{
			Type:  entity.InteractionReunion,
			Date:  event.Start,
			Notes: notes,
			Duree: &duree,
		})
		if err != nil {
			log.Printf("⚠️ Événement créé mais interaction non enregistrée pour %s: %v", input.ProspectID, err)
			return out, nil
		}
		out.Interaction = it.ID
	}

	return out, nil
}

// FilterAttendees keeps only non-empty addresses containing '@'.
func FilterAttendees(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a != "" && strings.Contains(a, "@") {
			out = append(out, a)
		}
	}
	return out
}
