package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/prospection-crm/internal/entity"
)

// Notifier sends the team notifications triggered by pipeline events.
type Notifier interface {
	NotifyDealClosed(evt entity.PipelineEvent) error
	NotifyMeetingScheduled(evt entity.PipelineEvent) error
}

type Worker struct {
	Channel  *amqp.Channel
	Notifier Notifier
}

func NewWorker(ch *amqp.Channel, notifier Notifier) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("échec d'enregistrement du consommateur: %w", err)
	}

	log.Printf(" [*] Worker en attente sur la file '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Printf("⚠️ [WORKER] Canal fermé, arrêt du consommateur")
				return nil
			}
			w.handle(d)
		}
	}
}

func (w *Worker) handle(d amqp.Delivery) {
	var evt entity.PipelineEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		log.Printf("❌ [WORKER] JSON invalide: %s", err)
		d.Nack(false, false)
		return
	}

	if err := w.processMessage(evt); err != nil {
		log.Printf("❌ [WORKER] Erreur de traitement %s (%s): %s", evt.Type, evt.ProspectID, err)
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

func (w *Worker) processMessage(evt entity.PipelineEvent) error {
	switch {
	case evt.Type == entity.EventStatusChanged && (evt.ToStatus == entity.StatusConclu || evt.ToStatus == entity.StatusPerdu):
		log.Printf("🏁 [WORKER] %s passé en %s", evt.Nom, evt.ToStatus.Label())
		return w.Notifier.NotifyDealClosed(evt)

	case evt.Type == entity.EventInteractionAdded && evt.InteractionType == entity.InteractionReunion:
		log.Printf("📅 [WORKER] Réunion planifiée avec %s", evt.Nom)
		return w.Notifier.NotifyMeetingScheduled(evt)

	default:
		return nil
	}
}
