package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type LeadAssigner interface {
	Execute(ctx context.Context, input usecase.AssignLeadInput) (*usecase.AssignLeadOutput, error)
}

// acknowledger is the part of amqp.Delivery the worker settles messages with.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type Worker struct {
	Channel  *amqp.Channel
	Assigner LeadAssigner
	Logger   *zap.Logger
}

func NewWorker(ch *amqp.Channel, assigner LeadAssigner, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{Channel: ch, Assigner: assigner, Logger: logger}
}

// Start consumes lead events until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	if err := w.Channel.Qos(10, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.Info("lead worker consuming", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d.Body, &d)
		}
	}
}

// handle acks processed events. Malformed payloads and domain failures are
// dead-lettered; technical failures are requeued once, then dead-lettered.
func (w *Worker) handle(ctx context.Context, body []byte, d acknowledger) {
	var event entity.LeadEvent
	if err := json.Unmarshal(body, &event); err != nil || event.LeadID == "" {
		w.Logger.Warn("invalid lead event", zap.ByteString("body", body), zap.Error(err))
		d.Nack(false, false)
		return
	}

	log := w.Logger.With(zap.String("lead_id", event.LeadID), zap.String("origin", event.Origin))

	out, err := w.Assigner.Execute(ctx, usecase.AssignLeadInput{
		LeadID:          event.LeadID,
		TeamID:          event.TeamID,
		FormationTypeID: event.FormationTypeID,
	})
	if err != nil {
		requeue := usecase.IsTechnicalError(err) && !redelivered(d)
		log.Error("lead assignment failed", zap.Bool("requeue", requeue), zap.Error(err))
		d.Nack(false, requeue)
		return
	}

	if out.Result.Assigned() {
		log.Info("lead event processed", zap.String("user_id", *out.Result.UserID))
	} else {
		log.Info("lead event processed without owner", zap.String("reason", out.Result.Reason))
	}
	d.Ack(false)
}

func redelivered(d acknowledger) bool {
	if delivery, ok := d.(*amqp.Delivery); ok {
		return delivery.Redelivered
	}
	return false
}
