// Package stream publishes booking lifecycle events for downstream
// consumers (notification fan-out, analytics). Publishing is best effort.
package stream

import (
	"context"
	"time"

	apperrors "chefly/pkg/errors"
	"chefly/pkg/kafka"
	"chefly/pkg/model"
)

// StatusChange is the wire payload for a booking transition.
type StatusChange struct {
	EventID     string    `json:"event_id"`
	OrderNumber int64     `json:"order_number"`
	CustomerID  string    `json:"customer_id"`
	ChefID      string    `json:"chef_id"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	Reason      string    `json:"reason,omitempty"`
	Actor       string    `json:"actor"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// StatusPublisher emits a record for every successful transition.
type StatusPublisher interface {
	PublishStatusChange(ctx context.Context, event *model.Event, fromStatus, actor string) error
}

type kafkaStatusPublisher struct {
	producer *kafka.Producer
}

func NewKafkaStatusPublisher(producer *kafka.Producer) StatusPublisher {
	return &kafkaStatusPublisher{producer: producer}
}

func (p *kafkaStatusPublisher) PublishStatusChange(ctx context.Context, event *model.Event, fromStatus, actor string) error {
	change := StatusChange{
		EventID:     event.ID,
		OrderNumber: event.OrderNumber,
		CustomerID:  event.CustomerID,
		ChefID:      event.ChefID,
		FromStatus:  fromStatus,
		ToStatus:    event.Status,
		Reason:      event.Reason,
		Actor:       actor,
		OccurredAt:  time.Now().UTC(),
	}

	msg, err := kafka.NewJSONMessage(event.ID, change)
	if err != nil {
		return apperrors.Downstream("status stream", err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return apperrors.Downstream("status stream", err)
	}
	return nil
}

// NopStatusPublisher drops everything; used when Kafka is not configured
// and in tests.
type NopStatusPublisher struct{}

func (NopStatusPublisher) PublishStatusChange(context.Context, *model.Event, string, string) error {
	return nil
}
