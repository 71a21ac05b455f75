// Package notify abstracts the push-notification transport. The core
// treats delivery as best effort: a failed dispatch is logged and never
// rolls back the state change that triggered it.
package notify

import (
	"context"

	apperrors "chefly/pkg/errors"
	"chefly/pkg/kafka"
	"chefly/pkg/logger"
)

// DispatchResult summarizes a send across a recipient's endpoints.
type DispatchResult struct {
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
}

// Transport delivers one message to a set of push endpoints.
type Transport interface {
	SendToEndpoints(ctx context.Context, endpoints []string, title, body string, metadata map[string]string) (DispatchResult, error)
}

// PushDispatch is the payload handed to the delivery pipeline.
type PushDispatch struct {
	Endpoints []string          `json:"endpoints"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// KafkaTransport publishes dispatch requests for the delivery workers to
// pick up. Publishing counts as success for every endpoint; the workers
// own per-endpoint retries.
type KafkaTransport struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaTransport(producer *kafka.Producer, log *logger.Logger) *KafkaTransport {
	return &KafkaTransport{
		producer: producer,
		log:      log,
	}
}

// LogTransport records dispatches in the log instead of delivering
// them. Stands in when no broker is configured.
type LogTransport struct {
	log *logger.Logger
}

func NewLogTransport(log *logger.Logger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) SendToEndpoints(ctx context.Context, endpoints []string, title, body string, metadata map[string]string) (DispatchResult, error) {
	t.log.Info("Push dispatch (log only)",
		"endpoints", len(endpoints),
		"title", title,
		"event_id", metadata["event_id"],
	)
	return DispatchResult{SuccessCount: len(endpoints)}, nil
}

func (t *KafkaTransport) SendToEndpoints(ctx context.Context, endpoints []string, title, body string, metadata map[string]string) (DispatchResult, error) {
	if len(endpoints) == 0 {
		return DispatchResult{}, nil
	}

	dispatch := PushDispatch{
		Endpoints: endpoints,
		Title:     title,
		Body:      body,
		Metadata:  metadata,
	}

	key := endpoints[0]
	if id, ok := metadata["event_id"]; ok && id != "" {
		key = id
	}

	msg, err := kafka.NewJSONMessage(key, dispatch)
	if err != nil {
		return DispatchResult{FailureCount: len(endpoints)}, apperrors.Downstream("push dispatch", err)
	}

	if err := t.producer.Publish(ctx, msg); err != nil {
		return DispatchResult{FailureCount: len(endpoints)}, apperrors.Downstream("push dispatch", err)
	}

	return DispatchResult{SuccessCount: len(endpoints)}, nil
}
