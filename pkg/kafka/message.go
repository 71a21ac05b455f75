package kafka

import (
	"encoding/json"
	"time"
)

// Message is the transport-agnostic unit handed to the producer.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// NewJSONMessage marshals a payload and stamps it with the current time.
func NewJSONMessage(key string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Key:       key,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}, nil
}

// WithHeader returns a copy of the message with an added header.
func (m Message) WithHeader(key, value string) Message {
	headers := make(map[string]string, len(m.Headers)+1)
	for k, v := range m.Headers {
		headers[k] = v
	}
	headers[key] = value
	m.Headers = headers
	return m
}
