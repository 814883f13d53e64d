// Package kafka publishes audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"matricula/internal/audit"
)

// Topic carries the intake audit trail.
const Topic = "matricula.audit"

// Sink implements audit.Sink on Kafka. Events are keyed by client identifier
// so one client's trail stays ordered within a partition.
type Sink struct {
	client *kgo.Client
}

// New creates a Kafka sink connected to the given brokers.
func New(brokers []string) (*Sink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Sink{client: client}, nil
}

// Append publishes one event synchronously. The audit publisher already
// buffers, so blocking here does not touch the request path.
func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Key:   []byte(event.ClientID),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes and releases the underlying client.
func (s *Sink) Close() {
	s.client.Close()
}
