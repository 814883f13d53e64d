//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"matricula/internal/audit"
	auditkafka "matricula/internal/audit/kafka"
	"matricula/pkg/testutil/containers"
)

func TestSinkAppendPublishesEvent(t *testing.T) {
	ctx := context.Background()

	broker := containers.NewRedpandaContainer(t)
	broker.CreateTopic(t, auditkafka.Topic)

	sink, err := auditkafka.New([]string{broker.Broker})
	require.NoError(t, err)
	defer sink.Close()

	event := audit.Event{
		ID:        uuid.NewString(),
		Action:    audit.ActionEnrollmentAccepted,
		ClientID:  "203.0.113.9",
		RequestID: uuid.NewString(),
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, sink.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Broker),
		kgo.ConsumeTopics(auditkafka.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, "203.0.113.9", string(records[0].Key), "events are keyed by client")

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, event.ID, got.ID)
	require.Equal(t, audit.ActionEnrollmentAccepted, got.Action)
}
