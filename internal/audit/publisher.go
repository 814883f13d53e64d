package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"matricula/pkg/platform/circuit"
)

// Sink persists audit events. Implementations: the in-memory sink below and
// the kafka sink in audit/kafka.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

const (
	defaultBufferSize = 256

	// With the breaker open, one probe per interval checks whether the sink
	// has recovered.
	probeInterval = 30 * time.Second
)

// Publisher accepts events from request handlers and drains them to the sink
// on a background goroutine. Emit never blocks: when the buffer is full the
// event is dropped and counted in the logs, because intake latency matters
// more than a complete audit trail. A breaker around the sink stops a dead
// backend from stalling the drain loop on every event.
type Publisher struct {
	sink      Sink
	inbox     chan Event
	logger    *slog.Logger
	breaker   *circuit.Breaker
	nextProbe time.Time
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithBufferSize overrides the inbox capacity.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		p.inbox = make(chan Event, n)
	}
}

// NewPublisher creates a publisher draining into sink.
func NewPublisher(sink Sink, logger *slog.Logger, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		sink:    sink,
		inbox:   make(chan Event, defaultBufferSize),
		logger:  logger,
		breaker: circuit.New("audit-sink", circuit.WithFailureThreshold(5)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit queues an event, stamping ID and timestamp when absent.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit buffer full, event dropped",
			"action", event.Action,
		)
	}
}

// Run drains the inbox until ctx is done, then flushes whatever is queued.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.flush()
			return ctx.Err()
		case event := <-p.inbox:
			p.append(ctx, event)
		}
	}
}

func (p *Publisher) flush() {
	// Shutdown path: give the sink a short grace period per event.
	for {
		select {
		case event := <-p.inbox:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			p.append(ctx, event)
			cancel()
		default:
			return
		}
	}
}

func (p *Publisher) append(ctx context.Context, event Event) {
	if p.breaker.IsOpen() {
		if time.Now().Before(p.nextProbe) {
			p.logger.DebugContext(ctx, "audit sink circuit open, event dropped",
				"action", event.Action,
			)
			return
		}
	}

	err := p.sink.Append(ctx, event)
	if err == nil {
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.logger.InfoContext(ctx, "audit sink recovered")
		}
		return
	}

	p.logger.ErrorContext(ctx, "failed to append audit event",
		"action", event.Action,
		"error", err.Error(),
	)
	if _, change := p.breaker.RecordFailure(); change.Opened {
		p.logger.WarnContext(ctx, "audit sink circuit opened, dropping events")
	}
	p.nextProbe = time.Now().Add(probeInterval)
}

// InMemorySink keeps events in a slice. Development and tests.
type InMemorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewInMemorySink creates an empty sink.
func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

// Append stores the event.
func (s *InMemorySink) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything appended so far.
func (s *InMemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
