package streaming

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

const subscriberBuffer = 100

// EventBus distributes analysis events to local subscribers and, when NATS
// is configured, to the JetStream stream. Events published by other
// instances are relayed to local subscribers.
type EventBus struct {
	nats   *NATSPublisher
	origin string
	logger *logger.Logger

	mu          sync.RWMutex
	subscribers map[uint64]chan *models.AnalysisEvent
	nextID      uint64
	closed      bool
}

// NewEventBus creates a new event bus. nats may be nil.
func NewEventBus(nats *NATSPublisher, log *logger.Logger) *EventBus {
	return &EventBus{
		nats:        nats,
		origin:      uuid.NewString(),
		logger:      log.WithComponent("event-bus"),
		subscribers: make(map[uint64]chan *models.AnalysisEvent),
	}
}

// Start relays events published by other instances until ctx is done
func (eb *EventBus) Start(ctx context.Context) error {
	if eb.nats == nil || !eb.nats.IsConnected() {
		return nil
	}

	events, err := eb.nats.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for event := range events {
			if event.Origin == eb.origin {
				continue
			}
			eb.broadcast(event)
		}
	}()

	eb.logger.Info().Msg("relaying analysis events from NATS")
	return nil
}

// PublishAnalysis publishes an analysis event. NATS failures are logged and
// local subscribers are still served.
func (eb *EventBus) PublishAnalysis(ctx context.Context, event *models.AnalysisEvent) error {
	event.Origin = eb.origin

	if eb.nats != nil && eb.nats.IsConnected() {
		if err := eb.nats.Publish(ctx, event); err != nil {
			eb.logger.Warn().Err(err).Msg("failed to publish to NATS, using local broadcast only")
		}
	}

	eb.broadcast(event)
	return nil
}

func (eb *EventBus) broadcast(event *models.AnalysisEvent) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for id, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			eb.logger.Debug().Uint64("subscriber", id).Msg("subscriber channel full, dropping event")
		}
	}
}

// Subscribe returns a channel of events and a function that ends the subscription
func (eb *EventBus) Subscribe() (<-chan *models.AnalysisEvent, func()) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan *models.AnalysisEvent, subscriberBuffer)
	if eb.closed {
		close(ch)
		return ch, func() {}
	}

	eb.nextID++
	id := eb.nextID
	eb.subscribers[id] = ch

	eb.logger.Debug().Uint64("subscriber_id", id).Msg("new subscriber")

	unsubscribe := func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		if _, ok := eb.subscribers[id]; ok {
			close(ch)
			delete(eb.subscribers, id)
			eb.logger.Debug().Uint64("subscriber_id", id).Msg("subscriber removed")
		}
	}

	return ch, unsubscribe
}

// SubscriberCount returns the number of active subscribers
func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// Close ends every subscription and closes NATS
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.closed = true
	for id, ch := range eb.subscribers {
		close(ch)
		delete(eb.subscribers, id)
	}

	if eb.nats != nil {
		eb.nats.Close()
	}
}
