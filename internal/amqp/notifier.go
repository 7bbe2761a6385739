package amqp

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"txboard/internal/core"
	"txboard/internal/store"
)

// Publisher sends a message body under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Notifier publishes the store's load outcome as events. Publishing happens in
// the background so store callbacks return immediately.
type Notifier struct {
	pub     Publisher
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

var _ store.Observer = (*Notifier)(nil)

func NewNotifier(pub Publisher, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		pub:     pub,
		logger:  logger.With("component", "amqp"),
		timeout: time.Minute,
	}
}

func (n *Notifier) Loaded(stats core.Stats) {
	n.send(RoutingLoaded, NewLoadedEvent(stats))
}

func (n *Notifier) LoadFailed(err error) {
	n.send(RoutingLoadFailed, NewLoadFailedEvent(err))
}

// ViewChanged is not published.
func (n *Notifier) ViewChanged([]core.Transaction) {}

func (n *Notifier) send(routingKey string, ev *LoadEvent) {
	body, err := ev.ToJSON()
	if err != nil {
		n.logger.Error("Failed to marshal load event", "routing_key", routingKey, "error", err)
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.pub.Publish(ctx, routingKey, body); err != nil {
			n.logger.Error("Failed to publish load event", "routing_key", routingKey, "error", err)
			return
		}
		n.logger.Info("Published load event", "routing_key", routingKey)
	}()
}

// Wait blocks until every pending event has been published or abandoned.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
