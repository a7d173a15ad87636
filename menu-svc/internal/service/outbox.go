package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultRelayInterval = 2 * time.Second
	DefaultRelayBatch    = 50
	OutboxBackoffBase    = 5 * time.Second
	OutboxBackoffCap     = 10 * time.Minute
	OutboxMaxAttempts    = 8
)

// DeliveryObserver is told about every outbox delivery attempt.
type DeliveryObserver interface {
	ObserveDelivery(success bool)
}

// OutboxRelay moves order events from the outbox to the publisher. Entries that fail
// are retried with exponential backoff until OutboxMaxAttempts is reached.
type OutboxRelay struct {
	outbox    OutboxRepository
	publisher OrderPublisher
	observer  DeliveryObserver
	log       logrus.FieldLogger
	interval  time.Duration
	batch     int
	now       func() time.Time
}

func NewOutboxRelay(outbox OutboxRepository, publisher OrderPublisher, observer DeliveryObserver, log logrus.FieldLogger) *OutboxRelay {
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		observer:  observer,
		log:       log,
		interval:  DefaultRelayInterval,
		batch:     DefaultRelayBatch,
		now:       time.Now,
	}
}

// Backoff returns the delay before the next try after attempt failed tries.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := OutboxBackoffBase
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= OutboxBackoffCap {
			return OutboxBackoffCap
		}
	}
	return delay
}

func (r *OutboxRelay) Run(ctx context.Context) {
	r.log.WithField("interval", r.interval.String()).Info("outbox relay started")
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
			r.log.WithError(err).Error("outbox flush failed")
		}
		select {
		case <-ctx.Done():
			r.log.Info("outbox relay stopped")
			return
		case <-ticker.C:
		}
	}
}

// Flush publishes every due entry once and reports how many were delivered.
func (r *OutboxRelay) Flush(ctx context.Context) (int, error) {
	entries, err := r.outbox.DueOutbox(ctx, r.now(), OutboxMaxAttempts, r.batch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, entry := range entries {
		entry.Event.OrderID = entry.OrderID
		pubErr := r.publisher.PublishOrder(ctx, entry.Event)
		if r.observer != nil {
			r.observer.ObserveDelivery(pubErr == nil)
		}

		fields := logrus.Fields{"order_id": entry.OrderID, "venue_id": entry.Event.VenueID, "attempt": entry.Attempts + 1}
		if pubErr == nil {
			if err := r.outbox.MarkOutboxSent(ctx, entry.ID, r.now()); err != nil {
				return sent, err
			}
			sent++
			continue
		}

		attempts := entry.Attempts + 1
		next := r.now().Add(Backoff(attempts))
		if err := r.outbox.MarkOutboxFailed(ctx, entry.ID, pubErr.Error(), next); err != nil {
			return sent, err
		}
		if attempts >= OutboxMaxAttempts {
			r.log.WithFields(fields).WithError(pubErr).Error("order notification abandoned")
		} else {
			r.log.WithFields(fields).WithError(pubErr).Warn("order notification failed, will retry")
		}
	}
	return sent, nil
}
