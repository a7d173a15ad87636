package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"noirqr/notify-svc/internal/domain"
	"noirqr/telegram"

	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxAttempts = 5
	DefaultRetryDelay  = time.Second
)

type Consumer struct {
	Reader MessageReader
	Sender Sender
	Log    logrus.FieldLogger

	// MaxAttempts bounds delivery tries per message. RetryDelay is the first pause
	// between tries and doubles after each failure.
	MaxAttempts int
	RetryDelay  time.Duration
}

func NewConsumer(reader MessageReader, sender Sender, log logrus.FieldLogger) *Consumer {
	return &Consumer{
		Reader:      reader,
		Sender:      sender,
		Log:         log,
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	c.Log.Info("Starting notification consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.Log.Info("notification consumer stopped")
				return
			}
			c.Log.WithError(err).Error("Error reading message")
			if !wait(ctx, c.RetryDelay) {
				return
			}
			continue
		}

		var msg domain.OrderEvent
		if err := json.Unmarshal(message.Value, &msg); err != nil {
			c.Log.WithError(err).WithField("offset", message.Offset).Error("Error unmarshaling message")
			continue
		}

		if err := c.ProcessMessage(ctx, msg); err != nil {
			c.Log.WithError(err).WithFields(logrus.Fields{
				"order_id": msg.OrderID,
				"venue_id": msg.VenueID,
			}).Error("order notification dropped")
		}
	}
}

// ProcessMessage delivers one order notification, retrying with exponential
// backoff. Messages of other types are ignored.
func (c *Consumer) ProcessMessage(ctx context.Context, msg domain.OrderEvent) error {
	if msg.Type != domain.OrderPlacedEvent {
		c.Log.WithField("type", msg.Type).Debug("ignoring message")
		return nil
	}
	fields := logrus.Fields{"order_id": msg.OrderID, "venue_id": msg.VenueID}
	if msg.ChatID == "" {
		c.Log.WithFields(fields).Warn("order event without chat id")
		return nil
	}

	text := telegram.FormatOrder(orderMessage(msg))
	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := c.RetryDelay

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = c.Sender.SendMessage(ctx, msg.ChatID, text); err == nil {
			c.Log.WithFields(fields).WithField("attempt", attempt).Info("order notification sent")
			return nil
		}
		if attempt == attempts {
			break
		}
		c.Log.WithFields(fields).WithField("attempt", attempt).WithError(err).Warn("order notification failed, retrying")
		if !wait(ctx, delay) {
			return ctx.Err()
		}
		delay *= 2
	}
	return fmt.Errorf("send order %d after %d attempts: %w", msg.OrderID, attempts, err)
}

func orderMessage(msg domain.OrderEvent) telegram.Order {
	lines := make([]telegram.Line, len(msg.Lines))
	for i, l := range msg.Lines {
		lines[i] = telegram.Line{Name: l.Name, Quantity: l.Quantity, Price: l.Price}
	}
	return telegram.Order{
		ID:            msg.OrderID,
		VenueName:     msg.VenueName,
		CustomerName:  msg.CustomerName,
		CustomerPhone: msg.CustomerPhone,
		Lines:         lines,
		Total:         msg.TotalPrice,
		PlacedAt:      msg.Timestamp,
	}
}

// wait sleeps for d and reports false if ctx ended first.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
