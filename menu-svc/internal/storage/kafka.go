package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"noirqr/menu-svc/internal/domain"
	"noirqr/menu-svc/internal/service"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// PublishOrder keys messages by venue so one venue's orders stay in order.
func (p *KafkaPublisher) PublishOrder(ctx context.Context, event domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.VenueID, 10)),
		Value: payload,
	})
}

var _ service.OrderPublisher = (*KafkaPublisher)(nil)
