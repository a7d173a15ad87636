package service

import (
	"context"

	"noirqr/notify-svc/internal/domain"
	"noirqr/telegram"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Sender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessMessage(ctx context.Context, msg domain.OrderEvent) error
}

var (
	_ MessageReader     = (*kafka.Reader)(nil)
	_ Sender            = (*telegram.Client)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
