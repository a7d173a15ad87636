package storage

import (
	"context"

	"noirqr/menu-svc/internal/domain"
	"noirqr/menu-svc/internal/service"
	"noirqr/telegram"
)

type MessageSender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// TelegramPublisher delivers order events straight to the venue chat. It is used
// when no Kafka broker is configured.
type TelegramPublisher struct {
	Sender MessageSender
}

func NewTelegramPublisher(sender MessageSender) *TelegramPublisher {
	return &TelegramPublisher{Sender: sender}
}

func (p *TelegramPublisher) PublishOrder(ctx context.Context, event domain.OrderEvent) error {
	return p.Sender.SendMessage(ctx, event.ChatID, telegram.FormatOrder(TelegramOrder(event)))
}

func TelegramOrder(event domain.OrderEvent) telegram.Order {
	lines := make([]telegram.Line, len(event.Lines))
	for i, l := range event.Lines {
		lines[i] = telegram.Line{Name: l.Name, Quantity: l.Quantity, Price: l.Price}
	}
	return telegram.Order{
		ID:            event.OrderID,
		VenueName:     event.VenueName,
		CustomerName:  event.CustomerName,
		CustomerPhone: event.CustomerPhone,
		Lines:         lines,
		Total:         event.TotalPrice,
		PlacedAt:      event.Timestamp,
	}
}

var _ service.OrderPublisher = (*TelegramPublisher)(nil)
