package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"noirqr/menu-svc/internal/domain"
)

type CartRequestLine struct {
	ItemID   int64 `json:"itemId" validate:"required"`
	Quantity int   `json:"quantity" validate:"min=1"`
}

// UnmarshalJSON also accepts the item id under "id", which is what menu pages send.
func (l *CartRequestLine) UnmarshalJSON(data []byte) error {
	var raw struct {
		ItemID   int64 `json:"itemId"`
		ID       int64 `json:"id"`
		Quantity int   `json:"quantity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.ItemID = raw.ItemID
	if l.ItemID == 0 {
		l.ItemID = raw.ID
	}
	l.Quantity = raw.Quantity
	return nil
}

type CreateOrderInput struct {
	Slug          string            `json:"slug" validate:"required"`
	Cart          []CartRequestLine `json:"cart" validate:"required,min=1,dive"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
}

// OrderStatus is the public view of an order.
type OrderStatus struct {
	ID         int64     `json:"id"`
	VenueName  string    `json:"venueName"`
	Status     string    `json:"status"`
	TotalPrice float64   `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

type OrderServiceInterface interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	Status(ctx context.Context, id int64) (*OrderStatus, error)
	List(ctx context.Context, p Principal) ([]domain.Order, error)
	ListVenue(ctx context.Context, p Principal, venueID int64) ([]domain.Order, error)
}

type OrderService struct {
	venues        VenueRepository
	items         MenuRepository
	orders        OrderRepository
	notifications bool
}

// NewOrderService builds the order service. When notifications is true, orders for
// venues with a Telegram chat get an outbox entry.
func NewOrderService(venues VenueRepository, items MenuRepository, orders OrderRepository, notifications bool) *OrderService {
	return &OrderService{venues: venues, items: items, orders: orders, notifications: notifications}
}

// Create prices the cart from the venue's current menu and stores the order as pending.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if _, ok := firstViolation(in); !ok {
		return nil, ErrInvalidOrder
	}

	venue, err := s.venues.GetVenueBySlug(ctx, in.Slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	menu, err := s.items.ListMenuItems(ctx, venue.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.MenuItem, len(menu))
	for _, item := range menu {
		byID[item.ID] = item
	}

	lines := make([]domain.CartLine, 0, len(in.Cart))
	total := 0.0
	for _, requested := range in.Cart {
		item, ok := byID[requested.ItemID]
		if !ok || !item.IsAvailable {
			return nil, validation(fmt.Sprintf("Menu item %d is not available", requested.ItemID))
		}
		lines = append(lines, domain.CartLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: requested.Quantity,
		})
		total += item.Price * float64(requested.Quantity)
	}

	order := &domain.Order{
		VenueID:       venue.ID,
		VenueName:     venue.Name,
		Slug:          venue.Slug,
		Cart:          lines,
		TotalPrice:    math.Round(total*100) / 100,
		Status:        domain.OrderStatusPending,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CreatedAt:     time.Now().UTC(),
	}
	if order.CustomerName == "" {
		order.CustomerName = domain.DefaultCustomerName
	}
	if order.CustomerPhone == "" {
		order.CustomerPhone = domain.DefaultCustomerPhone
	}

	var event *domain.OrderEvent
	if s.notifications && venue.TelegramChatID != "" {
		event = &domain.OrderEvent{
			Type:          domain.OrderPlacedEvent,
			VenueID:       venue.ID,
			VenueName:     venue.Name,
			ChatID:        venue.TelegramChatID,
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
			Lines:         lines,
			TotalPrice:    order.TotalPrice,
			Timestamp:     order.CreatedAt,
		}
	}

	if err := s.orders.CreateOrder(ctx, order, event); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Status(ctx context.Context, id int64) (*OrderStatus, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &OrderStatus{
		ID:         order.ID,
		VenueName:  order.VenueName,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
	}, nil
}

// List returns every order to the operator and the orders of owned venues to a user.
func (s *OrderService) List(ctx context.Context, p Principal) ([]domain.Order, error) {
	switch {
	case p.Operator:
		return s.orders.ListOrders(ctx)
	case p.User != nil:
		return s.orders.ListOrdersByOwner(ctx, p.User.ID)
	default:
		return nil, ErrTokenRequired
	}
}

func (s *OrderService) ListVenue(ctx context.Context, p Principal, venueID int64) ([]domain.Order, error) {
	// The operator may read orders of venues that no longer exist.
	if !p.Operator {
		if _, err := loadManagedVenue(ctx, s.venues, p, venueID); err != nil {
			return nil, err
		}
	}
	return s.orders.ListVenueOrders(ctx, venueID)
}

var _ OrderServiceInterface = (*OrderService)(nil)
