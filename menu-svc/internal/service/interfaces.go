package service

import (
	"context"
	"time"

	"noirqr/menu-svc/internal/domain"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type VenueRepository interface {
	CreateVenue(ctx context.Context, venue *domain.Venue) error
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	ListVenuesByOwner(ctx context.Context, userID int64) ([]domain.Venue, error)
	GetVenue(ctx context.Context, id int64) (*domain.Venue, error)
	GetVenueBySlug(ctx context.Context, slug string) (*domain.Venue, error)
	UpdateVenue(ctx context.Context, venue *domain.Venue) error
	DeleteVenue(ctx context.Context, id int64) (int64, error)
}

type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	ListMenuItems(ctx context.Context, venueID int64) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, itemID int64) (*domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, venueID, itemID int64) (int64, error)
}

type OrderRepository interface {
	// CreateOrder assigns the order id and, when event is non-nil, stores an outbox
	// entry for it in the same unit of work.
	CreateOrder(ctx context.Context, order *domain.Order, event *domain.OrderEvent) error
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListVenueOrders(ctx context.Context, venueID int64) ([]domain.Order, error)
	ListOrdersByOwner(ctx context.Context, userID int64) ([]domain.Order, error)
}

type OutboxRepository interface {
	// DueOutbox returns unsent entries whose next attempt is at or before now and that
	// have been tried fewer than maxAttempts times, oldest first. Backends shared between
	// processes claim the returned entries so no other relay sees them meanwhile.
	DueOutbox(ctx context.Context, now time.Time, maxAttempts, limit int) ([]domain.OutboxEntry, error)
	MarkOutboxSent(ctx context.Context, id int64, at time.Time) error
	// MarkOutboxFailed counts one more failed attempt and schedules the next one.
	MarkOutboxFailed(ctx context.Context, id int64, lastErr string, nextAttempt time.Time) error
}

// Store is everything a persistence backend has to provide.
type Store interface {
	UserRepository
	VenueRepository
	MenuRepository
	OrderRepository
	OutboxRepository
}

type MenuCache interface {
	GetMenu(ctx context.Context, slug string) ([]domain.MenuItem, bool, error)
	SetMenu(ctx context.Context, slug string, items []domain.MenuItem) error
	Invalidate(ctx context.Context, slugs ...string) error
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, event domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(content string) ([]byte, error)
}

type ImageStore interface {
	Put(name string, data []byte) error
}
