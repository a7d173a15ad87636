package domain

import (
	"errors"
	"time"
)

const (
	OrderStatusPending = "pending"

	DefaultThemeColor    = "#8b5cf6"
	DefaultCategory      = "Other"
	DefaultCustomerName  = "Anonymous"
	DefaultCustomerPhone = "Not provided"

	OrderPlacedEvent = "order_placed"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the subset of User that is safe to return to clients.
type PublicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

type Venue struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"userId"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	TelegramChatID string     `json:"telegramChatId"`
	ThemeColor     string     `json:"themeColor"`
	Description    string     `json:"description"`
	MenuItems      []MenuItem `json:"menuItems"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// VenueUpdate carries a partial venue edit. Empty strings leave the stored value unchanged.
type VenueUpdate struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	TelegramChatID string `json:"telegramChatId"`
	ThemeColor     string `json:"themeColor"`
	Description    string `json:"description"`
}

type MenuItem struct {
	ID          int64     `json:"id"`
	VenueID     int64     `json:"venueId"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Category    string    `json:"category"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MenuItemUpdate is a shallow patch: only non-nil fields are applied.
type MenuItemUpdate struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Category    *string  `json:"category"`
	IsAvailable *bool    `json:"isAvailable"`
}

func (u MenuItemUpdate) Apply(item *MenuItem) {
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Price != nil {
		item.Price = *u.Price
	}
	if u.Description != nil {
		item.Description = *u.Description
	}
	if u.ImageURL != nil {
		item.ImageURL = *u.ImageURL
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
	if u.IsAvailable != nil {
		item.IsAvailable = *u.IsAvailable
	}
}

type CartLine struct {
	ItemID   int64   `json:"itemId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Order struct {
	ID            int64      `json:"id"`
	VenueID       int64      `json:"venueId"`
	VenueName     string     `json:"venueName"`
	Slug          string     `json:"slug"`
	Cart          []CartLine `json:"cart"`
	TotalPrice    float64    `json:"totalPrice"`
	Status        string     `json:"status"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// OrderEvent is published for every order whose venue has a Telegram chat configured.
type OrderEvent struct {
	Type          string     `json:"type"`
	OrderID       int64      `json:"order_id"`
	VenueID       int64      `json:"venue_id"`
	VenueName     string     `json:"venue_name"`
	ChatID        string     `json:"chat_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	Lines         []CartLine `json:"lines"`
	TotalPrice    float64    `json:"total_price"`
	Timestamp     time.Time  `json:"timestamp"`
}

type OutboxEntry struct {
	ID            int64      `json:"id"`
	OrderID       int64      `json:"orderId"`
	Event         OrderEvent `json:"event"`
	Attempts      int        `json:"attempts"`
	NextAttemptAt time.Time  `json:"nextAttemptAt"`
	SentAt        *time.Time `json:"sentAt,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
}
