package domain

import "time"

const OrderPlacedEvent = "order_placed"

type OrderLine struct {
	ItemID   int64   `json:"itemId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// OrderEvent is the message menu-svc publishes on the orders topic.
type OrderEvent struct {
	Type          string      `json:"type"`
	OrderID       int64       `json:"order_id"`
	VenueID       int64       `json:"venue_id"`
	VenueName     string      `json:"venue_name"`
	ChatID        string      `json:"chat_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	Lines         []OrderLine `json:"lines"`
	TotalPrice    float64     `json:"total_price"`
	Timestamp     time.Time   `json:"timestamp"`
}
