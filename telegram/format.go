package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"
)

type Line struct {
	Name     string
	Quantity int
	Price    float64
}

// Order is everything an order notification shows.
type Order struct {
	ID            int64
	VenueName     string
	CustomerName  string
	CustomerPhone string
	Lines         []Line
	Total         float64
	PlacedAt      time.Time
}

// FormatOrder renders o as a Telegram HTML message.
func FormatOrder(o Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍕 <b>New Order - %s</b>\n\n", html.EscapeString(o.VenueName))
	fmt.Fprintf(&b, "<b>Customer:</b> %s\n", html.EscapeString(o.CustomerName))
	fmt.Fprintf(&b, "<b>Phone:</b> %s\n\n", html.EscapeString(o.CustomerPhone))
	b.WriteString("<b>Items:</b>\n")
	for _, line := range o.Lines {
		fmt.Fprintf(&b, "%s x%d - $%.2f\n", html.EscapeString(line.Name), line.Quantity, line.Price*float64(line.Quantity))
	}
	fmt.Fprintf(&b, "\n<b>Total:</b> $%.2f\n\n", o.Total)
	fmt.Fprintf(&b, "<b>Order ID:</b> %d\n", o.ID)
	fmt.Fprintf(&b, "<i>%s</i>", o.PlacedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	return b.String()
}
