package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"noirqr/menu-svc/internal/domain"

	"github.com/lib/pq"
)

// OutboxLease is how long a claimed outbox entry stays invisible to other relays.
// An entry whose relay dies before marking it becomes due again after the lease.
const OutboxLease = time.Minute

const orderColumns = "o.id, o.venue_id, o.venue_name, o.slug, o.total_price, o.status, o.customer_name, o.customer_phone, o.created_at"

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order, event *domain.OrderEvent) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (venue_id, venue_name, slug, total_price, status, customer_name, customer_phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		order.VenueID, order.VenueName, order.Slug, order.TotalPrice, order.Status,
		order.CustomerName, order.CustomerPhone, order.CreatedAt,
	).Scan(&order.ID); err != nil {
		return err
	}

	for i, line := range order.Cart {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, position, item_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, i, line.ItemID, line.Name, line.Price, line.Quantity); err != nil {
			return err
		}
	}

	if event != nil {
		event.OrderID = order.ID
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode order event: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO notification_outbox (order_id, payload, next_attempt_at) VALUES ($1, $2, $3)",
			order.ID, payload, order.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	orders, err := r.queryOrders(ctx, "SELECT "+orderColumns+" FROM orders o WHERE o.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.ErrNotFound
	}
	return &orders[0], nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, "SELECT "+orderColumns+" FROM orders o ORDER BY o.created_at DESC, o.id DESC")
}

func (r *PostgresRepository) ListVenueOrders(ctx context.Context, venueID int64) ([]domain.Order, error) {
	return r.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders o WHERE o.venue_id = $1 ORDER BY o.created_at DESC, o.id DESC", venueID)
}

func (r *PostgresRepository) ListOrdersByOwner(ctx context.Context, userID int64) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN venues v ON v.id = o.venue_id
		WHERE v.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC`, userID)
}

func (r *PostgresRepository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.VenueID, &o.VenueName, &o.Slug, &o.TotalPrice, &o.Status,
			&o.CustomerName, &o.CustomerPhone, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Cart = []domain.CartLine{}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) attachLines(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT order_id, item_id, name, price, quantity
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY order_id, position`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int64
		var line domain.CartLine
		if err := rows.Scan(&orderID, &line.ItemID, &line.Name, &line.Price, &line.Quantity); err != nil {
			return err
		}
		i := index[orderID]
		orders[i].Cart = append(orders[i].Cart, line)
	}
	return rows.Err()
}

// DueOutbox claims due entries by pushing their next attempt past the lease.
// SKIP LOCKED lets several menu-svc replicas relay without sending twice.
func (r *PostgresRepository) DueOutbox(ctx context.Context, now time.Time, maxAttempts, limit int) ([]domain.OutboxEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE notification_outbox o
		SET next_attempt_at = $4
		FROM (
			SELECT id FROM notification_outbox
			WHERE sent_at IS NULL AND attempts < $1 AND next_attempt_at <= $2
			ORDER BY id
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		) due
		WHERE o.id = due.id
		RETURNING o.id, o.order_id, o.payload, o.attempts, o.next_attempt_at, o.last_error`,
		maxAttempts, now, limit, now.Add(OutboxLease))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.OutboxEntry
	for rows.Next() {
		var e domain.OutboxEntry
		var payload []byte
		if err := rows.Scan(&e.ID, &e.OrderID, &payload, &e.Attempts, &e.NextAttemptAt, &e.LastError); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &e.Event); err != nil {
			return nil, fmt.Errorf("decode outbox entry %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// RETURNING does not keep the subquery order.
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (r *PostgresRepository) MarkOutboxSent(ctx context.Context, id int64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE notification_outbox SET sent_at = $1, last_error = '' WHERE id = $2", at, id)
	return err
}

func (r *PostgresRepository) MarkOutboxFailed(ctx context.Context, id int64, lastErr string, nextAttempt time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE notification_outbox
		SET attempts = attempts + 1, last_error = $1, next_attempt_at = $2
		WHERE id = $3`, lastErr, nextAttempt, id)
	return err
}
