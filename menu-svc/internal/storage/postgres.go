package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"noirqr/menu-svc/internal/domain"
	"noirqr/menu-svc/internal/service"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// translate maps driver errors onto the domain errors the services understand.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Constraint)
	}
	return err
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS venues (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			telegram_chat_id TEXT NOT NULL DEFAULT '',
			theme_color TEXT NOT NULL DEFAULT '#8b5cf6',
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, slug)
		)`,
		"CREATE INDEX IF NOT EXISTS venues_slug_idx ON venues (slug)",
		`CREATE TABLE IF NOT EXISTS menu_items (
			id BIGSERIAL PRIMARY KEY,
			venue_id BIGINT NOT NULL REFERENCES venues(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT 'Other',
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			venue_id BIGINT NOT NULL,
			venue_name TEXT NOT NULL,
			slug TEXT NOT NULL,
			total_price NUMERIC(12, 2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			customer_name TEXT NOT NULL,
			customer_phone TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		"CREATE INDEX IF NOT EXISTS orders_venue_idx ON orders (venue_id)",
		`CREATE TABLE IF NOT EXISTS order_lines (
			order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position INT NOT NULL,
			item_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			price NUMERIC(12, 2) NOT NULL,
			quantity INT NOT NULL CHECK (quantity > 0),
			PRIMARY KEY (order_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS notification_outbox (
			id BIGSERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES orders(id),
			payload JSONB NOT NULL,
			attempts INT NOT NULL DEFAULT 0,
			next_attempt_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			sent_at TIMESTAMPTZ,
			last_error TEXT NOT NULL DEFAULT ''
		)`,
		"CREATE INDEX IF NOT EXISTS outbox_due_idx ON notification_outbox (next_attempt_at) WHERE sent_at IS NULL",
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at",
		user.Name, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	return translate(err)
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1", id))
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1", email))
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

const venueColumns = "id, user_id, name, slug, telegram_chat_id, theme_color, description, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanVenue(s scanner) (domain.Venue, error) {
	var v domain.Venue
	err := s.Scan(&v.ID, &v.UserID, &v.Name, &v.Slug, &v.TelegramChatID, &v.ThemeColor, &v.Description, &v.CreatedAt)
	return v, err
}

func (r *PostgresRepository) CreateVenue(ctx context.Context, venue *domain.Venue) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO venues (user_id, name, slug, telegram_chat_id, theme_color, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		venue.UserID, venue.Name, venue.Slug, venue.TelegramChatID, venue.ThemeColor, venue.Description,
	).Scan(&venue.ID, &venue.CreatedAt)
	if err != nil {
		return translate(err)
	}
	if venue.MenuItems == nil {
		venue.MenuItems = []domain.MenuItem{}
	}
	return nil
}

func (r *PostgresRepository) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	return r.queryVenues(ctx, "SELECT "+venueColumns+" FROM venues ORDER BY id")
}

func (r *PostgresRepository) ListVenuesByOwner(ctx context.Context, userID int64) ([]domain.Venue, error) {
	return r.queryVenues(ctx, "SELECT "+venueColumns+" FROM venues WHERE user_id = $1 ORDER BY id", userID)
}

func (r *PostgresRepository) queryVenues(ctx context.Context, query string, args ...any) ([]domain.Venue, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	venues := []domain.Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachMenus(ctx, venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// attachMenus loads the menu items of every venue in one query.
func (r *PostgresRepository) attachMenus(ctx context.Context, venues []domain.Venue) error {
	if len(venues) == 0 {
		return nil
	}
	ids := make([]int64, len(venues))
	index := make(map[int64]int, len(venues))
	for i := range venues {
		ids[i] = venues[i].ID
		index[venues[i].ID] = i
		venues[i].MenuItems = []domain.MenuItem{}
	}

	items, err := r.queryMenuItems(ctx, "SELECT "+menuItemColumns+" FROM menu_items WHERE venue_id = ANY($1) ORDER BY id", pq.Array(ids))
	if err != nil {
		return err
	}
	for _, item := range items {
		i := index[item.VenueID]
		venues[i].MenuItems = append(venues[i].MenuItems, item)
	}
	return nil
}

func (r *PostgresRepository) GetVenue(ctx context.Context, id int64) (*domain.Venue, error) {
	return r.getVenue(ctx, "SELECT "+venueColumns+" FROM venues WHERE id = $1", id)
}

// GetVenueBySlug returns the oldest venue with the slug when several owners share it.
func (r *PostgresRepository) GetVenueBySlug(ctx context.Context, slug string) (*domain.Venue, error) {
	return r.getVenue(ctx, "SELECT "+venueColumns+" FROM venues WHERE slug = $1 ORDER BY id LIMIT 1", slug)
}

func (r *PostgresRepository) getVenue(ctx context.Context, query string, arg any) (*domain.Venue, error) {
	v, err := scanVenue(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, translate(err)
	}
	venues := []domain.Venue{v}
	if err := r.attachMenus(ctx, venues); err != nil {
		return nil, err
	}
	return &venues[0], nil
}

func (r *PostgresRepository) UpdateVenue(ctx context.Context, venue *domain.Venue) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE venues
		SET name=$1, slug=$2, telegram_chat_id=$3, theme_color=$4, description=$5
		WHERE id=$6`,
		venue.Name, venue.Slug, venue.TelegramChatID, venue.ThemeColor, venue.Description, venue.ID)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteVenue(ctx context.Context, id int64) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM venues WHERE id=$1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const menuItemColumns = "id, venue_id, name, price, description, image_url, category, is_available, created_at"

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (venue_id, name, price, description, image_url, category, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		item.VenueID, item.Name, item.Price, item.Description, item.ImageURL, item.Category, item.IsAvailable,
	).Scan(&item.ID, &item.CreatedAt)
	return translate(err)
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, venueID int64) ([]domain.MenuItem, error) {
	return r.queryMenuItems(ctx, "SELECT "+menuItemColumns+" FROM menu_items WHERE venue_id = $1 ORDER BY id", venueID)
}

func (r *PostgresRepository) queryMenuItems(ctx context.Context, query string, args ...any) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.VenueID, &item.Name, &item.Price, &item.Description,
			&item.ImageURL, &item.Category, &item.IsAvailable, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, itemID int64) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.DB.QueryRowContext(ctx, "SELECT "+menuItemColumns+" FROM menu_items WHERE id = $1", itemID).
		Scan(&item.ID, &item.VenueID, &item.Name, &item.Price, &item.Description,
			&item.ImageURL, &item.Category, &item.IsAvailable, &item.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE menu_items
		SET name=$1, price=$2, description=$3, image_url=$4, category=$5, is_available=$6
		WHERE id=$7 AND venue_id=$8`,
		item.Name, item.Price, item.Description, item.ImageURL, item.Category, item.IsAvailable, item.ID, item.VenueID)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, venueID, itemID int64) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM menu_items WHERE id=$1 AND venue_id=$2", itemID, venueID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

var _ service.Store = (*PostgresRepository)(nil)
