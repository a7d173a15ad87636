package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"noirqr/menu-svc/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return NewFileStore(filepath.Join(t.TempDir(), "db.json"), logger)
}

func TestFileStore_LoadCreatesEmptyDocument(t *testing.T) {
	store := newTestFileStore(t)

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
	assert.Empty(t, doc.Venues)
	assert.Empty(t, doc.Orders)

	_, err = os.Stat(store.path)
	assert.NoError(t, err)
}

func TestFileStore_MalformedFileIsAnError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	store := NewFileStore(path, logger)

	_, err := store.ListVenues(context.Background())
	assert.Error(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestFileStore_LegacyDocumentKeepsIDsUnique(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	legacy := `{"users":[{"id":1700000000000,"name":"A","email":"a@x"}],
		"venues":[{"id":1700000000001,"userId":1700000000000,"name":"Cafe","slug":"cafe",
		"menuItems":[{"id":1700000000002,"name":"Tea","price":50,"isAvailable":true}]}],
		"orders":[]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))
	logger, _ := test.NewNullLogger()
	store := NewFileStore(path, logger)
	ctx := context.Background()

	item, err := store.GetMenuItem(ctx, 1700000000002)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000001), item.VenueID)

	venue := &domain.Venue{UserID: 1700000000000, Name: "Bar", Slug: "bar"}
	require.NoError(t, store.CreateVenue(ctx, venue))
	assert.Greater(t, venue.ID, int64(1700000000002))
}

func TestFileStore_UserUniqueness(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	user := &domain.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "h"}
	require.NoError(t, store.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)

	err := store.CreateUser(ctx, &domain.User{Name: "Other", Email: "ann@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	found, err := store.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = store.GetUser(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileStore_VenueSlugPerOwner(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	first := &domain.Venue{UserID: 1, Name: "Cafe", Slug: "cafe"}
	require.NoError(t, store.CreateVenue(ctx, first))
	assert.ErrorIs(t, store.CreateVenue(ctx, &domain.Venue{UserID: 1, Name: "Again", Slug: "cafe"}), domain.ErrConflict)

	other := &domain.Venue{UserID: 2, Name: "Cafe Two", Slug: "cafe"}
	require.NoError(t, store.CreateVenue(ctx, other))

	bySlug, err := store.GetVenueBySlug(ctx, "cafe")
	require.NoError(t, err)
	assert.Equal(t, first.ID, bySlug.ID)

	second := &domain.Venue{UserID: 1, Name: "Bar", Slug: "bar"}
	require.NoError(t, store.CreateVenue(ctx, second))
	second.Slug = "cafe"
	assert.ErrorIs(t, store.UpdateVenue(ctx, second), domain.ErrConflict)

	owned, err := store.ListVenuesByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}

func TestFileStore_MenuItemsAndVenueDelete(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	venue := &domain.Venue{UserID: 1, Name: "Cafe", Slug: "cafe"}
	require.NoError(t, store.CreateVenue(ctx, venue))

	item := &domain.MenuItem{VenueID: venue.ID, Name: "Tea", Price: 50, Category: "Other", IsAvailable: true}
	require.NoError(t, store.CreateMenuItem(ctx, item))
	assert.ErrorIs(t, store.CreateMenuItem(ctx, &domain.MenuItem{VenueID: 12345}), domain.ErrNotFound)

	item.Price = 60
	require.NoError(t, store.UpdateMenuItem(ctx, item))
	got, err := store.GetMenuItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, got.Price)

	removed, err := store.DeleteMenuItem(ctx, venue.ID, 424242)
	require.NoError(t, err)
	assert.Zero(t, removed)

	order := &domain.Order{VenueID: venue.ID, VenueName: "Cafe", TotalPrice: 60, Status: domain.OrderStatusPending}
	require.NoError(t, store.CreateOrder(ctx, order, nil))

	rows, err := store.DeleteVenue(ctx, venue.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	_, err = store.ListMenuItems(ctx, venue.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	rows, err = store.DeleteVenue(ctx, venue.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestFileStore_OrdersAndOutbox(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	mine := &domain.Venue{UserID: 1, Name: "Cafe", Slug: "cafe"}
	theirs := &domain.Venue{UserID: 2, Name: "Bar", Slug: "bar"}
	require.NoError(t, store.CreateVenue(ctx, mine))
	require.NoError(t, store.CreateVenue(ctx, theirs))

	placed := time.Now().UTC().Add(-time.Minute)
	order := &domain.Order{VenueID: mine.ID, CreatedAt: placed}
	event := &domain.OrderEvent{Type: domain.OrderPlacedEvent, ChatID: "-100"}
	require.NoError(t, store.CreateOrder(ctx, order, event))
	require.NoError(t, store.CreateOrder(ctx, &domain.Order{VenueID: theirs.ID}, nil))
	assert.Equal(t, order.ID, event.OrderID)

	owned, err := store.ListOrdersByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, order.ID, owned[0].ID)

	venueOrders, err := store.ListVenueOrders(ctx, theirs.ID)
	require.NoError(t, err)
	assert.Len(t, venueOrders, 1)

	due, err := store.DueOutbox(ctx, time.Now(), 8, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, order.ID, due[0].OrderID)

	next := time.Now().Add(time.Hour)
	require.NoError(t, store.MarkOutboxFailed(ctx, due[0].ID, "timeout", next))
	due, err = store.DueOutbox(ctx, time.Now(), 8, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = store.DueOutbox(ctx, next, 8, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 1, due[0].Attempts)
	assert.Equal(t, "timeout", due[0].LastError)

	due, err = store.DueOutbox(ctx, next, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	require.NoError(t, store.MarkOutboxSent(ctx, due0ID(t, store, next), next))
	due, err = store.DueOutbox(ctx, next, 8, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	assert.ErrorIs(t, store.MarkOutboxSent(ctx, 999999, next), domain.ErrNotFound)
}

func due0ID(t *testing.T, store *FileStore, at time.Time) int64 {
	t.Helper()
	due, err := store.DueOutbox(context.Background(), at, 8, 1)
	require.NoError(t, err)
	require.Len(t, due, 1)
	return due[0].ID
}

func TestFileStore_ConcurrentCreatesAreNotLost(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.CreateOrder(ctx, &domain.Order{VenueID: 1}, nil))
		}()
	}
	wg.Wait()

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 20)

	seen := map[int64]bool{}
	for _, o := range orders {
		assert.False(t, seen[o.ID], "duplicate id %d", o.ID)
		seen[o.ID] = true
	}
}

func TestFileStore_ConcurrentSameSlugOnlyOneWins(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.CreateVenue(ctx, &domain.Venue{UserID: 1, Name: "Cafe", Slug: "cafe"}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
}
