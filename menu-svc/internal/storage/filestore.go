package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"noirqr/menu-svc/internal/domain"
	"noirqr/menu-svc/internal/service"

	"github.com/sirupsen/logrus"
)

// Document is the whole datastore as it is laid out on disk.
type Document struct {
	Users  []domain.User        `json:"users"`
	Venues []domain.Venue       `json:"venues"`
	Orders []domain.Order       `json:"orders"`
	Outbox []domain.OutboxEntry `json:"outbox"`
	NextID int64                `json:"nextId"`
}

func emptyDocument() *Document {
	return &Document{
		Users:  []domain.User{},
		Venues: []domain.Venue{},
		Orders: []domain.Order{},
		Outbox: []domain.OutboxEntry{},
	}
}

// FileStore keeps every record in a single JSON document. All access goes through
// one mutex, so a read-modify-write never interleaves with another inside the process.
type FileStore struct {
	path string
	mu   sync.Mutex
	log  logrus.FieldLogger
}

func NewFileStore(path string, log logrus.FieldLogger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load reads the document, creating the file with empty collections if it is missing.
func (s *FileStore) Load() (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save replaces the document on disk.
func (s *FileStore) Save(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

func (s *FileStore) load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		doc := emptyDocument()
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	doc := emptyDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		s.log.WithError(err).WithField("path", s.path).Error("datastore file is malformed")
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	doc.normalize()
	return doc, nil
}

func (s *FileStore) save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) view(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

func (s *FileStore) update(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

// normalize fills collections missing from older files and moves the id counter past
// every id already in use.
func (d *Document) normalize() {
	if d.Users == nil {
		d.Users = []domain.User{}
	}
	if d.Venues == nil {
		d.Venues = []domain.Venue{}
	}
	if d.Orders == nil {
		d.Orders = []domain.Order{}
	}
	if d.Outbox == nil {
		d.Outbox = []domain.OutboxEntry{}
	}

	bump := func(id int64) {
		if id > d.NextID {
			d.NextID = id
		}
	}
	for _, u := range d.Users {
		bump(u.ID)
	}
	for i := range d.Venues {
		bump(d.Venues[i].ID)
		if d.Venues[i].MenuItems == nil {
			d.Venues[i].MenuItems = []domain.MenuItem{}
		}
		for j := range d.Venues[i].MenuItems {
			d.Venues[i].MenuItems[j].VenueID = d.Venues[i].ID
			bump(d.Venues[i].MenuItems[j].ID)
		}
	}
	for _, o := range d.Orders {
		bump(o.ID)
	}
	for _, e := range d.Outbox {
		bump(e.ID)
	}
}

func (d *Document) nextID() int64 {
	d.NextID++
	return d.NextID
}

func (d *Document) venueIndex(id int64) int {
	for i := range d.Venues {
		if d.Venues[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *FileStore) CreateUser(ctx context.Context, user *domain.User) error {
	return s.update(func(doc *Document) error {
		for _, u := range doc.Users {
			if u.Email == user.Email {
				return domain.ErrConflict
			}
		}
		user.ID = doc.nextID()
		user.CreatedAt = time.Now().UTC()
		doc.Users = append(doc.Users, *user)
		return nil
	})
}

func (s *FileStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.ID == id })
}

func (s *FileStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.Email == email })
}

func (s *FileStore) findUser(match func(domain.User) bool) (*domain.User, error) {
	var found *domain.User
	err := s.view(func(doc *Document) error {
		for _, u := range doc.Users {
			if match(u) {
				found = &u
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return found, err
}

func (s *FileStore) CreateVenue(ctx context.Context, venue *domain.Venue) error {
	return s.update(func(doc *Document) error {
		for _, v := range doc.Venues {
			if v.UserID == venue.UserID && v.Slug == venue.Slug {
				return domain.ErrConflict
			}
		}
		venue.ID = doc.nextID()
		venue.CreatedAt = time.Now().UTC()
		if venue.MenuItems == nil {
			venue.MenuItems = []domain.MenuItem{}
		}
		doc.Venues = append(doc.Venues, *venue)
		return nil
	})
}

func (s *FileStore) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	return s.filterVenues(func(domain.Venue) bool { return true })
}

func (s *FileStore) ListVenuesByOwner(ctx context.Context, userID int64) ([]domain.Venue, error) {
	return s.filterVenues(func(v domain.Venue) bool { return v.UserID == userID })
}

func (s *FileStore) filterVenues(match func(domain.Venue) bool) ([]domain.Venue, error) {
	venues := []domain.Venue{}
	err := s.view(func(doc *Document) error {
		for _, v := range doc.Venues {
			if match(v) {
				venues = append(venues, v)
			}
		}
		return nil
	})
	return venues, err
}

func (s *FileStore) GetVenue(ctx context.Context, id int64) (*domain.Venue, error) {
	return s.findVenue(func(v domain.Venue) bool { return v.ID == id })
}

// GetVenueBySlug returns the first venue with the slug, which is the oldest one.
func (s *FileStore) GetVenueBySlug(ctx context.Context, slug string) (*domain.Venue, error) {
	return s.findVenue(func(v domain.Venue) bool { return v.Slug == slug })
}

func (s *FileStore) findVenue(match func(domain.Venue) bool) (*domain.Venue, error) {
	var found *domain.Venue
	err := s.view(func(doc *Document) error {
		for _, v := range doc.Venues {
			if match(v) {
				found = &v
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return found, err
}

func (s *FileStore) UpdateVenue(ctx context.Context, venue *domain.Venue) error {
	return s.update(func(doc *Document) error {
		i := doc.venueIndex(venue.ID)
		if i < 0 {
			return domain.ErrNotFound
		}
		for _, v := range doc.Venues {
			if v.ID != venue.ID && v.UserID == doc.Venues[i].UserID && v.Slug == venue.Slug {
				return domain.ErrConflict
			}
		}

		stored := &doc.Venues[i]
		stored.Name = venue.Name
		stored.Slug = venue.Slug
		stored.TelegramChatID = venue.TelegramChatID
		stored.ThemeColor = venue.ThemeColor
		stored.Description = venue.Description
		*venue = *stored
		return nil
	})
}

func (s *FileStore) DeleteVenue(ctx context.Context, id int64) (int64, error) {
	var removed int64
	err := s.update(func(doc *Document) error {
		i := doc.venueIndex(id)
		if i < 0 {
			return nil
		}
		doc.Venues = append(doc.Venues[:i], doc.Venues[i+1:]...)
		removed = 1
		return nil
	})
	return removed, err
}

func (s *FileStore) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return s.update(func(doc *Document) error {
		i := doc.venueIndex(item.VenueID)
		if i < 0 {
			return domain.ErrNotFound
		}
		item.ID = doc.nextID()
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		doc.Venues[i].MenuItems = append(doc.Venues[i].MenuItems, *item)
		return nil
	})
}

func (s *FileStore) ListMenuItems(ctx context.Context, venueID int64) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	err := s.view(func(doc *Document) error {
		i := doc.venueIndex(venueID)
		if i < 0 {
			return domain.ErrNotFound
		}
		items = append([]domain.MenuItem{}, doc.Venues[i].MenuItems...)
		return nil
	})
	return items, err
}

func (s *FileStore) GetMenuItem(ctx context.Context, itemID int64) (*domain.MenuItem, error) {
	var found *domain.MenuItem
	err := s.view(func(doc *Document) error {
		for _, v := range doc.Venues {
			for _, item := range v.MenuItems {
				if item.ID == itemID {
					found = &item
					return nil
				}
			}
		}
		return domain.ErrNotFound
	})
	return found, err
}

func (s *FileStore) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return s.update(func(doc *Document) error {
		i := doc.venueIndex(item.VenueID)
		if i < 0 {
			return domain.ErrNotFound
		}
		for j := range doc.Venues[i].MenuItems {
			if doc.Venues[i].MenuItems[j].ID == item.ID {
				doc.Venues[i].MenuItems[j] = *item
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (s *FileStore) DeleteMenuItem(ctx context.Context, venueID, itemID int64) (int64, error) {
	var removed int64
	err := s.update(func(doc *Document) error {
		i := doc.venueIndex(venueID)
		if i < 0 {
			return domain.ErrNotFound
		}
		kept := doc.Venues[i].MenuItems[:0]
		for _, item := range doc.Venues[i].MenuItems {
			if item.ID == itemID {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		doc.Venues[i].MenuItems = kept
		return nil
	})
	return removed, err
}

func (s *FileStore) CreateOrder(ctx context.Context, order *domain.Order, event *domain.OrderEvent) error {
	return s.update(func(doc *Document) error {
		order.ID = doc.nextID()
		if order.CreatedAt.IsZero() {
			order.CreatedAt = time.Now().UTC()
		}
		doc.Orders = append(doc.Orders, *order)

		if event != nil {
			event.OrderID = order.ID
			doc.Outbox = append(doc.Outbox, domain.OutboxEntry{
				ID:            doc.nextID(),
				OrderID:       order.ID,
				Event:         *event,
				NextAttemptAt: order.CreatedAt,
			})
		}
		return nil
	})
}

func (s *FileStore) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var found *domain.Order
	err := s.view(func(doc *Document) error {
		for _, o := range doc.Orders {
			if o.ID == id {
				found = &o
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return found, err
}

func (s *FileStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.filterOrders(func(*Document, domain.Order) bool { return true })
}

func (s *FileStore) ListVenueOrders(ctx context.Context, venueID int64) ([]domain.Order, error) {
	return s.filterOrders(func(_ *Document, o domain.Order) bool { return o.VenueID == venueID })
}

func (s *FileStore) ListOrdersByOwner(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.filterOrders(func(doc *Document, o domain.Order) bool {
		i := doc.venueIndex(o.VenueID)
		return i >= 0 && doc.Venues[i].UserID == userID
	})
}

// filterOrders returns matching orders newest first.
func (s *FileStore) filterOrders(match func(*Document, domain.Order) bool) ([]domain.Order, error) {
	orders := []domain.Order{}
	err := s.view(func(doc *Document) error {
		for _, o := range doc.Orders {
			if match(doc, o) {
				orders = append(orders, o)
			}
		}
		return nil
	})
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, err
}

func (s *FileStore) DueOutbox(ctx context.Context, now time.Time, maxAttempts, limit int) ([]domain.OutboxEntry, error) {
	var due []domain.OutboxEntry
	err := s.view(func(doc *Document) error {
		for _, e := range doc.Outbox {
			if len(due) >= limit {
				break
			}
			if e.SentAt == nil && e.Attempts < maxAttempts && !e.NextAttemptAt.After(now) {
				due = append(due, e)
			}
		}
		return nil
	})
	return due, err
}

func (s *FileStore) MarkOutboxSent(ctx context.Context, id int64, at time.Time) error {
	return s.updateOutbox(id, func(e *domain.OutboxEntry) {
		e.SentAt = &at
		e.LastError = ""
	})
}

func (s *FileStore) MarkOutboxFailed(ctx context.Context, id int64, lastErr string, nextAttempt time.Time) error {
	return s.updateOutbox(id, func(e *domain.OutboxEntry) {
		e.Attempts++
		e.LastError = lastErr
		e.NextAttemptAt = nextAttempt
	})
}

func (s *FileStore) updateOutbox(id int64, fn func(*domain.OutboxEntry)) error {
	return s.update(func(doc *Document) error {
		for i := range doc.Outbox {
			if doc.Outbox[i].ID == id {
				fn(&doc.Outbox[i])
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

var _ service.Store = (*FileStore)(nil)
