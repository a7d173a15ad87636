package service

import (
	"context"
	"errors"
	"time"

	"noirqr/menu-svc/internal/domain"

	"github.com/sirupsen/logrus"
)

type CreateMenuItemInput struct {
	Name        string   `json:"name" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Category    string   `json:"category"`
}

var errNegativePrice = validation("Price must be a non-negative number")

type MenuServiceInterface interface {
	List(ctx context.Context, slug string) ([]domain.MenuItem, error)
	Create(ctx context.Context, p Principal, venueID int64, in CreateMenuItemInput) (*domain.MenuItem, error)
	Update(ctx context.Context, p Principal, itemID int64, upd domain.MenuItemUpdate) (*domain.MenuItem, error)
	Delete(ctx context.Context, p Principal, venueID, itemID int64) error
}

type MenuService struct {
	venues VenueRepository
	items  MenuRepository
	cache  MenuCache
	log    logrus.FieldLogger
}

func NewMenuService(venues VenueRepository, items MenuRepository, cache MenuCache, log logrus.FieldLogger) *MenuService {
	return &MenuService{venues: venues, items: items, cache: cache, log: log}
}

func (s *MenuService) List(ctx context.Context, slug string) ([]domain.MenuItem, error) {
	if s.cache != nil {
		items, ok, err := s.cache.GetMenu(ctx, slug)
		if err != nil {
			s.log.WithError(err).WithField("slug", slug).Warn("menu cache read failed")
		} else if ok {
			return items, nil
		}
	}

	venue, err := s.venues.GetVenueBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	items, err := s.items.ListMenuItems(ctx, venue.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.MenuItem{}
	}

	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, slug, items); err != nil {
			s.log.WithError(err).WithField("slug", slug).Warn("menu cache write failed")
		}
	}
	return items, nil
}

func (s *MenuService) Create(ctx context.Context, p Principal, venueID int64, in CreateMenuItemInput) (*domain.MenuItem, error) {
	if _, ok := firstViolation(in); !ok {
		return nil, ErrMissingFields
	}
	if *in.Price < 0 {
		return nil, errNegativePrice
	}

	venue, err := loadManagedVenue(ctx, s.venues, p, venueID)
	if err != nil {
		return nil, err
	}

	item := &domain.MenuItem{
		VenueID:     venue.ID,
		Name:        in.Name,
		Price:       *in.Price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		IsAvailable: true,
		CreatedAt:   time.Now().UTC(),
	}
	if item.Category == "" {
		item.Category = domain.DefaultCategory
	}

	if err := s.items.CreateMenuItem(ctx, item); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	invalidateMenu(ctx, s.cache, s.log, venue.Slug)
	return item, nil
}

// Update finds the item by id across every venue, checks that the caller manages
// the venue it belongs to, and applies the non-nil fields of upd.
func (s *MenuService) Update(ctx context.Context, p Principal, itemID int64, upd domain.MenuItemUpdate) (*domain.MenuItem, error) {
	if upd.Name != nil && *upd.Name == "" {
		return nil, ErrMissingFields
	}
	if upd.Price != nil && *upd.Price < 0 {
		return nil, errNegativePrice
	}

	item, err := s.items.GetMenuItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	venue, err := loadManagedVenue(ctx, s.venues, p, item.VenueID)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	upd.Apply(item)
	if err := s.items.UpdateMenuItem(ctx, item); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	invalidateMenu(ctx, s.cache, s.log, venue.Slug)
	return item, nil
}

// Delete removes the item from the venue. Deleting an item that is not there is not an error.
func (s *MenuService) Delete(ctx context.Context, p Principal, venueID, itemID int64) error {
	venue, err := loadManagedVenue(ctx, s.venues, p, venueID)
	if err != nil {
		return err
	}

	if _, err := s.items.DeleteMenuItem(ctx, venue.ID, itemID); err != nil {
		return err
	}

	invalidateMenu(ctx, s.cache, s.log, venue.Slug)
	return nil
}

var _ MenuServiceInterface = (*MenuService)(nil)
