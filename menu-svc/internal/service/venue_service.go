package service

import (
	"context"
	"errors"

	"noirqr/menu-svc/internal/domain"

	"github.com/sirupsen/logrus"
)

type CreateVenueInput struct {
	Name           string `json:"name" validate:"required"`
	Slug           string `json:"slug" validate:"required"`
	TelegramChatID string `json:"telegramChatId"`
	ThemeColor     string `json:"themeColor"`
	Description    string `json:"description"`
}

type VenueServiceInterface interface {
	ListOwned(ctx context.Context, p Principal) ([]domain.Venue, error)
	ListAll(ctx context.Context) ([]domain.Venue, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Venue, error)
	Create(ctx context.Context, p Principal, in CreateVenueInput) (*domain.Venue, error)
	Update(ctx context.Context, p Principal, id int64, upd domain.VenueUpdate) (*domain.Venue, error)
	Delete(ctx context.Context, p Principal, id int64) error
}

type VenueService struct {
	repo  VenueRepository
	cache MenuCache
	log   logrus.FieldLogger
}

func NewVenueService(repo VenueRepository, cache MenuCache, log logrus.FieldLogger) *VenueService {
	return &VenueService{repo: repo, cache: cache, log: log}
}

func (s *VenueService) ListOwned(ctx context.Context, p Principal) ([]domain.Venue, error) {
	switch {
	case p.Operator:
		return s.repo.ListVenues(ctx)
	case p.User != nil:
		return s.repo.ListVenuesByOwner(ctx, p.User.ID)
	default:
		return nil, ErrTokenRequired
	}
}

func (s *VenueService) ListAll(ctx context.Context) ([]domain.Venue, error) {
	return s.repo.ListVenues(ctx)
}

func (s *VenueService) GetBySlug(ctx context.Context, slug string) (*domain.Venue, error) {
	venue, err := s.repo.GetVenueBySlug(ctx, slug)
	if err != nil {
		return nil, mapVenueErr(err)
	}
	return venue, nil
}

func (s *VenueService) Create(ctx context.Context, p Principal, in CreateVenueInput) (*domain.Venue, error) {
	if p.User == nil {
		return nil, ErrUserRequired
	}
	if _, ok := firstViolation(in); !ok {
		return nil, ErrVenueFieldsMissing
	}

	venue := &domain.Venue{
		UserID:         p.User.ID,
		Name:           in.Name,
		Slug:           in.Slug,
		TelegramChatID: in.TelegramChatID,
		ThemeColor:     in.ThemeColor,
		Description:    in.Description,
		MenuItems:      []domain.MenuItem{},
	}
	if venue.ThemeColor == "" {
		venue.ThemeColor = domain.DefaultThemeColor
	}

	if err := s.repo.CreateVenue(ctx, venue); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return venue, nil
}

// Update overwrites only the non-empty fields of upd.
func (s *VenueService) Update(ctx context.Context, p Principal, id int64, upd domain.VenueUpdate) (*domain.Venue, error) {
	venue, err := s.managedVenue(ctx, p, id)
	if err != nil {
		return nil, err
	}
	oldSlug := venue.Slug

	if upd.Name != "" {
		venue.Name = upd.Name
	}
	if upd.Slug != "" {
		venue.Slug = upd.Slug
	}
	if upd.TelegramChatID != "" {
		venue.TelegramChatID = upd.TelegramChatID
	}
	if upd.ThemeColor != "" {
		venue.ThemeColor = upd.ThemeColor
	}
	if upd.Description != "" {
		venue.Description = upd.Description
	}

	if err := s.repo.UpdateVenue(ctx, venue); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrSlugTaken
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	invalidateMenu(ctx, s.cache, s.log, oldSlug, venue.Slug)
	return venue, nil
}

// Delete removes the venue and its menu. Orders placed against it are kept.
func (s *VenueService) Delete(ctx context.Context, p Principal, id int64) error {
	venue, err := s.managedVenue(ctx, p, id)
	if err != nil {
		return err
	}

	rows, err := s.repo.DeleteVenue(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrVenueNotFound
	}

	invalidateMenu(ctx, s.cache, s.log, venue.Slug)
	return nil
}

func (s *VenueService) managedVenue(ctx context.Context, p Principal, id int64) (*domain.Venue, error) {
	return loadManagedVenue(ctx, s.repo, p, id)
}

func loadManagedVenue(ctx context.Context, repo VenueRepository, p Principal, id int64) (*domain.Venue, error) {
	venue, err := repo.GetVenue(ctx, id)
	if err != nil {
		return nil, mapVenueErr(err)
	}
	if !p.CanManage(venue) {
		return nil, ErrNotOwner
	}
	return venue, nil
}

func mapVenueErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrVenueNotFound
	}
	return err
}

func invalidateMenu(ctx context.Context, cache MenuCache, log logrus.FieldLogger, slugs ...string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, slugs...); err != nil {
		log.WithError(err).WithField("slugs", slugs).Warn("menu cache invalidation failed")
	}
}

var _ VenueServiceInterface = (*VenueService)(nil)
