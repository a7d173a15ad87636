package mocks

import (
	"context"
	"time"

	"noirqr/menu-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func NewUserRepository(t mock.TestingT) *UserRepository {
	m := &UserRepository{}
	register(t, &m.Mock)
	return m
}

func (_m *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return _m.Called(ctx, user).Error(0)
}

func (_m *UserRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	ret := _m.Called(ctx, id)
	return userOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ret := _m.Called(ctx, email)
	return userOrNil(ret.Get(0)), ret.Error(1)
}

func userOrNil(v any) *domain.User {
	if v == nil {
		return nil
	}
	return v.(*domain.User)
}

type VenueRepository struct {
	mock.Mock
}

func NewVenueRepository(t mock.TestingT) *VenueRepository {
	m := &VenueRepository{}
	register(t, &m.Mock)
	return m
}

func (_m *VenueRepository) CreateVenue(ctx context.Context, venue *domain.Venue) error {
	return _m.Called(ctx, venue).Error(0)
}

func (_m *VenueRepository) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	ret := _m.Called(ctx)
	return venuesOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *VenueRepository) ListVenuesByOwner(ctx context.Context, userID int64) ([]domain.Venue, error) {
	ret := _m.Called(ctx, userID)
	return venuesOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *VenueRepository) GetVenue(ctx context.Context, id int64) (*domain.Venue, error) {
	ret := _m.Called(ctx, id)
	return venueOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *VenueRepository) GetVenueBySlug(ctx context.Context, slug string) (*domain.Venue, error) {
	ret := _m.Called(ctx, slug)
	return venueOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *VenueRepository) UpdateVenue(ctx context.Context, venue *domain.Venue) error {
	return _m.Called(ctx, venue).Error(0)
}

func (_m *VenueRepository) DeleteVenue(ctx context.Context, id int64) (int64, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(int64), ret.Error(1)
}

func venueOrNil(v any) *domain.Venue {
	if v == nil {
		return nil
	}
	return v.(*domain.Venue)
}

func venuesOrNil(v any) []domain.Venue {
	if v == nil {
		return nil
	}
	return v.([]domain.Venue)
}

type MenuRepository struct {
	mock.Mock
}

func NewMenuRepository(t mock.TestingT) *MenuRepository {
	m := &MenuRepository{}
	register(t, &m.Mock)
	return m
}

func (_m *MenuRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return _m.Called(ctx, item).Error(0)
}

func (_m *MenuRepository) ListMenuItems(ctx context.Context, venueID int64) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx, venueID)
	return itemsOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *MenuRepository) GetMenuItem(ctx context.Context, itemID int64) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, itemID)
	var item *domain.MenuItem
	if v := ret.Get(0); v != nil {
		item = v.(*domain.MenuItem)
	}
	return item, ret.Error(1)
}

func (_m *MenuRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return _m.Called(ctx, item).Error(0)
}

func (_m *MenuRepository) DeleteMenuItem(ctx context.Context, venueID, itemID int64) (int64, error) {
	ret := _m.Called(ctx, venueID, itemID)
	return ret.Get(0).(int64), ret.Error(1)
}

func itemsOrNil(v any) []domain.MenuItem {
	if v == nil {
		return nil
	}
	return v.([]domain.MenuItem)
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t mock.TestingT) *OrderRepository {
	m := &OrderRepository{}
	register(t, &m.Mock)
	return m
}

func (_m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order, event *domain.OrderEvent) error {
	return _m.Called(ctx, order, event).Error(0)
}

func (_m *OrderRepository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ret := _m.Called(ctx, id)
	var order *domain.Order
	if v := ret.Get(0); v != nil {
		order = v.(*domain.Order)
	}
	return order, ret.Error(1)
}

func (_m *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	ret := _m.Called(ctx)
	return ordersOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *OrderRepository) ListVenueOrders(ctx context.Context, venueID int64) ([]domain.Order, error) {
	ret := _m.Called(ctx, venueID)
	return ordersOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *OrderRepository) ListOrdersByOwner(ctx context.Context, userID int64) ([]domain.Order, error) {
	ret := _m.Called(ctx, userID)
	return ordersOrNil(ret.Get(0)), ret.Error(1)
}

func ordersOrNil(v any) []domain.Order {
	if v == nil {
		return nil
	}
	return v.([]domain.Order)
}

type OutboxRepository struct {
	mock.Mock
}

func NewOutboxRepository(t mock.TestingT) *OutboxRepository {
	m := &OutboxRepository{}
	register(t, &m.Mock)
	return m
}

func (_m *OutboxRepository) DueOutbox(ctx context.Context, now time.Time, maxAttempts, limit int) ([]domain.OutboxEntry, error) {
	ret := _m.Called(ctx, now, maxAttempts, limit)
	var entries []domain.OutboxEntry
	if v := ret.Get(0); v != nil {
		entries = v.([]domain.OutboxEntry)
	}
	return entries, ret.Error(1)
}

func (_m *OutboxRepository) MarkOutboxSent(ctx context.Context, id int64, at time.Time) error {
	return _m.Called(ctx, id, at).Error(0)
}

func (_m *OutboxRepository) MarkOutboxFailed(ctx context.Context, id int64, lastErr string, nextAttempt time.Time) error {
	return _m.Called(ctx, id, lastErr, nextAttempt).Error(0)
}
