package mocks

import (
	"context"

	"noirqr/menu-svc/internal/domain"
	"noirqr/menu-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

func register(t mock.TestingT, m *mock.Mock) {
	m.Test(t)
	if c, ok := t.(interface{ Cleanup(func()) }); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}
}

type AuthServiceInterface struct {
	mock.Mock
}

func NewAuthServiceInterface(t mock.TestingT) *AuthServiceInterface {
	m := &AuthServiceInterface{}
	register(t, &m.Mock)
	return m
}

func (_m *AuthServiceInterface) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	ret := _m.Called(ctx, in)
	res, _ := ret.Get(0).(*service.AuthResult)
	return res, ret.Error(1)
}

func (_m *AuthServiceInterface) Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error) {
	ret := _m.Called(ctx, in)
	res, _ := ret.Get(0).(*service.AuthResult)
	return res, ret.Error(1)
}

func (_m *AuthServiceInterface) Verify(ctx context.Context, token string) (*domain.User, error) {
	ret := _m.Called(ctx, token)
	return userOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *AuthServiceInterface) Authenticate(ctx context.Context, bearer, adminSecret string) (service.Principal, error) {
	ret := _m.Called(ctx, bearer, adminSecret)
	p, _ := ret.Get(0).(service.Principal)
	return p, ret.Error(1)
}

type VenueServiceInterface struct {
	mock.Mock
}

func NewVenueServiceInterface(t mock.TestingT) *VenueServiceInterface {
	m := &VenueServiceInterface{}
	register(t, &m.Mock)
	return m
}

func (_m *VenueServiceInterface) ListOwned(ctx context.Context, p service.Principal) ([]domain.Venue, error) {
	ret := _m.Called(ctx, p)
	return venuesOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *VenueServiceInterface) ListAll(ctx context.Context) ([]domain.Venue, error) {
	ret := _m.Called(ctx)
	return venuesOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *VenueServiceInterface) GetBySlug(ctx context.Context, slug string) (*domain.Venue, error) {
	ret := _m.Called(ctx, slug)
	return venueOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *VenueServiceInterface) Create(ctx context.Context, p service.Principal, in service.CreateVenueInput) (*domain.Venue, error) {
	ret := _m.Called(ctx, p, in)
	return venueOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *VenueServiceInterface) Update(ctx context.Context, p service.Principal, id int64, upd domain.VenueUpdate) (*domain.Venue, error) {
	ret := _m.Called(ctx, p, id, upd)
	return venueOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *VenueServiceInterface) Delete(ctx context.Context, p service.Principal, id int64) error {
	return _m.Called(ctx, p, id).Error(0)
}

type OrderServiceInterface struct {
	mock.Mock
}

func NewOrderServiceInterface(t mock.TestingT) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	register(t, &m.Mock)
	return m
}

func (_m *OrderServiceInterface) Create(ctx context.Context, in service.CreateOrderInput) (*domain.Order, error) {
	ret := _m.Called(ctx, in)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (_m *OrderServiceInterface) Status(ctx context.Context, id int64) (*service.OrderStatus, error) {
	ret := _m.Called(ctx, id)
	status, _ := ret.Get(0).(*service.OrderStatus)
	return status, ret.Error(1)
}

func (_m *OrderServiceInterface) List(ctx context.Context, p service.Principal) ([]domain.Order, error) {
	ret := _m.Called(ctx, p)
	return ordersOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *OrderServiceInterface) ListVenue(ctx context.Context, p service.Principal, venueID int64) ([]domain.Order, error) {
	ret := _m.Called(ctx, p, venueID)
	return ordersOrNil(ret.Get(0)), ret.Error(1)
}

type QRServiceInterface struct {
	mock.Mock
}

func NewQRServiceInterface(t mock.TestingT) *QRServiceInterface {
	m := &QRServiceInterface{}
	register(t, &m.Mock)
	return m
}

func (_m *QRServiceInterface) MenuURL(slug string) string {
	return _m.Called(slug).String(0)
}

func (_m *QRServiceInterface) Payload(ctx context.Context, p service.Principal, venueID int64) (*service.QRPayload, error) {
	ret := _m.Called(ctx, p, venueID)
	payload, _ := ret.Get(0).(*service.QRPayload)
	return payload, ret.Error(1)
}

func (_m *QRServiceInterface) Image(ctx context.Context, venueID int64) ([]byte, error) {
	ret := _m.Called(ctx, venueID)
	png, _ := ret.Get(0).([]byte)
	return png, ret.Error(1)
}

var (
	_ service.AuthServiceInterface  = (*AuthServiceInterface)(nil)
	_ service.VenueServiceInterface = (*VenueServiceInterface)(nil)
	_ service.OrderServiceInterface = (*OrderServiceInterface)(nil)
	_ service.QRServiceInterface    = (*QRServiceInterface)(nil)
)
