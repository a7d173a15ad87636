package mocks

import (
	"context"

	"noirqr/menu-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MenuCache struct {
	mock.Mock
}

func NewMenuCache(t mock.TestingT) *MenuCache {
	m := &MenuCache{}
	register(t, &m.Mock)
	return m
}

func (_m *MenuCache) GetMenu(ctx context.Context, slug string) ([]domain.MenuItem, bool, error) {
	ret := _m.Called(ctx, slug)
	return itemsOrNil(ret.Get(0)), ret.Bool(1), ret.Error(2)
}

func (_m *MenuCache) SetMenu(ctx context.Context, slug string, items []domain.MenuItem) error {
	return _m.Called(ctx, slug, items).Error(0)
}

func (_m *MenuCache) Invalidate(ctx context.Context, slugs ...string) error {
	args := []any{ctx}
	for _, s := range slugs {
		args = append(args, s)
	}
	return _m.Called(args...).Error(0)
}

type OrderPublisher struct {
	mock.Mock
}

func NewOrderPublisher(t mock.TestingT) *OrderPublisher {
	m := &OrderPublisher{}
	register(t, &m.Mock)
	return m
}

func (_m *OrderPublisher) PublishOrder(ctx context.Context, event domain.OrderEvent) error {
	return _m.Called(ctx, event).Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t mock.TestingT) *QRGenerator {
	m := &QRGenerator{}
	register(t, &m.Mock)
	return m
}

func (_m *QRGenerator) Generate(content string) ([]byte, error) {
	ret := _m.Called(content)
	var png []byte
	if v := ret.Get(0); v != nil {
		png = v.([]byte)
	}
	return png, ret.Error(1)
}

type ImageStore struct {
	mock.Mock
}

func NewImageStore(t mock.TestingT) *ImageStore {
	m := &ImageStore{}
	register(t, &m.Mock)
	return m
}

func (_m *ImageStore) Put(name string, data []byte) error {
	return _m.Called(name, data).Error(0)
}
