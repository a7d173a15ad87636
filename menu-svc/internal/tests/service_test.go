package tests

import (
	"context"
	"errors"
	"testing"

	"noirqr/menu-svc/internal/domain"
	"noirqr/menu-svc/internal/mocks"
	"noirqr/menu-svc/internal/service"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	owner    = service.Principal{User: &domain.User{ID: 1, Email: "owner@example.com"}}
	stranger = service.Principal{User: &domain.User{ID: 2, Email: "other@example.com"}}
	operator = service.Principal{Operator: true}
)

func price(v float64) *float64 { return &v }

func TestVenueService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		principal     service.Principal
		input         service.CreateVenueInput
		prepareMocks  func(repo *mocks.VenueRepository)
		expectedError error
	}{
		{
			name:      "success_default_theme",
			principal: owner,
			input:     service.CreateVenueInput{Name: "Cafe", Slug: "cafe"},
			prepareMocks: func(repo *mocks.VenueRepository) {
				repo.On("CreateVenue", ctx, mock.MatchedBy(func(v *domain.Venue) bool {
					return v.UserID == 1 && v.Slug == "cafe" && v.ThemeColor == domain.DefaultThemeColor
				})).Run(func(args mock.Arguments) { args.Get(1).(*domain.Venue).ID = 10 }).Return(nil).Once()
			},
		},
		{
			name:          "operator_cannot_own",
			principal:     operator,
			input:         service.CreateVenueInput{Name: "Cafe", Slug: "cafe"},
			prepareMocks:  func(*mocks.VenueRepository) {},
			expectedError: service.ErrUserRequired,
		},
		{
			name:          "missing_slug",
			principal:     owner,
			input:         service.CreateVenueInput{Name: "Cafe"},
			prepareMocks:  func(*mocks.VenueRepository) {},
			expectedError: service.ErrVenueFieldsMissing,
		},
		{
			name:      "duplicate_slug",
			principal: owner,
			input:     service.CreateVenueInput{Name: "Cafe", Slug: "cafe"},
			prepareMocks: func(repo *mocks.VenueRepository) {
				repo.On("CreateVenue", ctx, mock.Anything).Return(domain.ErrConflict).Once()
			},
			expectedError: service.ErrSlugTaken,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewVenueRepository(t)
			testCase.prepareMocks(repo)
			log, _ := test.NewNullLogger()
			svc := service.NewVenueService(repo, nil, log)

			venue, err := svc.Create(ctx, testCase.principal, testCase.input)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(10), venue.ID)
			assert.NotNil(t, venue.MenuItems)
		})
	}
}

func TestVenueService_Update(t *testing.T) {
	ctx := context.Background()
	stored := func() *domain.Venue {
		return &domain.Venue{ID: 10, UserID: 1, Name: "Cafe", Slug: "cafe", ThemeColor: "#000000", Description: "old"}
	}

	t.Run("partial_update_invalidates_old_and_new_slug", func(t *testing.T) {
		repo := mocks.NewVenueRepository(t)
		cache := mocks.NewMenuCache(t)
		repo.On("GetVenue", ctx, int64(10)).Return(stored(), nil).Once()
		repo.On("UpdateVenue", ctx, mock.MatchedBy(func(v *domain.Venue) bool {
			return v.Name == "Cafe" && v.Slug == "cafe-2" && v.Description == "old" && v.ThemeColor == "#000000"
		})).Return(nil).Once()
		cache.On("Invalidate", ctx, "cafe", "cafe-2").Return(nil).Once()

		log, _ := test.NewNullLogger()
		svc := service.NewVenueService(repo, cache, log)
		venue, err := svc.Update(ctx, owner, 10, domain.VenueUpdate{Slug: "cafe-2"})
		require.NoError(t, err)
		assert.Equal(t, "cafe-2", venue.Slug)
	})

	t.Run("operator_may_update", func(t *testing.T) {
		repo := mocks.NewVenueRepository(t)
		repo.On("GetVenue", ctx, int64(10)).Return(stored(), nil).Once()
		repo.On("UpdateVenue", ctx, mock.Anything).Return(nil).Once()

		log, _ := test.NewNullLogger()
		venue, err := service.NewVenueService(repo, nil, log).Update(ctx, operator, 10, domain.VenueUpdate{Name: "Bistro"})
		require.NoError(t, err)
		assert.Equal(t, "Bistro", venue.Name)
	})

	t.Run("not_owner", func(t *testing.T) {
		repo := mocks.NewVenueRepository(t)
		repo.On("GetVenue", ctx, int64(10)).Return(stored(), nil).Once()

		log, _ := test.NewNullLogger()
		_, err := service.NewVenueService(repo, nil, log).Update(ctx, stranger, 10, domain.VenueUpdate{Name: "Mine"})
		assert.ErrorIs(t, err, service.ErrNotOwner)
		assert.Equal(t, service.KindForbidden, service.KindOf(err))
	})

	t.Run("missing", func(t *testing.T) {
		repo := mocks.NewVenueRepository(t)
		repo.On("GetVenue", ctx, int64(11)).Return(nil, domain.ErrNotFound).Once()

		log, _ := test.NewNullLogger()
		_, err := service.NewVenueService(repo, nil, log).Update(ctx, owner, 11, domain.VenueUpdate{})
		assert.ErrorIs(t, err, service.ErrVenueNotFound)
	})

	t.Run("slug_conflict", func(t *testing.T) {
		repo := mocks.NewVenueRepository(t)
		repo.On("GetVenue", ctx, int64(10)).Return(stored(), nil).Once()
		repo.On("UpdateVenue", ctx, mock.Anything).Return(domain.ErrConflict).Once()

		log, _ := test.NewNullLogger()
		_, err := service.NewVenueService(repo, nil, log).Update(ctx, owner, 10, domain.VenueUpdate{Slug: "taken"})
		assert.ErrorIs(t, err, service.ErrSlugTaken)
	})
}

func TestVenueService_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	venue := &domain.Venue{ID: 10, UserID: 1, Slug: "cafe"}

	t.Run("delete", func(t *testing.T) {
		repo := mocks.NewVenueRepository(t)
		cache := mocks.NewMenuCache(t)
		repo.On("GetVenue", ctx, int64(10)).Return(venue, nil).Once()
		repo.On("DeleteVenue", ctx, int64(10)).Return(int64(1), nil).Once()
		cache.On("Invalidate", ctx, "cafe").Return(errors.New("redis down")).Once()

		log, hook := test.NewNullLogger()
		err := service.NewVenueService(repo, cache, log).Delete(ctx, owner, 10)
		require.NoError(t, err)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, "menu cache invalidation failed", hook.LastEntry().Message)
	})

	t.Run("delete_by_stranger", func(t *testing.T) {
		repo := mocks.NewVenueRepository(t)
		repo.On("GetVenue", ctx, int64(10)).Return(venue, nil).Once()

		log, _ := test.NewNullLogger()
		err := service.NewVenueService(repo, nil, log).Delete(ctx, stranger, 10)
		assert.ErrorIs(t, err, service.ErrNotOwner)
	})

	t.Run("list_owned", func(t *testing.T) {
		repo := mocks.NewVenueRepository(t)
		repo.On("ListVenuesByOwner", ctx, int64(1)).Return([]domain.Venue{*venue}, nil).Once()
		repo.On("ListVenues", ctx).Return([]domain.Venue{*venue, {ID: 11}}, nil).Once()

		log, _ := test.NewNullLogger()
		svc := service.NewVenueService(repo, nil, log)

		mine, err := svc.ListOwned(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, mine, 1)

		all, err := svc.ListOwned(ctx, operator)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		_, err = svc.ListOwned(ctx, service.Principal{})
		assert.ErrorIs(t, err, service.ErrTokenRequired)
	})

	t.Run("get_by_slug_missing", func(t *testing.T) {
		repo := mocks.NewVenueRepository(t)
		repo.On("GetVenueBySlug", ctx, "nope").Return(nil, domain.ErrNotFound).Once()

		log, _ := test.NewNullLogger()
		_, err := service.NewVenueService(repo, nil, log).GetBySlug(ctx, "nope")
		assert.ErrorIs(t, err, service.ErrVenueNotFound)
	})
}

func TestMenuService_List(t *testing.T) {
	ctx := context.Background()
	items := []domain.MenuItem{{ID: 20, VenueID: 10, Name: "Tea", Price: 50, IsAvailable: true}}

	t.Run("cache_hit", func(t *testing.T) {
		cache := mocks.NewMenuCache(t)
		cache.On("GetMenu", ctx, "cafe").Return(items, true, nil).Once()

		log, _ := test.NewNullLogger()
		svc := service.NewMenuService(mocks.NewVenueRepository(t), mocks.NewMenuRepository(t), cache, log)
		got, err := svc.List(ctx, "cafe")
		require.NoError(t, err)
		assert.Equal(t, items, got)
	})

	t.Run("cache_miss_fills_cache", func(t *testing.T) {
		venues := mocks.NewVenueRepository(t)
		repo := mocks.NewMenuRepository(t)
		cache := mocks.NewMenuCache(t)
		cache.On("GetMenu", ctx, "cafe").Return(nil, false, nil).Once()
		venues.On("GetVenueBySlug", ctx, "cafe").Return(&domain.Venue{ID: 10, Slug: "cafe"}, nil).Once()
		repo.On("ListMenuItems", ctx, int64(10)).Return(items, nil).Once()
		cache.On("SetMenu", ctx, "cafe", items).Return(nil).Once()

		log, _ := test.NewNullLogger()
		got, err := service.NewMenuService(venues, repo, cache, log).List(ctx, "cafe")
		require.NoError(t, err)
		assert.Equal(t, items, got)
	})

	t.Run("cache_error_falls_through", func(t *testing.T) {
		venues := mocks.NewVenueRepository(t)
		repo := mocks.NewMenuRepository(t)
		cache := mocks.NewMenuCache(t)
		cache.On("GetMenu", ctx, "cafe").Return(nil, false, errors.New("timeout")).Once()
		venues.On("GetVenueBySlug", ctx, "cafe").Return(&domain.Venue{ID: 10, Slug: "cafe"}, nil).Once()
		repo.On("ListMenuItems", ctx, int64(10)).Return(nil, nil).Once()
		cache.On("SetMenu", ctx, "cafe", []domain.MenuItem{}).Return(nil).Once()

		log, hook := test.NewNullLogger()
		got, err := service.NewMenuService(venues, repo, cache, log).List(ctx, "cafe")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Len(t, hook.Entries, 1)
	})

	t.Run("unknown_venue", func(t *testing.T) {
		venues := mocks.NewVenueRepository(t)
		venues.On("GetVenueBySlug", ctx, "nope").Return(nil, domain.ErrNotFound).Once()

		log, _ := test.NewNullLogger()
		_, err := service.NewMenuService(venues, mocks.NewMenuRepository(t), nil, log).List(ctx, "nope")
		assert.ErrorIs(t, err, service.ErrVenueNotFound)
	})
}

func TestMenuService_Create(t *testing.T) {
	ctx := context.Background()
	venue := &domain.Venue{ID: 10, UserID: 1, Slug: "cafe"}

	tests := []struct {
		name          string
		principal     service.Principal
		input         service.CreateMenuItemInput
		prepareMocks  func(venues *mocks.VenueRepository, repo *mocks.MenuRepository, cache *mocks.MenuCache)
		expectedError error
	}{
		{
			name:      "success_defaults",
			principal: owner,
			input:     service.CreateMenuItemInput{Name: "Tea", Price: price(0)},
			prepareMocks: func(venues *mocks.VenueRepository, repo *mocks.MenuRepository, cache *mocks.MenuCache) {
				venues.On("GetVenue", ctx, int64(10)).Return(venue, nil).Once()
				repo.On("CreateMenuItem", ctx, mock.MatchedBy(func(item *domain.MenuItem) bool {
					return item.VenueID == 10 && item.Category == domain.DefaultCategory && item.IsAvailable && item.Price == 0
				})).Return(nil).Once()
				cache.On("Invalidate", ctx, "cafe").Return(nil).Once()
			},
		},
		{
			name:          "missing_price",
			principal:     owner,
			input:         service.CreateMenuItemInput{Name: "Tea"},
			prepareMocks:  func(*mocks.VenueRepository, *mocks.MenuRepository, *mocks.MenuCache) {},
			expectedError: service.ErrMissingFields,
		},
		{
			name:      "not_owner",
			principal: stranger,
			input:     service.CreateMenuItemInput{Name: "Tea", Price: price(3)},
			prepareMocks: func(venues *mocks.VenueRepository, _ *mocks.MenuRepository, _ *mocks.MenuCache) {
				venues.On("GetVenue", ctx, int64(10)).Return(venue, nil).Once()
			},
			expectedError: service.ErrNotOwner,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			venues := mocks.NewVenueRepository(t)
			repo := mocks.NewMenuRepository(t)
			cache := mocks.NewMenuCache(t)
			testCase.prepareMocks(venues, repo, cache)

			log, _ := test.NewNullLogger()
			item, err := service.NewMenuService(venues, repo, cache, log).Create(ctx, testCase.principal, 10, testCase.input)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Tea", item.Name)
		})
	}

	t.Run("negative_price", func(t *testing.T) {
		log, _ := test.NewNullLogger()
		svc := service.NewMenuService(mocks.NewVenueRepository(t), mocks.NewMenuRepository(t), nil, log)
		_, err := svc.Create(ctx, owner, 10, service.CreateMenuItemInput{Name: "Tea", Price: price(-1)})
		assert.Equal(t, service.KindValidation, service.KindOf(err))
	})
}

func TestMenuService_UpdateChecksParentVenue(t *testing.T) {
	ctx := context.Background()
	item := func() *domain.MenuItem {
		return &domain.MenuItem{ID: 20, VenueID: 10, Name: "Tea", Price: 50, Category: "Drinks", IsAvailable: true}
	}
	venue := &domain.Venue{ID: 10, UserID: 1, Slug: "cafe"}

	t.Run("owner_patch", func(t *testing.T) {
		venues := mocks.NewVenueRepository(t)
		repo := mocks.NewMenuRepository(t)
		repo.On("GetMenuItem", ctx, int64(20)).Return(item(), nil).Once()
		venues.On("GetVenue", ctx, int64(10)).Return(venue, nil).Once()
		repo.On("UpdateMenuItem", ctx, mock.MatchedBy(func(i *domain.MenuItem) bool {
			return i.Price == 60 && !i.IsAvailable && i.Name == "Tea" && i.Category == "Drinks"
		})).Return(nil).Once()

		unavailable := false
		log, _ := test.NewNullLogger()
		got, err := service.NewMenuService(venues, repo, nil, log).Update(ctx, owner, 20,
			domain.MenuItemUpdate{Price: price(60), IsAvailable: &unavailable})
		require.NoError(t, err)
		assert.Equal(t, 60.0, got.Price)
	})

	t.Run("stranger", func(t *testing.T) {
		venues := mocks.NewVenueRepository(t)
		repo := mocks.NewMenuRepository(t)
		repo.On("GetMenuItem", ctx, int64(20)).Return(item(), nil).Once()
		venues.On("GetVenue", ctx, int64(10)).Return(venue, nil).Once()

		log, _ := test.NewNullLogger()
		_, err := service.NewMenuService(venues, repo, nil, log).Update(ctx, stranger, 20, domain.MenuItemUpdate{Price: price(1)})
		assert.ErrorIs(t, err, service.ErrNotOwner)
	})

	t.Run("missing_item", func(t *testing.T) {
		repo := mocks.NewMenuRepository(t)
		repo.On("GetMenuItem", ctx, int64(99)).Return(nil, domain.ErrNotFound).Once()

		log, _ := test.NewNullLogger()
		_, err := service.NewMenuService(mocks.NewVenueRepository(t), repo, nil, log).Update(ctx, owner, 99, domain.MenuItemUpdate{})
		assert.ErrorIs(t, err, service.ErrItemNotFound)
	})
}

func TestMenuService_Delete(t *testing.T) {
	ctx := context.Background()
	venues := mocks.NewVenueRepository(t)
	repo := mocks.NewMenuRepository(t)
	cache := mocks.NewMenuCache(t)

	venues.On("GetVenue", ctx, int64(10)).Return(&domain.Venue{ID: 10, UserID: 1, Slug: "cafe"}, nil).Once()
	repo.On("DeleteMenuItem", ctx, int64(10), int64(404)).Return(int64(0), nil).Once()
	cache.On("Invalidate", ctx, "cafe").Return(nil).Once()

	log, _ := test.NewNullLogger()
	err := service.NewMenuService(venues, repo, cache, log).Delete(ctx, owner, 10, 404)
	assert.NoError(t, err)
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()
	venue := &domain.Venue{ID: 10, UserID: 1, Name: "Cafe", Slug: "cafe", TelegramChatID: "-100"}
	menu := []domain.MenuItem{
		{ID: 20, VenueID: 10, Name: "Tea", Price: 50, IsAvailable: true},
		{ID: 21, VenueID: 10, Name: "Cake", Price: 2.35, IsAvailable: true},
		{ID: 22, VenueID: 10, Name: "Soup", Price: 7, IsAvailable: false},
	}

	tests := []struct {
		name          string
		notifications bool
		input         service.CreateOrderInput
		prepareMocks  func(venues *mocks.VenueRepository, items *mocks.MenuRepository, orders *mocks.OrderRepository)
		expectedError error
		expectedKind  service.Kind
		expectedTotal float64
	}{
		{
			name:          "priced_from_menu_with_event",
			notifications: true,
			input:         service.CreateOrderInput{Slug: "cafe", Cart: []service.CartRequestLine{{ItemID: 20, Quantity: 3}, {ItemID: 21, Quantity: 3}}},
			prepareMocks: func(venues *mocks.VenueRepository, items *mocks.MenuRepository, orders *mocks.OrderRepository) {
				venues.On("GetVenueBySlug", ctx, "cafe").Return(venue, nil).Once()
				items.On("ListMenuItems", ctx, int64(10)).Return(menu, nil).Once()
				orders.On("CreateOrder", ctx,
					mock.MatchedBy(func(o *domain.Order) bool {
						return o.Status == domain.OrderStatusPending &&
							o.CustomerName == domain.DefaultCustomerName &&
							o.CustomerPhone == domain.DefaultCustomerPhone &&
							len(o.Cart) == 2 && o.Cart[0].Name == "Tea" && o.Cart[0].Price == 50
					}),
					mock.MatchedBy(func(e *domain.OrderEvent) bool {
						return e != nil && e.ChatID == "-100" && e.Type == domain.OrderPlacedEvent && e.TotalPrice == 157.05
					}),
				).Run(func(args mock.Arguments) { args.Get(1).(*domain.Order).ID = 77 }).Return(nil).Once()
			},
			expectedTotal: 157.05,
		},
		{
			name:          "notifications_disabled",
			notifications: false,
			input:         service.CreateOrderInput{Slug: "cafe", Cart: []service.CartRequestLine{{ItemID: 20, Quantity: 1}}, CustomerName: "Dee"},
			prepareMocks: func(venues *mocks.VenueRepository, items *mocks.MenuRepository, orders *mocks.OrderRepository) {
				venues.On("GetVenueBySlug", ctx, "cafe").Return(venue, nil).Once()
				items.On("ListMenuItems", ctx, int64(10)).Return(menu, nil).Once()
				orders.On("CreateOrder", ctx, mock.MatchedBy(func(o *domain.Order) bool {
					return o.CustomerName == "Dee"
				}), (*domain.OrderEvent)(nil)).Return(nil).Once()
			},
			expectedTotal: 50,
		},
		{
			name:          "empty_cart",
			input:         service.CreateOrderInput{Slug: "cafe", Cart: []service.CartRequestLine{}},
			prepareMocks:  func(*mocks.VenueRepository, *mocks.MenuRepository, *mocks.OrderRepository) {},
			expectedError: service.ErrInvalidOrder,
		},
		{
			name:          "zero_quantity",
			input:         service.CreateOrderInput{Slug: "cafe", Cart: []service.CartRequestLine{{ItemID: 20, Quantity: 0}}},
			prepareMocks:  func(*mocks.VenueRepository, *mocks.MenuRepository, *mocks.OrderRepository) {},
			expectedError: service.ErrInvalidOrder,
		},
		{
			name:  "unknown_venue",
			input: service.CreateOrderInput{Slug: "gone", Cart: []service.CartRequestLine{{ItemID: 20, Quantity: 1}}},
			prepareMocks: func(venues *mocks.VenueRepository, _ *mocks.MenuRepository, _ *mocks.OrderRepository) {
				venues.On("GetVenueBySlug", ctx, "gone").Return(nil, domain.ErrNotFound).Once()
			},
			expectedError: service.ErrVenueNotFound,
		},
		{
			name:  "unavailable_item",
			input: service.CreateOrderInput{Slug: "cafe", Cart: []service.CartRequestLine{{ItemID: 22, Quantity: 1}}},
			prepareMocks: func(venues *mocks.VenueRepository, items *mocks.MenuRepository, _ *mocks.OrderRepository) {
				venues.On("GetVenueBySlug", ctx, "cafe").Return(venue, nil).Once()
				items.On("ListMenuItems", ctx, int64(10)).Return(menu, nil).Once()
			},
			expectedKind: service.KindValidation,
		},
		{
			name:  "item_from_other_venue",
			input: service.CreateOrderInput{Slug: "cafe", Cart: []service.CartRequestLine{{ItemID: 999, Quantity: 1}}},
			prepareMocks: func(venues *mocks.VenueRepository, items *mocks.MenuRepository, _ *mocks.OrderRepository) {
				venues.On("GetVenueBySlug", ctx, "cafe").Return(venue, nil).Once()
				items.On("ListMenuItems", ctx, int64(10)).Return(menu, nil).Once()
			},
			expectedKind: service.KindValidation,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			venues := mocks.NewVenueRepository(t)
			items := mocks.NewMenuRepository(t)
			orders := mocks.NewOrderRepository(t)
			testCase.prepareMocks(venues, items, orders)

			svc := service.NewOrderService(venues, items, orders, testCase.notifications)
			order, err := svc.Create(ctx, testCase.input)
			switch {
			case testCase.expectedError != nil:
				assert.ErrorIs(t, err, testCase.expectedError)
			case testCase.expectedKind != 0:
				assert.Equal(t, testCase.expectedKind, service.KindOf(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, testCase.expectedTotal, order.TotalPrice)
				assert.Equal(t, "Cafe", order.VenueName)
				assert.False(t, order.CreatedAt.IsZero())
			}
		})
	}
}

func TestOrderService_ListAndStatus(t *testing.T) {
	ctx := context.Background()
	orders := mocks.NewOrderRepository(t)
	venues := mocks.NewVenueRepository(t)
	svc := service.NewOrderService(venues, mocks.NewMenuRepository(t), orders, false)

	orders.On("ListOrders", ctx).Return([]domain.Order{{ID: 1}, {ID: 2}}, nil).Once()
	orders.On("ListOrdersByOwner", ctx, int64(1)).Return([]domain.Order{{ID: 1}}, nil).Once()

	all, err := svc.List(ctx, operator)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.List(ctx, service.Principal{})
	assert.ErrorIs(t, err, service.ErrTokenRequired)

	venues.On("GetVenue", ctx, int64(10)).Return(&domain.Venue{ID: 10, UserID: 1}, nil).Twice()
	orders.On("ListVenueOrders", ctx, int64(10)).Return([]domain.Order{{ID: 1}}, nil).Once()
	_, err = svc.ListVenue(ctx, owner, 10)
	require.NoError(t, err)
	_, err = svc.ListVenue(ctx, stranger, 10)
	assert.ErrorIs(t, err, service.ErrNotOwner)

	orders.On("ListVenueOrders", ctx, int64(55)).Return([]domain.Order{}, nil).Once()
	_, err = svc.ListVenue(ctx, operator, 55)
	require.NoError(t, err)

	orders.On("GetOrder", ctx, int64(1)).Return(&domain.Order{ID: 1, VenueName: "Cafe", Status: "pending", TotalPrice: 150}, nil).Once()
	orders.On("GetOrder", ctx, int64(2)).Return(nil, domain.ErrNotFound).Once()

	status, err := svc.Status(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "pending", status.Status)
	assert.Equal(t, 150.0, status.TotalPrice)

	_, err = svc.Status(ctx, 2)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}
