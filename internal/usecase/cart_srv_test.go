package usecase

import (
	"context"
	"testing"

	"appliance-store/internal/data/entity"
	"appliance-store/internal/data/repository"
	"appliance-store/internal/dto/request"
	"appliance-store/pkg/cache"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cartFixture struct {
	svc       CartService
	products  *mockProductRepo
	carts     *mockCartRepo
	wishlists *mockWishlistRepo
	guest     repository.GuestCartRepository
}

func newCartFixture() *cartFixture {
	log := zap.NewNop()
	f := &cartFixture{
		products:  &mockProductRepo{},
		carts:     &mockCartRepo{},
		wishlists: &mockWishlistRepo{},
		guest:     repository.NewGuestCartRepository(cache.NewMemoryStore(nil), log),
	}
	repo := &repository.Repository{
		Product:   f.products,
		Cart:      f.carts,
		GuestCart: f.guest,
		Wishlist:  f.wishlists,
	}
	f.svc = NewCartService(repo, testConfig(), log)
	return f
}

func newProduct(name string, price int64) *entity.Product {
	return &entity.Product{
		Base:  entity.Base{ID: uuid.New()},
		Name:  name,
		Price: decimal.NewFromInt(price),
	}
}

func TestCartService_GuestAddAndTotals(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	kettle := newProduct("Electric Kettle", 1200)
	iron := newProduct("Dry Iron", 850)

	f.products.On("FindByID", mock.Anything, kettle.ID).Return(kettle, nil)
	f.products.On("FindByID", mock.Anything, iron.ID).Return(iron, nil)
	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*entity.Product{
		kettle.ID: kettle,
		iron.ID:   iron,
	}, nil)

	guestID, err := f.svc.AddItem(ctx, CartOwner{}, kettle.ID.String())
	require.NoError(t, err)
	require.NotEmpty(t, guestID, "first guest add mints an id")

	again, err := f.svc.AddItem(ctx, CartOwner{GuestID: guestID}, kettle.ID.String())
	require.NoError(t, err)
	assert.Equal(t, guestID, again)

	_, err = f.svc.AddItem(ctx, CartOwner{GuestID: guestID}, iron.ID.String())
	require.NoError(t, err)

	cart, err := f.svc.GetCart(ctx, CartOwner{GuestID: guestID})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	// sorted by name
	assert.Equal(t, "Dry Iron", cart.Items[0].Name)
	assert.Equal(t, 2, cart.Items[1].Quantity)
	assert.True(t, cart.Items[1].Subtotal.Equal(decimal.NewFromInt(2400)))

	// 3250 total, 10% off
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(3250)), cart.Total.String())
	assert.True(t, cart.Discount.Equal(decimal.NewFromInt(325)), cart.Discount.String())
	assert.True(t, cart.FinalTotal.Equal(decimal.NewFromInt(2925)), cart.FinalTotal.String())
}

func TestCartService_AddUnknownProduct(t *testing.T) {
	f := newCartFixture()
	id := uuid.New()
	f.products.On("FindByID", mock.Anything, id).Return(nil, nil)

	_, err := f.svc.AddItem(context.Background(), CartOwner{}, id.String())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.AddItem(context.Background(), CartOwner{}, "nope")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartService_UpdateItem(t *testing.T) {
	userID := uuid.New()
	cart := &entity.Cart{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: userID}
	fridge := newProduct("Refrigerator", 24000)

	tests := []struct {
		name   string
		action entity.CartAction
		qty    int
		expect func(f *cartFixture)
	}{
		{
			name:   "increase",
			action: entity.CartActionIncrease,
			qty:    2,
			expect: func(f *cartFixture) {
				f.carts.On("SetQuantity", mock.Anything, cart.ID, fridge.ID, 3).Return(nil).Once()
			},
		},
		{
			name:   "decrease",
			action: entity.CartActionDecrease,
			qty:    2,
			expect: func(f *cartFixture) {
				f.carts.On("SetQuantity", mock.Anything, cart.ID, fridge.ID, 1).Return(nil).Once()
			},
		},
		{
			name:   "decrease stops at one",
			action: entity.CartActionDecrease,
			qty:    1,
			expect: func(f *cartFixture) {},
		},
		{
			name:   "remove",
			action: entity.CartActionRemove,
			qty:    1,
			expect: func(f *cartFixture) {
				f.carts.On("RemoveItem", mock.Anything, cart.ID, fridge.ID).Return(nil).Once()
			},
		},
		{
			name:   "save for later",
			action: entity.CartActionSaveForLater,
			qty:    1,
			expect: func(f *cartFixture) {
				f.wishlists.On("Add", mock.Anything, userID, fridge.ID).Return(nil).Once()
				f.carts.On("RemoveItem", mock.Anything, cart.ID, fridge.ID).Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture()
			f.products.On("FindByID", mock.Anything, fridge.ID).Return(fridge, nil)
			f.carts.On("GetOrCreate", mock.Anything, userID).Return(cart, nil)
			f.carts.On("FindItem", mock.Anything, cart.ID, fridge.ID).Return(&entity.CartItem{
				CartID:    cart.ID,
				ProductID: fridge.ID,
				Quantity:  tt.qty,
			}, nil)
			tt.expect(f)

			err := f.svc.UpdateItem(context.Background(), userID, &request.CartUpdateRequest{
				ProductID: fridge.ID.String(),
				Action:    string(tt.action),
			})
			require.NoError(t, err)
			f.carts.AssertExpectations(t)
			f.wishlists.AssertExpectations(t)
			if tt.name == "decrease stops at one" {
				f.carts.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestCartService_UpdateItemNotInCartIsNoop(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()
	cart := &entity.Cart{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: userID}
	fan := newProduct("Ceiling Fan", 2100)

	f.products.On("FindByID", mock.Anything, fan.ID).Return(fan, nil)
	f.carts.On("GetOrCreate", mock.Anything, userID).Return(cart, nil)
	f.carts.On("FindItem", mock.Anything, cart.ID, fan.ID).Return(nil, nil)

	err := f.svc.UpdateItem(context.Background(), userID, &request.CartUpdateRequest{
		ProductID: fan.ID.String(),
		Action:    "increase",
	})
	require.NoError(t, err)
	f.carts.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_MoveToCartDoesNotIncrement(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()
	cart := &entity.Cart{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: userID}
	toaster := newProduct("Toaster", 1500)

	f.products.On("FindByID", mock.Anything, toaster.ID).Return(toaster, nil)
	f.carts.On("GetOrCreate", mock.Anything, userID).Return(cart, nil)
	f.carts.On("FindItem", mock.Anything, cart.ID, toaster.ID).Return(&entity.CartItem{Quantity: 3}, nil)
	f.wishlists.On("Remove", mock.Anything, userID, toaster.ID).Return(nil).Once()

	err := f.svc.WishlistAction(context.Background(), userID, &request.WishlistActionRequest{
		ProductID: toaster.ID.String(),
		Action:    "move_to_cart",
	})
	require.NoError(t, err)
	f.carts.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.wishlists.AssertExpectations(t)
}

func TestCartService_MergeGuestCart(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	userID := uuid.New()
	cart := &entity.Cart{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: userID}
	heater := newProduct("Room Heater", 3200)
	gone := uuid.New()

	require.NoError(t, f.guest.Save(ctx, "guest-1", map[uuid.UUID]int{heater.ID: 2, gone: 1}, 0))

	f.carts.On("GetOrCreate", mock.Anything, userID).Return(cart, nil)
	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*entity.Product{heater.ID: heater}, nil)
	f.carts.On("AddItem", mock.Anything, cart.ID, heater.ID, 2).Return(nil).Once()

	require.NoError(t, f.svc.MergeGuestCart(ctx, "guest-1", userID))
	f.carts.AssertExpectations(t)
	f.carts.AssertNotCalled(t, "AddItem", mock.Anything, cart.ID, gone, mock.Anything)

	left, err := f.guest.Get(ctx, "guest-1")
	require.NoError(t, err)
	assert.Empty(t, left, "guest cart dropped after merge")

	// Nothing to merge for a visitor without a guest cart
	require.NoError(t, f.svc.MergeGuestCart(ctx, "", userID))
}
