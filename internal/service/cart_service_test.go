package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-shop-api/internal/model"
	"go-shop-api/internal/repository"
	"go-shop-api/pkg/apierror"
)

func TestCartService_Get(t *testing.T) {
	carts := new(repository.MockCartRepository)
	svc := NewCartService(carts)

	cart := model.Cart{UserID: "u1", Items: []model.CartItem{{ProductID: "p1"}}}
	carts.On("Find", mock.Anything, "u1").Return(cart, nil).Once()

	got, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, cart, got)

	carts.On("Find", mock.Anything, "u2").Return(model.Cart{}, model.ErrCartNotFound).Once()
	_, err = svc.Get(context.Background(), "u2")
	assert.ErrorIs(t, err, model.ErrCartNotFound)
}

func TestCartService_MergeValidatesItems(t *testing.T) {
	carts := new(repository.MockCartRepository)
	svc := NewCartService(carts)

	cases := []struct {
		name  string
		items []model.CartItem
	}{
		{"nil items", nil},
		{"missing product id", []model.CartItem{{ProductID: ""}}},
		{"one bad item among good", []model.CartItem{{ProductID: "p1"}, {ProductID: "  "}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Merge(context.Background(), "u1", tc.items)
			require.Error(t, err)

			var apiErr *apierror.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "BAD_REQUEST", apiErr.Code)
		})
	}

	carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_Merge(t *testing.T) {
	carts := new(repository.MockCartRepository)
	svc := NewCartService(carts)

	items := []model.CartItem{{ProductID: "p1", Quantity: 2}}
	carts.On("Save", mock.Anything, "u1", items).Return(nil).Once()

	require.NoError(t, svc.Merge(context.Background(), "u1", items))
	carts.AssertExpectations(t)
}

func TestCartService_MergeAcceptsEmptyList(t *testing.T) {
	carts := new(repository.MockCartRepository)
	svc := NewCartService(carts)

	carts.On("Save", mock.Anything, "u1", []model.CartItem{}).Return(nil).Once()

	require.NoError(t, svc.Merge(context.Background(), "u1", []model.CartItem{}))
	carts.AssertExpectations(t)
}

func TestCartService_RemoveItem(t *testing.T) {
	carts := new(repository.MockCartRepository)
	svc := NewCartService(carts)

	cart := model.Cart{UserID: "u1", Items: []model.CartItem{{ProductID: "p1"}, {ProductID: "p2"}}}
	carts.On("Find", mock.Anything, "u1").Return(cart, nil).Once()
	carts.On("Save", mock.Anything, "u1", []model.CartItem{{ProductID: "p2"}}).Return(nil).Once()

	require.NoError(t, svc.RemoveItem(context.Background(), "u1", "p1"))
	carts.AssertExpectations(t)
}

func TestCartService_RemoveItemMissingCart(t *testing.T) {
	carts := new(repository.MockCartRepository)
	svc := NewCartService(carts)

	carts.On("Find", mock.Anything, "u1").Return(model.Cart{}, model.ErrCartNotFound).Once()

	err := svc.RemoveItem(context.Background(), "u1", "p1")
	assert.ErrorIs(t, err, model.ErrCartNotFound)
	carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_RemoveUnknownItemIsNoOp(t *testing.T) {
	carts := new(repository.MockCartRepository)
	svc := NewCartService(carts)

	cart := model.Cart{UserID: "u1", Items: []model.CartItem{{ProductID: "p1"}}}
	carts.On("Find", mock.Anything, "u1").Return(cart, nil).Once()
	carts.On("Save", mock.Anything, "u1", []model.CartItem{{ProductID: "p1"}}).Return(nil).Once()

	require.NoError(t, svc.RemoveItem(context.Background(), "u1", "nope"))
	carts.AssertExpectations(t)
}
