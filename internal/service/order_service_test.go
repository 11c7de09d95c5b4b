package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/testutil"
)

var orderClock = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

func newOrderFixture(clearStale bool) (*fakeStore, OrderService) {
	store := newFakeStore()
	svc := NewOrderService(store, nil, testutil.MakeNoopLogger(), OrderOptions{
		ClearStaleCancellation: clearStale,
		Now:                    func() time.Time { return orderClock },
	})
	return store, svc
}

func TestOrderService_CreateOrder_IncrementsCountOnce(t *testing.T) {
	store, svc := newOrderFixture(false)

	store.users.On("FindByID", mock.Anything, "u1").Return(&model.User{ID: "u1"}, nil)
	store.orders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Order).ID = "o1" }).
		Return(nil)
	store.users.On("IncrementOrderCount", mock.Anything, "u1", 1).Return(nil).Once()

	order, err := svc.CreateOrder(context.Background(), "u1", CreateOrderInput{
		Items:       []model.LineItem{{ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("4.50")}},
		TotalAmount: decimal.RequireFromString("9.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "ORD-1717237800000", order.OrderNumber)
	assert.Equal(t, "2024-06-01T10:30:00Z", order.Date)
	assert.NotNil(t, order.Tracking)
	assert.Equal(t, 1, store.txCalls)
	store.orders.AssertExpectations(t)
	store.users.AssertExpectations(t)
	store.users.AssertNumberOfCalls(t, "IncrementOrderCount", 1)
}

func TestOrderService_CreateOrder_KeepsClientFields(t *testing.T) {
	store, svc := newOrderFixture(false)

	store.users.On("FindByID", mock.Anything, "u1").Return(&model.User{ID: "u1"}, nil)
	store.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		return o.OrderNumber == "WEB-42" && o.Date == "2024-01-02" && o.Status == model.OrderStatusProcessing
	})).Return(nil)
	store.users.On("IncrementOrderCount", mock.Anything, "u1", 1).Return(nil)

	_, err := svc.CreateOrder(context.Background(), "u1", CreateOrderInput{
		OrderNumber: "WEB-42",
		Date:        "2024-01-02",
		Status:      model.OrderStatusProcessing,
	})
	require.NoError(t, err)
	store.orders.AssertExpectations(t)
}

func TestOrderService_CreateOrder_OwnerMissing(t *testing.T) {
	store, svc := newOrderFixture(false)
	store.users.On("FindByID", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	_, err := svc.CreateOrder(context.Background(), "ghost", CreateOrderInput{})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	store.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	store.users.AssertNotCalled(t, "IncrementOrderCount", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   CreateOrderInput
	}{
		{"zero quantity", CreateOrderInput{Items: []model.LineItem{{ProductID: "p1", Quantity: 0}}}},
		{"negative price", CreateOrderInput{Items: []model.LineItem{{ProductID: "p1", Quantity: 1, Price: decimal.NewFromInt(-1)}}}},
		{"negative total", CreateOrderInput{TotalAmount: decimal.NewFromInt(-5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc := newOrderFixture(false)
			_, err := svc.CreateOrder(context.Background(), "u1", tt.in)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Equal(t, 0, store.txCalls)
		})
	}
}

func TestOrderService_UpdateOrderStatus_CancellationRules(t *testing.T) {
	tests := []struct {
		name       string
		clearStale bool
		update     StatusUpdate
		check      func(t *testing.T, change model.StatusChange)
	}{
		{
			name:   "cancelled with reason stamps server time",
			update: StatusUpdate{Status: model.OrderStatusCancelled, Cancellation: &CancellationInput{Reason: "r", Comment: "c"}},
			check: func(t *testing.T, change model.StatusChange) {
				require.NotNil(t, change.Cancellation)
				assert.Equal(t, model.Cancellation{Reason: "r", Comment: "c", CancelledAt: orderClock}, *change.Cancellation)
				assert.False(t, change.ClearCancellation)
			},
		},
		{
			name:   "cancelled without reason leaves record",
			update: StatusUpdate{Status: model.OrderStatusCancelled},
			check: func(t *testing.T, change model.StatusChange) {
				assert.Nil(t, change.Cancellation)
				assert.False(t, change.ClearCancellation)
			},
		},
		{
			name:   "other status keeps stale record by default",
			update: StatusUpdate{Status: model.OrderStatusShipped, Cancellation: &CancellationInput{Reason: "ignored"}},
			check: func(t *testing.T, change model.StatusChange) {
				assert.Nil(t, change.Cancellation)
				assert.False(t, change.ClearCancellation)
			},
		},
		{
			name:       "other status clears stale record when enabled",
			clearStale: true,
			update:     StatusUpdate{Status: model.OrderStatusDelivered},
			check: func(t *testing.T, change model.StatusChange) {
				assert.Nil(t, change.Cancellation)
				assert.True(t, change.ClearCancellation)
			},
		},
		{
			name:   "tracking is passed through",
			update: StatusUpdate{Status: model.OrderStatusShipped, Tracking: map[string]any{"carrier": "DHL"}},
			check: func(t *testing.T, change model.StatusChange) {
				assert.Equal(t, map[string]any{"carrier": "DHL"}, change.Tracking)
				assert.Equal(t, orderClock, change.UpdatedAt)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc := newOrderFixture(tt.clearStale)

			var got model.StatusChange
			store.orders.On("UpdateStatus", mock.Anything, "o1", "u1", mock.AnythingOfType("model.StatusChange")).
				Run(func(args mock.Arguments) { got = args.Get(3).(model.StatusChange) }).
				Return(&model.Order{ID: "o1", UserID: "u1", Status: tt.update.Status}, nil)

			order, err := svc.UpdateOrderStatus(context.Background(), "u1", "o1", tt.update)
			require.NoError(t, err)
			assert.Equal(t, tt.update.Status, order.Status)
			assert.Equal(t, tt.update.Status, got.Status)
			tt.check(t, got)
		})
	}
}

func TestOrderService_UpdateOrderStatus_ForeignOrder(t *testing.T) {
	store, svc := newOrderFixture(false)
	store.orders.On("UpdateStatus", mock.Anything, "o1", "intruder", mock.Anything).Return(nil, repository.ErrNotFound)

	_, err := svc.UpdateOrderStatus(context.Background(), "intruder", "o1", StatusUpdate{Status: model.OrderStatusCancelled})
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus_RequiresStatus(t *testing.T) {
	store, svc := newOrderFixture(false)

	_, err := svc.UpdateOrderStatus(context.Background(), "u1", "o1", StatusUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	store.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_AdminUpdateOrderStatus_IsUnscoped(t *testing.T) {
	store, svc := newOrderFixture(false)
	store.orders.On("UpdateStatus", mock.Anything, "o1", "", mock.Anything).
		Return(&model.Order{ID: "o1", UserID: "someone", Status: model.OrderStatusShipped}, nil)

	order, err := svc.AdminUpdateOrderStatus(context.Background(), "o1", StatusUpdate{Status: model.OrderStatusShipped})
	require.NoError(t, err)
	assert.Equal(t, "someone", order.UserID)
}

func TestOrderService_ListOrders(t *testing.T) {
	store, svc := newOrderFixture(false)
	want := []model.Order{{ID: "o2", Date: "2024-03-01"}, {ID: "o1", Date: "2024-01-01"}}
	store.orders.On("ListByUser", mock.Anything, "u1").Return(want, nil)

	orders, err := svc.ListOrders(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, want, orders)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	store, svc := newOrderFixture(false)
	store.orders.On("FindByID", mock.Anything, "o1", "").Return(&model.Order{ID: "o1", UserID: "u1"}, nil)
	store.orders.On("Delete", mock.Anything, "o1").Return(nil)
	store.users.On("IncrementOrderCount", mock.Anything, "u1", -1).Return(nil)

	require.NoError(t, svc.DeleteOrder(context.Background(), "o1"))
	store.users.AssertExpectations(t)

	store.orders.On("FindByID", mock.Anything, "gone", "").Return(nil, repository.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteOrder(context.Background(), "gone"), apperrors.ErrOrderNotFound)
}

func TestOrderService_ReconcileOrderCounts(t *testing.T) {
	store, svc := newOrderFixture(false)
	store.orders.On("CountByUser", mock.Anything).Return(map[string]int{"u1": 2, "u2": 1}, nil)
	store.users.On("List", mock.Anything).Return([]model.User{
		{ID: "u1", OrderCount: 1},
		{ID: "u2", OrderCount: 1},
		{ID: "u3", OrderCount: 4},
	}, nil)
	store.users.On("SetOrderCount", mock.Anything, "u1", 2).Return(nil).Once()
	store.users.On("SetOrderCount", mock.Anything, "u3", 0).Return(nil).Once()

	result, err := svc.ReconcileOrderCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &ReconcileResult{Users: 3, Updated: 2}, result)
	store.users.AssertExpectations(t)
	store.users.AssertNotCalled(t, "SetOrderCount", mock.Anything, "u2", mock.Anything)
}
