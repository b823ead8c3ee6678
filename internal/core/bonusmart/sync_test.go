package bonusmart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/playmixer/bonusmart/internal/adapters/crm"
	"github.com/playmixer/bonusmart/internal/adapters/store/errstore"
	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	crmmock "github.com/playmixer/bonusmart/internal/mocks/crm"
	"github.com/playmixer/bonusmart/internal/mocks/store"
)

func TestBonusmart_RemoteSync(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testConfig()
	cfg.SyncEnabled = true
	cfg.SyncTimeout = time.Second

	storeMock := store.NewMockStore(ctrl)
	crmMock := crmmock.NewMockLeadCreator(ctrl)

	settled := model.Order{
		ID:            11,
		UserID:        5,
		CustomerName:  "Иван",
		CustomerPhone: "+79990000000",
		TotalBonus:    5000,
		TotalMoney:    decimal.NewNullDecimal(decimal.RequireFromString("95000.50")),
		Items: []model.OrderItem{{
			ProductID: sochi.ID,
			Quantity:  1,
			Product:   sochi,
		}},
	}

	done := make(chan struct{})
	storeMock.EXPECT().GetProduct(gomock.Any(), sochi.ID).Return(sochi, nil).Times(1)
	storeMock.EXPECT().SettleOrder(gomock.Any(), gomock.Any()).Return(settled, nil).Times(1)
	storeMock.EXPECT().GetOrder(gomock.Any(), uint(11)).Return(settled, nil).Times(1)
	crmMock.EXPECT().CreateLead(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, lead crm.Lead) (int64, error) {
			assert.Equal(t, "Заказ #11 от Иван", lead.Name)
			assert.Equal(t, int64(95000), lead.Price)
			assert.Equal(t, "+79990000000", lead.Phone)
			assert.Equal(t, []string{"MiniApp", "Лагерь"}, lead.Tags)
			assert.Equal(t, crm.Field{Name: "Order items", Value: "Смена Сочи x 1"}, lead.Fields[1])
			return 777, nil
		}).Times(1)
	storeMock.EXPECT().SetRemoteLeadID(gomock.Any(), uint(11), int64(777)).
		DoAndReturn(func(context.Context, uint, int64) error {
			close(done)
			return nil
		}).Times(1)

	mart := New(ctx, cfg, storeMock, RemoteSync(crmMock))
	_, err := mart.CreateOrder(ctx, 5, CreateOrderRequest{
		Items:        []CartItem{{ProductID: int64(sochi.ID), Quantity: 1}},
		PayWithBonus: true,
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("order was not synced")
	}
	cancel()
	mart.Wait()
}

func TestBonusmart_RemoteSyncNotCalledOnFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testConfig()
	cfg.SyncEnabled = true

	storeMock := store.NewMockStore(ctrl)
	crmMock := crmmock.NewMockLeadCreator(ctrl)
	storeMock.EXPECT().GetProduct(gomock.Any(), sochi.ID).Return(sochi, nil).Times(1)
	storeMock.EXPECT().SettleOrder(gomock.Any(), gomock.Any()).Return(model.Order{}, errstore.ErrBalanceNotEnough).Times(1)

	mart := New(ctx, cfg, storeMock, RemoteSync(crmMock))
	_, err := mart.CreateOrder(ctx, 5, CreateOrderRequest{
		Items:        []CartItem{{ProductID: int64(sochi.ID), Quantity: 1}},
		PayWithBonus: true,
	})
	assert.ErrorIs(t, err, errstore.ErrBalanceNotEnough)
	assert.Empty(t, mart.syncCh)

	cancel()
	mart.Wait()
}

func TestBonusmart_EnqueueDropsWhenFull(t *testing.T) {
	mart := &Bonusmart{log: zap.NewNop(), syncCh: make(chan uint, 1)}
	mart.enqueueRemoteSync(1)
	mart.enqueueRemoteSync(2)
	assert.Len(t, mart.syncCh, 1)
	assert.Equal(t, uint(1), <-mart.syncCh)
}

func TestBuildLead_WithoutMoney(t *testing.T) {
	lead := buildLead(model.Order{ID: 3, TotalBonus: 3000, Items: []model.OrderItem{{ProductID: 2, Quantity: 1}}})
	assert.Equal(t, "Заказ #3", lead.Name)
	assert.Equal(t, int64(0), lead.Price)
	assert.Equal(t, "ID 2 x 1", lead.Fields[1].Value)
	assert.Equal(t, int64(3000), lead.Fields[2].Value)
}

func TestCircuitBreaker(t *testing.T) {
	now := time.Unix(1000, 0)
	cb := newCircuitBreaker(10 * time.Second)
	cb.now = func() time.Time { return now }

	calls := 0
	ok := func() (time.Duration, error) { calls++; return 0, nil }
	fail := func() (time.Duration, error) { calls++; return 0, errors.New("boom") }
	throttled := func() (time.Duration, error) { calls++; return 30 * time.Second, errors.New("429") }

	require.NoError(t, cb.execute(ok))
	assert.Error(t, cb.execute(fail))
	assert.ErrorIs(t, cb.execute(ok), errServiceUnavailable)
	assert.Equal(t, 2, calls)

	now = now.Add(11 * time.Second)
	require.NoError(t, cb.execute(ok))
	assert.Equal(t, cbClose, cb.state)

	assert.Error(t, cb.execute(throttled))
	now = now.Add(11 * time.Second)
	assert.ErrorIs(t, cb.execute(ok), errServiceUnavailable)
	now = now.Add(20 * time.Second)
	require.NoError(t, cb.execute(ok))
	assert.Equal(t, 5, calls)

	rejected := func() (time.Duration, error) { calls++; return 0, errors.Join(errRejected, errors.New("400")) }
	assert.ErrorIs(t, cb.execute(rejected), errRejected)
	assert.Equal(t, cbClose, cb.state)
	require.NoError(t, cb.execute(ok))
	assert.Equal(t, 7, calls)
}

func TestBonusmart_SendOrderToCRM(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mart := New(ctx, testConfig(), store.NewMockStore(ctrl))
		_, err := mart.SendOrderToCRM(ctx, 1)
		assert.ErrorIs(t, err, ErrRemoteSyncDisabled)
	})

	t.Run("already linked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		storeMock := store.NewMockStore(ctrl)
		crmMock := crmmock.NewMockLeadCreator(ctrl)
		storeMock.EXPECT().GetOrder(gomock.Any(), uint(4)).Return(model.Order{ID: 4, RemoteLeadID: ptr(int64(90))}, nil)

		mart := New(ctx, testConfig(), storeMock, RemoteSync(crmMock))
		leadID, err := mart.SendOrderToCRM(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(90), leadID)
	})

	t.Run("throttled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		storeMock := store.NewMockStore(ctrl)
		crmMock := crmmock.NewMockLeadCreator(ctrl)
		storeMock.EXPECT().GetOrder(gomock.Any(), uint(4)).Return(model.Order{ID: 4}, nil).Times(2)
		crmMock.EXPECT().CreateLead(gomock.Any(), gomock.Any()).
			Return(int64(0), &crm.StatusError{StatusCode: 429, RetryAfter: time.Minute}).Times(1)

		mart := New(ctx, testConfig(), storeMock, RemoteSync(crmMock))
		_, err := mart.SendOrderToCRM(ctx, 4)
		var statusErr *crm.StatusError
		assert.ErrorAs(t, err, &statusErr)

		_, err = mart.SendOrderToCRM(ctx, 4)
		assert.ErrorIs(t, err, ErrRemoteSyncUnavailable)
	})

	t.Run("bad lead keeps crm available", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		storeMock := store.NewMockStore(ctrl)
		crmMock := crmmock.NewMockLeadCreator(ctrl)
		storeMock.EXPECT().GetOrder(gomock.Any(), uint(4)).Return(model.Order{ID: 4}, nil)
		storeMock.EXPECT().GetOrder(gomock.Any(), uint(5)).Return(model.Order{ID: 5}, nil)
		storeMock.EXPECT().SetRemoteLeadID(gomock.Any(), uint(5), int64(77)).Return(nil)
		gomock.InOrder(
			crmMock.EXPECT().CreateLead(gomock.Any(), gomock.Any()).
				Return(int64(0), &crm.StatusError{StatusCode: 400, Body: "bad field"}),
			crmMock.EXPECT().CreateLead(gomock.Any(), gomock.Any()).Return(int64(77), nil),
		)

		mart := New(ctx, testConfig(), storeMock, RemoteSync(crmMock))
		_, err := mart.SendOrderToCRM(ctx, 4)
		var statusErr *crm.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.NotErrorIs(t, err, ErrRemoteSyncUnavailable)

		leadID, err := mart.SendOrderToCRM(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(77), leadID)
	})
}
