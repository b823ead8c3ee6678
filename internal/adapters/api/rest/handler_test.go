package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/playmixer/bonusmart/internal/adapters/api/rest"
	"github.com/playmixer/bonusmart/internal/adapters/metrics"
	"github.com/playmixer/bonusmart/internal/adapters/store/errstore"
	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	"github.com/playmixer/bonusmart/internal/core/bonusmart"
	"github.com/playmixer/bonusmart/internal/mocks/store"
	"github.com/playmixer/bonusmart/pkg/jwt"
)

var (
	cookieKey = "UserID"
	secret    = []byte("test_secret")

	sochi = model.Product{
		ID:         1,
		Name:       "Смена Сочи",
		Category:   "camp_sochi",
		PriceMoney: decimal.NewNullDecimal(decimal.NewFromInt(100000)),
		IsActive:   true,
	}
)

func newServer(t *testing.T, storeMock *store.MockStore) http.Handler {
	t.Helper()
	ctx := context.Background()
	mart := bonusmart.New(ctx, &bonusmart.Config{TransactionsLimit: 50}, storeMock)
	server, err := rest.New(mart,
		rest.SetSecretKey(secret),
		rest.Metrics(metrics.New(prometheus.NewRegistry())),
	)
	require.NoError(t, err)
	return server.Engine()
}

func authorize(t *testing.T, r *http.Request, userID uint) {
	t.Helper()
	signedCookie, err := jwt.New(secret).Create(cookieKey, strconv.Itoa(int(userID)))
	require.NoError(t, err)
	r.AddCookie(&http.Cookie{
		Name:  "token",
		Value: signedCookie,
		Path:  "/",
	})
}

func TestServer_handlerCreateOrder(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		unauth    bool
		getErr    error
		settleErr error
		settles   bool
		status    int
	}{
		{
			name:    "created",
			body:    `{"items":[{"item_id":1,"quantity":1}],"pay_with_bonus":true}`,
			settles: true,
			status:  http.StatusCreated,
		},
		{
			name:   "unauthorize",
			body:   `{"items":[{"item_id":1,"quantity":1}]}`,
			unauth: true,
			status: http.StatusUnauthorized,
		},
		{
			name:   "bad json",
			body:   `{"items":`,
			status: http.StatusBadRequest,
		},
		{
			name:   "empty cart",
			body:   `{"items":[]}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "two products",
			body:   `{"items":[{"item_id":1,"quantity":1},{"item_id":2,"quantity":1}]}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown product",
			body:   `{"items":[{"item_id":1,"quantity":1}]}`,
			getErr: errstore.ErrNotFoundData,
			status: http.StatusNotFound,
		},
		{
			name:      "not enough balance",
			body:      `{"items":[{"item_id":1,"quantity":1}]}`,
			settles:   true,
			settleErr: errstore.ErrBalanceNotEnough,
			status:    http.StatusPaymentRequired,
		},
		{
			name:      "transient",
			body:      `{"items":[{"item_id":1,"quantity":1}]}`,
			settles:   true,
			settleErr: errstore.ErrTransient,
			status:    http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			storeMock := store.NewMockStore(ctrl)
			if tt.settles || tt.getErr != nil {
				product := sochi
				if tt.getErr != nil {
					product = model.Product{}
				}
				storeMock.EXPECT().GetProduct(gomock.Any(), uint(1)).Return(product, tt.getErr).Times(1)
			}
			if tt.settles {
				storeMock.EXPECT().SettleOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, s model.Settlement) (model.Order, error) {
						if tt.settleErr != nil {
							return model.Order{}, tt.settleErr
						}
						order := s.Order
						order.ID = 12
						order.CreatedAt = time.Now()
						return order, nil
					}).Times(1)
			}

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/shop/orders", strings.NewReader(tt.body))
			if !tt.unauth {
				authorize(t, r, 5)
			}
			newServer(t, storeMock).ServeHTTP(w, r)

			result := w.Result()
			defer func() { assert.NoError(t, result.Body.Close()) }()
			assert.Equal(t, tt.status, result.StatusCode)

			if tt.status != http.StatusCreated {
				return
			}
			order := map[string]any{}
			require.NoError(t, json.NewDecoder(result.Body).Decode(&order))
			assert.Equal(t, float64(12), order["id"])
			assert.Equal(t, float64(5000), order["total_bonus"])
			assert.Equal(t, float64(95000), order["total_money"])
			assert.Equal(t, "new", order["status"])
			assert.Equal(t, "mixed", order["payment_method"])
			assert.Equal(t, []any{map[string]any{"item_id": float64(1), "quantity": float64(1)}}, order["items"])
		})
	}
}

func TestServer_handlerPaymentWebhook(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		prepare func(m *store.MockStore)
		status  string
		message string
	}{
		{
			name:    "invalid json",
			body:    `{"event":`,
			prepare: func(m *store.MockStore) {},
			status:  "error",
		},
		{
			name:    "invalid payload",
			body:    `{"account_id":1,"event":"add","transaction":{"id":0,"customer_id":3}}`,
			prepare: func(m *store.MockStore) {},
			status:  "error",
			message: "Invalid webhook payload",
		},
		{
			name: "duplicate",
			body: `{"account_id":1,"event":"add","transaction":{"id":9,"customer_id":3,"price":100}}`,
			prepare: func(m *store.MockStore) {
				m.EXPECT().GetPaymentEvent(gomock.Any(), "add:9").
					Return(model.ExternalPaymentRecord{Status: model.PaymentRecordProcessed}, nil)
			},
			status:  "ok",
			message: "Duplicate event ignored",
		},
		{
			name: "processing failure",
			body: `{"account_id":1,"event":"add","transaction":{"id":9,"customer_id":3,"price":100}}`,
			prepare: func(m *store.MockStore) {
				m.EXPECT().GetPaymentEvent(gomock.Any(), "add:9").Return(model.ExternalPaymentRecord{}, errstore.ErrTransient)
			},
			status:  "error",
			message: "Failed to process transaction",
		},
		{
			name: "processed",
			body: `{"account_id":1,"event":"add","transaction":{"id":9,"customer_id":3,"price":100,"comment":null}}`,
			prepare: func(m *store.MockStore) {
				m.EXPECT().GetPaymentEvent(gomock.Any(), "add:9").Return(model.ExternalPaymentRecord{}, errstore.ErrNotFoundData)
				m.EXPECT().FindOpenOrderByRemoteLead(gomock.Any(), int64(3)).Return(model.Order{ID: 2}, nil)
				m.EXPECT().RegisterPaymentEvent(gomock.Any(), gomock.Any()).Return(model.ExternalPaymentRecord{ID: 1}, nil)
				m.EXPECT().ApplyPaymentEvent(gomock.Any(), uint(1), gomock.Any()).Return(nil)
			},
			status:  "ok",
			message: "Transaction processed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			storeMock := store.NewMockStore(ctrl)
			tt.prepare(storeMock)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/amocrm/webhooks/transaction", strings.NewReader(tt.body))
			newServer(t, storeMock).ServeHTTP(w, r)

			result := w.Result()
			defer func() { assert.NoError(t, result.Body.Close()) }()
			assert.Equal(t, http.StatusOK, result.StatusCode)

			body := map[string]string{}
			require.NoError(t, json.NewDecoder(result.Body).Decode(&body))
			assert.Equal(t, tt.status, body["status"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
		})
	}
}

func TestServer_handlerUserBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := store.NewMockStore(ctrl)
	storeMock.EXPECT().GetBalance(gomock.Any(), uint(7)).Return(int64(1500), nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/user/balance", http.NoBody)
	signed, err := jwt.New(secret).Create(cookieKey, "7")
	require.NoError(t, err)
	r.Header.Set("Authorization", "Bearer "+signed)
	newServer(t, storeMock).ServeHTTP(w, r)

	result := w.Result()
	defer func() { assert.NoError(t, result.Body.Close()) }()
	assert.Equal(t, http.StatusOK, result.StatusCode)
	body, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"balance":1500}`, string(body))
}

func TestServer_handlerUserTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	storeMock := store.NewMockStore(ctrl)
	storeMock.EXPECT().GetTransactions(gomock.Any(), uint(5), 50).Return([]model.BalanceTransaction{
		{ID: 2, Delta: -5000, ResultingBalance: 0, Type: model.TransactionShopPurchase, Description: "order #1 write-off", CreatedAt: created},
	}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/user/transactions", http.NoBody)
	authorize(t, r, 5)
	newServer(t, storeMock).ServeHTTP(w, r)

	result := w.Result()
	defer func() { assert.NoError(t, result.Body.Close()) }()
	assert.Equal(t, http.StatusOK, result.StatusCode)
	body, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2,"delta":-5000,"resulting_balance":0,"type":"shop_purchase",
		"description":"order #1 write-off","created_at":"2024-05-01T10:00:00Z"}]`, string(body))
}

func TestServer_handlerShopItemsGzip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := store.NewMockStore(ctrl)
	storeMock.EXPECT().ListProducts(gomock.Any()).Return([]model.Product{sochi, {ID: 2, Name: "Худи", PriceBonus: 3000}}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/shop/items", http.NoBody)
	r.Header.Set("Accept-Encoding", "gzip")
	newServer(t, storeMock).ServeHTTP(w, r)

	result := w.Result()
	defer func() { assert.NoError(t, result.Body.Close()) }()
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "gzip", result.Header.Get("Content-Encoding"))

	gz, err := gzip.NewReader(result.Body)
	require.NoError(t, err)
	items := []map[string]any{}
	require.NoError(t, json.NewDecoder(gz).Decode(&items))
	require.Len(t, items, 2)
	assert.Equal(t, float64(100000), items[0]["price_money"])
	assert.Nil(t, items[1]["price_money"])
}

func TestServer_GzipRequestBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := store.NewMockStore(ctrl)

	buf := &bytes.Buffer{}
	gz := gzip.NewWriter(buf)
	_, err := gz.Write([]byte(`{"items":[]}`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/shop/orders", buf)
	r.Header.Set("Content-Encoding", "gzip")
	authorize(t, r, 5)
	newServer(t, storeMock).ServeHTTP(w, r)

	result := w.Result()
	defer func() { assert.NoError(t, result.Body.Close()) }()
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)
	body := map[string]string{}
	require.NoError(t, json.NewDecoder(result.Body).Decode(&body))
	assert.Contains(t, body["error"], bonusmart.ErrEmptyCart.Error())
}

func TestServer_handlerSendOrder(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "bad id", path: "/api/amocrm/orders/abc/send", status: http.StatusBadRequest},
		{name: "sync disabled", path: "/api/amocrm/orders/3/send", status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, tt.path, http.NoBody)
			authorize(t, r, 1)
			newServer(t, store.NewMockStore(ctrl)).ServeHTTP(w, r)

			result := w.Result()
			assert.Equal(t, tt.status, result.StatusCode)
			assert.NoError(t, result.Body.Close())
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newServer(t, store.NewMockStore(ctrl))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user/balance", http.NoBody))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `bonusmart_http_requests_total{method="GET",path="/api/user/balance",status="401"} 1`)
}
