package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmixer/bonusmart/internal/adapters/store/errstore"
	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	"github.com/playmixer/bonusmart/internal/core/bonusmart"
)

type fakeReader struct {
	msgs      chan kafka.Message
	mu        sync.Mutex
	committed []int64
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.msgs <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case m := <-r.msgs:
		return m, nil
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type balanceCall struct {
	eventID string
	txType  model.TransactionType
	userID  uint
	delta   int64
}

type fakeService struct {
	mu          sync.Mutex
	events      []bonusmart.PaymentEvent
	balances    []balanceCall
	outcome     bonusmart.Outcome
	paymentErrs []error
	balanceErr  error
}

func (s *fakeService) HandlePaymentEvent(_ context.Context, event bonusmart.PaymentEvent) (bonusmart.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.paymentErrs) > 0 {
		err := s.paymentErrs[0]
		s.paymentErrs = s.paymentErrs[1:]
		if err != nil {
			return bonusmart.OutcomeError, err
		}
	}
	return s.outcome, nil
}

func (s *fakeService) ApplyBalanceEvent(
	_ context.Context,
	eventID string,
	userID uint,
	delta int64,
	txType model.TransactionType,
	_ string,
	_ bool,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = append(s.balances, balanceCall{eventID: eventID, userID: userID, delta: delta, txType: txType})
	return 100, s.balanceErr
}

func testConfig() *Config {
	return &Config{RetryDelay: time.Millisecond, MaxAttempts: 3}
}

func waitCommits(t *testing.T, r *fakeReader, n int) {
	t.Helper()
	assert.Eventually(t, func() bool { return len(r.commits()) >= n }, time.Second, 5*time.Millisecond)
}

func TestConsumer_Payments(t *testing.T) {
	reader := newFakeReader(
		kafka.Message{Offset: 1, Value: []byte(`{"account_id":1,"event":"add","transaction":{"id":5,"customer_id":9,"price":100}}`)},
		kafka.Message{Offset: 2, Value: []byte(`not json`)},
	)
	service := &fakeService{outcome: bonusmart.OutcomeOK}

	ctx, cancel := context.WithCancel(context.Background())
	consumer := New(testConfig(), service, PaymentsReader(reader))
	consumer.Run(ctx)

	waitCommits(t, reader, 2)
	cancel()
	require.NoError(t, consumer.Close())

	assert.Equal(t, []int64{1, 2}, reader.commits())
	require.Len(t, service.events, 1)
	assert.Equal(t, "add:5", service.events[0].ExternalID())
	assert.True(t, reader.closed)
}

func TestConsumer_PaymentsRetryTransient(t *testing.T) {
	reader := newFakeReader(
		kafka.Message{Offset: 7, Value: []byte(`{"account_id":1,"event":"add","transaction":{"id":5,"customer_id":9}}`)},
	)
	service := &fakeService{
		outcome:     bonusmart.OutcomeOK,
		paymentErrs: []error{errstore.ErrTransient, nil},
	}

	ctx, cancel := context.WithCancel(context.Background())
	consumer := New(testConfig(), service, PaymentsReader(reader))
	consumer.Run(ctx)

	waitCommits(t, reader, 1)
	cancel()
	require.NoError(t, consumer.Close())

	assert.Len(t, service.events, 2)
	assert.Equal(t, []int64{7}, reader.commits())
}

func TestConsumer_BalanceLimitsAttempts(t *testing.T) {
	reader := newFakeReader(
		kafka.Message{Topic: "bonusmart.balance", Partition: 1, Offset: 3, Value: []byte(`{"user_id":4,"delta":25,"type":"game_click"}`)},
	)
	service := &fakeService{balanceErr: errstore.ErrTransient}

	ctx, cancel := context.WithCancel(context.Background())
	consumer := New(testConfig(), service, BalanceReader(reader))
	consumer.Run(ctx)

	waitCommits(t, reader, 1)
	cancel()
	require.NoError(t, consumer.Close())

	require.Len(t, service.balances, 3)
	want := balanceCall{eventID: "kafka:bonusmart.balance/1/3", userID: 4, delta: 25, txType: model.TransactionGameClick}
	for _, call := range service.balances {
		assert.Equal(t, want, call)
	}
}

func TestConsumer_handleBalance(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		value     string
		eventID   string
		err       error
		wantRetry bool
		wantErr   bool
	}{
		{name: "applied", value: `{"user_id":1,"delta":10,"type":"referral"}`, eventID: "kafka:bonusmart.balance/0/9"},
		{name: "bad json", value: `{`, wantErr: true},
		{name: "not enough", value: `{"user_id":1,"delta":-10,"type":"other"}`, err: errstore.ErrBalanceNotEnough, wantErr: true},
		{name: "transient", value: `{"user_id":1,"delta":10,"type":"other"}`, err: errstore.ErrTransient, wantErr: true, wantRetry: true},
		{name: "already applied", value: `{"event_id":"bonus-42","user_id":1,"delta":10,"type":"referral"}`, err: errstore.ErrBalanceEventUsed, eventID: "bonus-42"},
		{name: "producer key", value: `{"event_id":"bonus-43","user_id":1,"delta":10,"type":"referral"}`, eventID: "bonus-43"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeService{balanceErr: tt.err}
			c := New(testConfig(), service)
			err := c.handleBalance(ctx, kafka.Message{Topic: "bonusmart.balance", Offset: 9, Value: []byte(tt.value)})
			if tt.eventID != "" {
				require.Len(t, service.balances, 1)
				assert.Equal(t, tt.eventID, service.balances[0].eventID)
			}
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.wantRetry, errors.Is(err, errRetry))
		})
	}
}

func TestConfig_Enabled(t *testing.T) {
	var cfg *Config
	assert.False(t, cfg.Enabled())
	assert.False(t, (&Config{}).Enabled())
	assert.True(t, (&Config{Brokers: []string{"localhost:9092"}}).Enabled())
}
