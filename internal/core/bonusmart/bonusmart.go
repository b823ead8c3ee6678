package bonusmart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playmixer/bonusmart/internal/adapters/crm"
	"github.com/playmixer/bonusmart/internal/adapters/metrics"
	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	"github.com/playmixer/bonusmart/internal/core/loyalty"
	"go.uber.org/zap"
)

type Store interface {
	GetBalance(ctx context.Context, userID uint) (int64, error)
	ChangeBalance(
		ctx context.Context,
		userID uint,
		delta int64,
		txType model.TransactionType,
		description string,
		allowNegative bool,
	) (model.BalanceTransaction, error)
	ChangeBalanceOnce(
		ctx context.Context,
		eventID string,
		userID uint,
		delta int64,
		txType model.TransactionType,
		description string,
		allowNegative bool,
	) (model.BalanceTransaction, error)
	GetTransactions(ctx context.Context, userID uint, limit int) ([]model.BalanceTransaction, error)
	AuditBalances(ctx context.Context) ([]model.BalanceDrift, error)
	GetProduct(ctx context.Context, productID uint) (model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	SettleOrder(ctx context.Context, settlement model.Settlement) (model.Order, error)
	GetOrder(ctx context.Context, orderID uint) (model.Order, error)
	GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error)
	SetRemoteLeadID(ctx context.Context, orderID uint, leadID int64) error
	GetPaymentEvent(ctx context.Context, externalEventID string) (model.ExternalPaymentRecord, error)
	RegisterPaymentEvent(ctx context.Context, record model.ExternalPaymentRecord) (model.ExternalPaymentRecord, error)
	FindOpenOrderByRemoteLead(ctx context.Context, leadID int64) (model.Order, error)
	ApplyPaymentEvent(ctx context.Context, recordID uint, apply model.PaymentApplication) error
	MarkPaymentEventError(ctx context.Context, recordID uint, message string) error
}

type Config struct {
	LoyaltyRulesPath  string        `env:"LOYALTY_RULES_PATH"`
	SyncEnabled       bool          `env:"REMOTE_SYNC_ENABLED" envDefault:"true"`
	SyncWorkers       int           `env:"REMOTE_SYNC_WORKERS" envDefault:"5"`
	SyncQueueSize     int           `env:"REMOTE_SYNC_QUEUE" envDefault:"100"`
	SyncTimeout       time.Duration `env:"REMOTE_SYNC_TIMEOUT" envDefault:"30s"`
	SyncCooldown      time.Duration `env:"REMOTE_SYNC_COOLDOWN" envDefault:"10s"`
	TransactionsLimit int           `env:"TRANSACTIONS_LIMIT" envDefault:"50"`
}

type Bonusmart struct {
	log     *zap.Logger
	cfg     *Config
	store   Store
	rules   loyalty.Resolver
	crm     crm.LeadCreator
	metrics *metrics.Metrics
	breaker *circuitBreaker
	syncCh  chan uint
	wg      *sync.WaitGroup
}

type Option func(*Bonusmart)

func Logger(log *zap.Logger) Option {
	return func(b *Bonusmart) {
		b.log = log
	}
}

// Rules replaces the embedded loyalty table.
func Rules(rules loyalty.Resolver) Option {
	return func(b *Bonusmart) {
		b.rules = rules
	}
}

// RemoteSync sets the CRM client settled orders are pushed to.
func RemoteSync(client crm.LeadCreator) Option {
	return func(b *Bonusmart) {
		b.crm = client
	}
}

func Metrics(m *metrics.Metrics) Option {
	return func(b *Bonusmart) {
		b.metrics = m
	}
}

// New builds the service and starts the CRM sync workers, which stop when
// ctx is done.
func New(ctx context.Context, cfg *Config, store Store, options ...Option) *Bonusmart {
	b := &Bonusmart{
		log:   zap.NewNop(),
		cfg:   cfg,
		store: store,
		rules: loyalty.DefaultTable(),
		wg:    &sync.WaitGroup{},
	}

	for _, opt := range options {
		opt(b)
	}

	b.breaker = newCircuitBreaker(b.cfg.SyncCooldown)
	if b.cfg.SyncEnabled && b.crm != nil {
		b.syncCh = make(chan uint, max(b.cfg.SyncQueueSize, 1))
		for i := range max(b.cfg.SyncWorkers, 1) {
			b.wg.Add(1)
			go b.workerRemoteSync(ctx, i, b.syncCh)
		}
	}

	return b
}

func (b *Bonusmart) GetBalance(ctx context.Context, userID uint) (int64, error) {
	balance, err := b.store.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed getting balance by user: %w", err)
	}

	return balance, nil
}

var changeableTypes = map[model.TransactionType]struct{}{
	model.TransactionGameClick:     {},
	model.TransactionReferral:      {},
	model.TransactionShopPurchase:  {},
	model.TransactionAdminAdjust:   {},
	model.TransactionExternalBonus: {},
	model.TransactionOther:         {},
}

// ChangeBalance moves the user's balance by delta and returns the new
// amount.
func (b *Bonusmart) ChangeBalance(
	ctx context.Context,
	userID uint,
	delta int64,
	txType model.TransactionType,
	description string,
	allowNegative bool,
) (int64, error) {
	if err := validateBalanceChange(userID, delta, txType); err != nil {
		return 0, err
	}

	entry, err := b.store.ChangeBalance(ctx, userID, delta, txType, description, allowNegative)
	if err != nil {
		return 0, fmt.Errorf("failed change balance by user `%d`: %w", userID, err)
	}

	return entry.ResultingBalance, nil
}

// ApplyBalanceEvent changes the balance at most once per eventID. A replayed
// event returns the balance recorded by its first application together with
// errstore.ErrBalanceEventUsed.
func (b *Bonusmart) ApplyBalanceEvent(
	ctx context.Context,
	eventID string,
	userID uint,
	delta int64,
	txType model.TransactionType,
	description string,
	allowNegative bool,
) (int64, error) {
	if eventID == "" {
		return 0, fmt.Errorf("%w: empty event id", ErrInvalidBalanceChange)
	}
	if err := validateBalanceChange(userID, delta, txType); err != nil {
		return 0, err
	}

	entry, err := b.store.ChangeBalanceOnce(ctx, eventID, userID, delta, txType, description, allowNegative)
	if err != nil {
		return entry.ResultingBalance, fmt.Errorf("failed apply balance event `%s`: %w", eventID, err)
	}

	return entry.ResultingBalance, nil
}

func validateBalanceChange(userID uint, delta int64, txType model.TransactionType) error {
	if userID == 0 {
		return fmt.Errorf("%w: empty user", ErrInvalidBalanceChange)
	}
	if delta == 0 {
		return fmt.Errorf("%w: zero delta", ErrInvalidBalanceChange)
	}
	if _, ok := changeableTypes[txType]; !ok {
		return fmt.Errorf("%w: unknown type `%s`", ErrInvalidBalanceChange, txType)
	}
	return nil
}

func (b *Bonusmart) GetTransactions(ctx context.Context, userID uint) ([]model.BalanceTransaction, error) {
	txs, err := b.store.GetTransactions(ctx, userID, b.cfg.TransactionsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed getting transactions by user: %w", err)
	}

	return txs, nil
}

func (b *Bonusmart) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := b.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed getting products: %w", err)
	}

	return products, nil
}

func (b *Bonusmart) GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	orders, err := b.store.GetUserOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed getting order by user: %w", err)
	}

	return orders, nil
}

// AuditBalances replays the ledger and logs every user whose stored balance
// disagrees with it.
func (b *Bonusmart) AuditBalances(ctx context.Context) ([]model.BalanceDrift, error) {
	drifts, err := b.store.AuditBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed audit balances: %w", err)
	}

	for _, d := range drifts {
		b.log.Error("balance drift",
			zap.Uint("userID", d.UserID),
			zap.Int64("stored", d.Stored),
			zap.Int64("replayed", d.Replayed),
			zap.Uint("brokenAtTxID", d.BrokenAtTxID),
		)
	}
	b.metrics.BalanceDrifts(len(drifts))

	return drifts, nil
}

// Wait blocks until the sync workers have stopped.
func (b *Bonusmart) Wait() {
	b.wg.Wait()
}
