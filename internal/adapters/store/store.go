package store

import (
	"context"
	"fmt"

	"github.com/playmixer/bonusmart/internal/adapters/locker"
	"github.com/playmixer/bonusmart/internal/adapters/store/database"
	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	"go.uber.org/zap"
)

type Config struct {
	Database *database.Config
	Locker   *locker.Config
}

//go:generate mockgen -source=store.go -destination=../../mocks/store/store.go -package=store
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

	CloseDB() error
}

func New(ctx context.Context, cfg *Config, log *zap.Logger) (Store, error) {
	lock, err := locker.New(ctx, cfg.Locker, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create locker: %w", err)
	}

	s, err := database.New(ctx, cfg.Database, database.Logger(log), database.Locker(lock))
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	return s, nil
}
