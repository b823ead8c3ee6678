package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/playmixer/bonusmart/internal/adapters/store/errstore"
	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	"gorm.io/gorm"
)

// GetBalance reads without locking. A user without a balance row has zero.
func (s *Store) GetBalance(ctx context.Context, userID uint) (int64, error) {
	balance := model.Balance{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed get balance: %w", err)
	}

	return balance.Amount, nil
}

// ChangeBalance applies delta and appends the matching transaction row in
// one commit. It fails with errstore.ErrBalanceNotEnough when the result
// would be negative and allowNegative is false.
func (s *Store) ChangeBalance(
	ctx context.Context,
	userID uint,
	delta int64,
	txType model.TransactionType,
	description string,
	allowNegative bool,
) (model.BalanceTransaction, error) {
	return s.changeBalance(ctx, nil, userID, delta, txType, description, allowNegative)
}

// ChangeBalanceOnce is ChangeBalance keyed by eventID. A repeated eventID
// changes nothing and returns the stored entry with
// errstore.ErrBalanceEventUsed.
func (s *Store) ChangeBalanceOnce(
	ctx context.Context,
	eventID string,
	userID uint,
	delta int64,
	txType model.TransactionType,
	description string,
	allowNegative bool,
) (model.BalanceTransaction, error) {
	if eventID == "" {
		return model.BalanceTransaction{}, fmt.Errorf("failed change balance: %w", errstore.ErrInvalidBalanceEvent)
	}
	return s.changeBalance(ctx, &eventID, userID, delta, txType, description, allowNegative)
}

func (s *Store) changeBalance(
	ctx context.Context,
	eventID *string,
	userID uint,
	delta int64,
	txType model.TransactionType,
	description string,
	allowNegative bool,
) (model.BalanceTransaction, error) {
	var entry model.BalanceTransaction
	err := s.withUserTx(ctx, userID, func(tx *gorm.DB) error {
		var err error
		entry, err = applyDelta(tx, eventID, userID, delta, txType, description, allowNegative)
		return err
	})
	if err != nil {
		return entry, fmt.Errorf("failed change balance: %w", err)
	}

	return entry, nil
}

func lockBalance(tx *gorm.DB, userID uint) (model.Balance, error) {
	balance := model.Balance{}
	err := forUpdate(tx).Where("user_id = ?", userID).Take(&balance).Error
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return balance, fmt.Errorf("failed select balance: %w", err)
	}

	balance = model.Balance{UserID: userID}
	if err := tx.Create(&balance).Error; err != nil {
		return balance, fmt.Errorf("failed create balance: %w", err)
	}

	return balance, nil
}

func applyDelta(
	tx *gorm.DB,
	eventID *string,
	userID uint,
	delta int64,
	txType model.TransactionType,
	description string,
	allowNegative bool,
) (model.BalanceTransaction, error) {
	entry := model.BalanceTransaction{}
	balance, err := lockBalance(tx, userID)
	if err != nil {
		return entry, err
	}

	if eventID != nil {
		err := tx.Where("event_id = ?", *eventID).Take(&entry).Error
		if err == nil {
			return entry, fmt.Errorf("%w: `%s`", errstore.ErrBalanceEventUsed, *eventID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return entry, fmt.Errorf("failed select balance event: %w", err)
		}
	}

	amount := balance.Amount + delta
	if amount < 0 && !allowNegative {
		return entry, fmt.Errorf("%w: current %d, delta %d", errstore.ErrBalanceNotEnough, balance.Amount, delta)
	}

	if err := tx.Model(&balance).Update("amount", amount).Error; err != nil {
		return entry, fmt.Errorf("failed update balance by user `%d`: %w", userID, err)
	}

	entry = model.BalanceTransaction{
		EventID:          eventID,
		UserID:           userID,
		Delta:            delta,
		ResultingBalance: amount,
		Type:             txType,
		Description:      description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return entry, fmt.Errorf("failed save balance transaction: %w", err)
	}

	return entry, nil
}

// GetTransactions returns the newest entries first.
func (s *Store) GetTransactions(ctx context.Context, userID uint, limit int) ([]model.BalanceTransaction, error) {
	txs := []model.BalanceTransaction{}
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed get transactions: %w", err)
	}

	return txs, nil
}

// AuditBalances replays every user's log and returns the users whose stored
// amount or resulting_balance chain disagrees with the replay.
func (s *Store) AuditBalances(ctx context.Context) ([]model.BalanceDrift, error) {
	balances := []model.Balance{}
	db := s.db.WithContext(ctx)
	if err := db.Order("user_id").Find(&balances).Error; err != nil {
		return nil, fmt.Errorf("failed get balances: %w", err)
	}

	drifts := []model.BalanceDrift{}
	for _, balance := range balances {
		txs := []model.BalanceTransaction{}
		if err := db.Where("user_id = ?", balance.UserID).Order("id").Find(&txs).Error; err != nil {
			return nil, fmt.Errorf("failed get transactions by user `%d`: %w", balance.UserID, err)
		}

		drift := model.BalanceDrift{UserID: balance.UserID, Stored: balance.Amount}
		for _, t := range txs {
			drift.Replayed += t.Delta
			if drift.BrokenAtTxID == 0 && t.ResultingBalance != drift.Replayed {
				drift.BrokenAtTxID = t.ID
			}
		}
		if drift.Replayed != drift.Stored || drift.BrokenAtTxID != 0 {
			drifts = append(drifts, drift)
		}
	}

	return drifts, nil
}
