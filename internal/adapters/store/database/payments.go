package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/playmixer/bonusmart/internal/adapters/store/errstore"
	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var openOrderStatuses = []model.OrderStatus{model.OrderStatusNew, model.OrderStatusPendingPayment}

func (s *Store) GetPaymentEvent(ctx context.Context, externalEventID string) (model.ExternalPaymentRecord, error) {
	record := model.ExternalPaymentRecord{}
	err := s.db.WithContext(ctx).Where("external_event_id = ?", externalEventID).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record, errors.Join(errstore.ErrNotFoundData, err)
		}
		return record, fmt.Errorf("failed get payment event: %w", err)
	}

	return record, nil
}

// RegisterPaymentEvent inserts the record unless one with the same external
// id exists, and returns whichever row is stored.
func (s *Store) RegisterPaymentEvent(ctx context.Context, record model.ExternalPaymentRecord) (model.ExternalPaymentRecord, error) {
	if record.Status == "" {
		record.Status = model.PaymentRecordReceived
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "external_event_id"}}, DoNothing: true}).
		Create(&record).Error
	if err != nil {
		return record, fmt.Errorf("failed save payment event: %w", err)
	}

	return s.GetPaymentEvent(ctx, record.ExternalEventID)
}

// FindOpenOrderByRemoteLead returns the most recent new or pending order
// linked to the CRM lead.
func (s *Store) FindOpenOrderByRemoteLead(ctx context.Context, leadID int64) (model.Order, error) {
	order := model.Order{}
	err := s.db.WithContext(ctx).
		Where("remote_lead_id = ? AND status IN ?", leadID, openOrderStatuses).
		Order("created_at desc, id desc").
		Take(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order, errors.Join(errstore.ErrNotFoundData, err)
		}
		return order, fmt.Errorf("failed find open order: %w", err)
	}

	return order, nil
}

// ApplyPaymentEvent applies the event to its order and marks the record
// processed in one transaction. A record processed concurrently yields
// errstore.ErrEventProcessed.
func (s *Store) ApplyPaymentEvent(ctx context.Context, recordID uint, apply model.PaymentApplication) error {
	err := s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		record := model.ExternalPaymentRecord{}
		if err := forUpdate(tx).Where("id = ?", recordID).Take(&record).Error; err != nil {
			return fmt.Errorf("failed select payment event `%d`: %w", recordID, err)
		}
		if record.Status == model.PaymentRecordProcessed {
			return errstore.ErrEventProcessed
		}

		if apply.OrderID != nil && apply.MarkPaid {
			order := model.Order{}
			if err := forUpdate(tx).Where("id = ?", *apply.OrderID).Take(&order).Error; err != nil {
				return fmt.Errorf("failed select order `%d`: %w", *apply.OrderID, err)
			}
			updates := map[string]interface{}{}
			if order.Status == model.OrderStatusNew || order.Status == model.OrderStatusPendingPayment {
				updates["status"] = model.OrderStatusPaid
			}
			if !order.TotalMoney.Valid && apply.Amount.Valid {
				updates["total_money"] = apply.Amount
			}
			if len(updates) > 0 {
				if err := tx.Model(&order).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed update order `%d`: %w", order.ID, err)
				}
			}
		}

		err := tx.Model(&record).Updates(map[string]interface{}{
			"status":        model.PaymentRecordProcessed,
			"order_id":      apply.OrderID,
			"error_message": "",
		}).Error
		if err != nil {
			return fmt.Errorf("failed mark payment event processed: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed apply payment event: %w", err)
	}

	return nil
}

// MarkPaymentEventError moves a not yet processed record to error.
func (s *Store) MarkPaymentEventError(ctx context.Context, recordID uint, message string) error {
	err := s.db.WithContext(ctx).Model(&model.ExternalPaymentRecord{}).
		Where("id = ? AND status <> ?", recordID, model.PaymentRecordProcessed).
		Updates(map[string]interface{}{
			"status":        model.PaymentRecordError,
			"error_message": message,
		}).Error
	if err != nil {
		return fmt.Errorf("failed mark payment event error: %w", err)
	}

	return nil
}
