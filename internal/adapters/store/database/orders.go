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

func (s *Store) GetProduct(ctx context.Context, productID uint) (model.Product, error) {
	product := model.Product{}
	if err := s.db.WithContext(ctx).Where("id = ?", productID).Take(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return product, fmt.Errorf("product `%d`: %w", productID, errors.Join(errstore.ErrNotFoundData, err))
		}
		return product, fmt.Errorf("failed get product: %w", err)
	}
	if !product.IsActive {
		return product, fmt.Errorf("product `%d`: %w", productID, errors.Join(errstore.ErrNotFoundData, errstore.ErrProductNotActive))
	}

	return product, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed get products: %w", err)
	}

	return products, nil
}

func (s *Store) CreateProduct(ctx context.Context, product *model.Product) error {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed create product: %w", err)
	}
	return nil
}

// SettleOrder inserts the order with its items and applies the write-off and
// the accrual as one unit under the user's lock. Insufficient balance leaves
// nothing behind.
func (s *Store) SettleOrder(ctx context.Context, settlement model.Settlement) (model.Order, error) {
	if settlement.Writeoff < 0 || settlement.Accrual < 0 || len(settlement.Order.Items) == 0 {
		return model.Order{}, errstore.ErrInvalidSettlement
	}

	var order model.Order
	userID := settlement.Order.UserID
	err := s.withUserTx(ctx, userID, func(tx *gorm.DB) error {
		order = settlement.Order
		order.Items = make([]model.OrderItem, len(settlement.Order.Items))
		copy(order.Items, settlement.Order.Items)

		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return fmt.Errorf("failed create order: %w", err)
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		if err := tx.Omit("Product").Create(&order.Items).Error; err != nil {
			return fmt.Errorf("failed create order items: %w", err)
		}

		if settlement.Writeoff > 0 {
			_, err := applyDelta(tx, nil, userID, -settlement.Writeoff, model.TransactionShopPurchase,
				fmt.Sprintf("order #%d write-off", order.ID), false)
			if err != nil {
				return err
			}
		}
		if settlement.Accrual > 0 {
			_, err := applyDelta(tx, nil, userID, settlement.Accrual, model.TransactionShopPurchase,
				fmt.Sprintf("order #%d accrual", order.ID), false)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return model.Order{}, fmt.Errorf("failed settle order: %w", err)
	}

	return order, nil
}

func (s *Store) GetOrder(ctx context.Context, orderID uint) (model.Order, error) {
	order := model.Order{}
	err := s.db.WithContext(ctx).Preload("Items.Product").Where("id = ?", orderID).Take(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order, errors.Join(errstore.ErrNotFoundData, err)
		}
		return order, fmt.Errorf("failed get order: %w", err)
	}

	return order, nil
}

func (s *Store) GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	orders := []model.Order{}
	err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed get orders: %w", err)
	}

	return orders, nil
}

func (s *Store) SetRemoteLeadID(ctx context.Context, orderID uint, leadID int64) error {
	result := s.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", orderID).Update("remote_lead_id", leadID)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed update order id=`%d`: %w", orderID, err)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order id=`%d`: %w", orderID, errstore.ErrNotFoundData)
	}

	return nil
}
