package bonusmart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/playmixer/bonusmart/internal/adapters/store/errstore"
	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	"github.com/playmixer/bonusmart/internal/core/loyalty"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartItem struct {
	ProductID int64
	Quantity  int64
}

type CreateOrderRequest struct {
	CustomerName  string
	CustomerPhone string
	Items         []CartItem
	PayWithBonus  bool
}

type settlementPlan struct {
	totalMoney decimal.NullDecimal
	method     model.PaymentMethod
	writeoff   int64
	accrual    int64
}

// CreateOrder settles a one-product cart: it spends bonuses when asked,
// accrues the loyalty reward and stores the order in a single commit. The
// order is then handed to the CRM sync queue.
func (b *Bonusmart) CreateOrder(ctx context.Context, userID uint, req CreateOrderRequest) (model.Order, error) {
	line, err := singleLine(req.Items)
	if err != nil {
		return model.Order{}, err
	}

	product, err := b.store.GetProduct(ctx, uint(line.ProductID))
	if err != nil {
		if errors.Is(err, errstore.ErrNotFoundData) {
			return model.Order{}, fmt.Errorf("%w: %d", ErrProductNotFound, line.ProductID)
		}
		return model.Order{}, fmt.Errorf("failed getting product: %w", err)
	}

	if isTour(product.Category) && line.Quantity > 1 {
		return model.Order{}, fmt.Errorf("%w: quantity %d", ErrTourQuantity, line.Quantity)
	}

	var rule *loyalty.Rule
	if r, ok := b.rules.Resolve(loyalty.Product{Name: product.Name, Category: product.Category}); ok {
		rule = &r
	}

	plan, err := planSettlement(rule, product, line.Quantity, req.PayWithBonus)
	if err != nil {
		return model.Order{}, err
	}

	order, err := b.store.SettleOrder(ctx, model.Settlement{
		Order: model.Order{
			UserID:        userID,
			Status:        model.OrderStatusNew,
			TotalBonus:    plan.writeoff,
			TotalMoney:    plan.totalMoney,
			PaymentMethod: plan.method,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Items: []model.OrderItem{{
				ProductID:      product.ID,
				Quantity:       line.Quantity,
				UnitPriceBonus: product.PriceBonus,
				UnitPriceMoney: product.PriceMoney,
			}},
		},
		Writeoff: plan.writeoff,
		Accrual:  plan.accrual,
	})
	if err != nil {
		return model.Order{}, fmt.Errorf("failed create order: %w", err)
	}

	b.log.Info("order created",
		zap.Uint("orderID", order.ID),
		zap.Uint("userID", userID),
		zap.Int64("writeoff", plan.writeoff),
		zap.Int64("accrual", plan.accrual),
		zap.String("paymentMethod", string(plan.method)),
	)
	b.metrics.OrderCreated(string(plan.method), plan.writeoff, plan.accrual)
	b.enqueueRemoteSync(order.ID)

	return order, nil
}

// singleLine validates the cart and merges repeated lines of one product.
func singleLine(items []CartItem) (CartItem, error) {
	if len(items) == 0 {
		return CartItem{}, ErrEmptyCart
	}

	line := CartItem{}
	for _, item := range items {
		if item.ProductID <= 0 || item.Quantity <= 0 {
			return CartItem{}, fmt.Errorf("%w: id %d, quantity %d", ErrInvalidCartItem, item.ProductID, item.Quantity)
		}
		if line.ProductID != 0 && line.ProductID != item.ProductID {
			return CartItem{}, ErrMultipleItems
		}
		line.ProductID = item.ProductID
		line.Quantity += item.Quantity
	}

	return line, nil
}

func isTour(category string) bool {
	return strings.EqualFold(strings.TrimSpace(category), "tour")
}

func planSettlement(rule *loyalty.Rule, product model.Product, quantity int64, payWithBonus bool) (settlementPlan, error) {
	plan := settlementPlan{}
	if payWithBonus && rule == nil {
		return plan, fmt.Errorf("%w: %d", ErrBonusNotAllowed, product.ID)
	}

	qty := decimal.NewFromInt(quantity)
	moneySubtotal := decimal.Zero
	if product.PriceMoney.Valid {
		moneySubtotal = product.PriceMoney.Decimal.Mul(qty)
	}
	bonusSubtotal := product.PriceBonus * quantity
	base := loyalty.BaseAmount(moneySubtotal, bonusSubtotal)

	if payWithBonus {
		plan.writeoff = loyalty.CalcWriteoff(rule, base, quantity)
	}
	plan.accrual = loyalty.CalcAccrual(rule, base, quantity)

	remaining := decimal.Max(moneySubtotal.Sub(decimal.NewFromInt(plan.writeoff)), decimal.Zero)
	if !moneySubtotal.IsZero() {
		plan.totalMoney = decimal.NewNullDecimal(remaining)
	}

	switch {
	case remaining.IsPositive() && plan.writeoff > 0:
		plan.method = model.PaymentMixed
	case remaining.IsPositive():
		plan.method = model.PaymentCardOnly
	case plan.writeoff > 0:
		plan.method = model.PaymentBonusOnly
	default:
		plan.method = model.PaymentCardOnly
	}

	return plan, nil
}
