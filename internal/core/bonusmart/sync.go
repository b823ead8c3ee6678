package bonusmart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playmixer/bonusmart/internal/adapters/crm"
	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	"go.uber.org/zap"
)

var leadTags = []string{"MiniApp", "Лагерь"}

// enqueueRemoteSync never blocks: a full queue drops the order.
func (b *Bonusmart) enqueueRemoteSync(orderID uint) {
	if b.syncCh == nil {
		return
	}
	select {
	case b.syncCh <- orderID:
		b.metrics.SyncQueueLength(len(b.syncCh))
	default:
		b.log.Warn("remote sync queue is full, order skipped", zap.Uint("orderID", orderID))
		b.metrics.RemoteSync("dropped")
	}
}

func (b *Bonusmart) workerRemoteSync(ctx context.Context, id int, inputCh <-chan uint) {
	b.log.Debug("start gorutin workerRemoteSync", zap.Int("id", id))
	defer b.log.Debug("stopped gorutin workerRemoteSync", zap.Int("id", id))
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			b.log.Info("worker remote sync stopping", zap.Int("id", id))
			return
		case orderID := <-inputCh:
			b.metrics.SyncQueueLength(len(inputCh))
			if _, err := b.syncOrder(ctx, orderID); err != nil {
				b.metrics.RemoteSync("error")
				b.log.Error("failed send order to crm", zap.Uint("orderID", orderID), zap.Error(err))
				continue
			}
			b.metrics.RemoteSync("ok")
		}
	}
}

// SendOrderToCRM pushes the order to the CRM right away and returns the lead
// id. An order that already has a lead is not sent again.
func (b *Bonusmart) SendOrderToCRM(ctx context.Context, orderID uint) (int64, error) {
	if b.crm == nil {
		return 0, ErrRemoteSyncDisabled
	}
	leadID, err := b.syncOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, errServiceUnavailable) {
			return 0, errors.Join(ErrRemoteSyncUnavailable, err)
		}
		return 0, err
	}

	return leadID, nil
}

func (b *Bonusmart) syncOrder(ctx context.Context, orderID uint) (int64, error) {
	if b.cfg.SyncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.SyncTimeout)
		defer cancel()
	}

	order, err := b.store.GetOrder(ctx, orderID)
	if err != nil {
		return 0, fmt.Errorf("failed getting order: %w", err)
	}
	if order.RemoteLeadID != nil {
		return *order.RemoteLeadID, nil
	}

	var leadID int64
	err = b.breaker.execute(func() (time.Duration, error) {
		id, err := b.crm.CreateLead(ctx, buildLead(order))
		if err != nil {
			var statusErr *crm.StatusError
			if errors.As(err, &statusErr) {
				if !statusErr.Temporary() {
					return 0, errors.Join(errRejected, err)
				}
				return statusErr.RetryAfter, err
			}
			return 0, err
		}
		leadID = id
		return 0, nil
	})
	if err != nil {
		return 0, err
	}

	if err := b.store.SetRemoteLeadID(ctx, order.ID, leadID); err != nil {
		return 0, fmt.Errorf("failed save lead id %d: %w", leadID, err)
	}
	b.log.Info("order sent to crm", zap.Uint("orderID", order.ID), zap.Int64("leadID", leadID))

	return leadID, nil
}

func buildLead(order model.Order) crm.Lead {
	name := fmt.Sprintf("Заказ #%d", order.ID)
	if order.CustomerName != "" {
		name += " от " + order.CustomerName
	}

	items := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		productName := item.Product.Name
		if productName == "" {
			productName = fmt.Sprintf("ID %d", item.ProductID)
		}
		items = append(items, fmt.Sprintf("%s x %d", productName, item.Quantity))
	}

	var price int64
	if order.TotalMoney.Valid {
		price = order.TotalMoney.Decimal.IntPart()
	}

	return crm.Lead{
		Name:  name,
		Price: price,
		Phone: order.CustomerPhone,
		Fields: []crm.Field{
			{Name: "Local order ID", Value: order.ID},
			{Name: "Order items", Value: strings.Join(items, "; ")},
			{Name: "Bonus spent", Value: order.TotalBonus},
		},
		Tags: leadTags,
	}
}
