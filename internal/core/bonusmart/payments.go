package bonusmart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playmixer/bonusmart/internal/adapters/store/errstore"
	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeError     Outcome = "error"
)

type PaymentEventKind string

const (
	EventAdd         PaymentEventKind = "add"
	EventUpdate      PaymentEventKind = "update"
	EventDelete      PaymentEventKind = "delete"
	EventStatus      PaymentEventKind = "status"
	EventResponsible PaymentEventKind = "responsible"
)

func (k PaymentEventKind) valid() bool {
	switch k {
	case EventAdd, EventUpdate, EventDelete, EventStatus, EventResponsible:
		return true
	}
	return false
}

// marksPaid reports kinds that confirm a payment.
func (k PaymentEventKind) marksPaid() bool {
	return k == EventAdd || k == EventUpdate
}

type PaymentTransaction struct {
	Comment    *string `json:"comment"`
	NextPrice  *int64  `json:"next_price"`
	NextDate   *int64  `json:"next_date"`
	ID         int64   `json:"id"`
	CustomerID int64   `json:"customer_id"`
	Price      int64   `json:"price"`
	CreatedAt  int64   `json:"created_at"`
}

// PaymentEvent is a CRM transaction webhook.
type PaymentEvent struct {
	Event       PaymentEventKind   `json:"event"`
	Transaction PaymentTransaction `json:"transaction"`
	AccountID   int64              `json:"account_id"`
}

func (e PaymentEvent) Validate() error {
	if !e.Event.valid() {
		return fmt.Errorf("%w: unknown event `%s`", ErrInvalidPaymentEvent, e.Event)
	}
	if e.Transaction.ID <= 0 {
		return fmt.Errorf("%w: empty transaction id", ErrInvalidPaymentEvent)
	}
	if e.Transaction.CustomerID <= 0 {
		return fmt.Errorf("%w: empty customer id", ErrInvalidPaymentEvent)
	}
	return nil
}

// ExternalID is stable across redeliveries of one event.
func (e PaymentEvent) ExternalID() string {
	return fmt.Sprintf("%s:%d", e.Event, e.Transaction.ID)
}

type storedPayload struct {
	ReceivedAt time.Time `json:"webhook_received_at"`
	PaymentTransaction
	EventType PaymentEventKind `json:"event_type"`
	AccountID int64            `json:"account_id"`
}

// HandlePaymentEvent records the event once and, for payment kinds, marks
// the most recent open order of the referenced lead as paid. Redelivery of a
// processed event is reported as OutcomeDuplicate with no side effects.
func (b *Bonusmart) HandlePaymentEvent(ctx context.Context, event PaymentEvent) (Outcome, error) {
	outcome, err := b.handlePaymentEvent(ctx, event)
	b.metrics.PaymentEvent(string(outcome))
	if err != nil {
		b.log.Error("payment event failed",
			zap.String("event", event.ExternalID()),
			zap.Int64("customerID", event.Transaction.CustomerID),
			zap.Error(err),
		)
	}

	return outcome, err
}

func (b *Bonusmart) handlePaymentEvent(ctx context.Context, event PaymentEvent) (Outcome, error) {
	if err := event.Validate(); err != nil {
		return OutcomeError, err
	}
	eventID := event.ExternalID()

	existing, err := b.store.GetPaymentEvent(ctx, eventID)
	switch {
	case err == nil && existing.Status == model.PaymentRecordProcessed:
		b.log.Debug("payment event already processed", zap.String("event", eventID))
		return OutcomeDuplicate, nil
	case err != nil && !errors.Is(err, errstore.ErrNotFoundData):
		return OutcomeError, fmt.Errorf("failed getting payment event: %w", err)
	}

	var orderID *uint
	order, err := b.store.FindOpenOrderByRemoteLead(ctx, event.Transaction.CustomerID)
	switch {
	case err == nil:
		orderID = &order.ID
	case errors.Is(err, errstore.ErrNotFoundData):
		b.log.Info("payment event without local order",
			zap.String("event", eventID),
			zap.Int64("customerID", event.Transaction.CustomerID),
		)
	default:
		return OutcomeError, fmt.Errorf("failed find order by lead: %w", err)
	}

	payload, err := json.Marshal(storedPayload{
		PaymentTransaction: event.Transaction,
		ReceivedAt:         time.Now(),
		AccountID:          event.AccountID,
		EventType:          event.Event,
	})
	if err != nil {
		return OutcomeError, fmt.Errorf("failed marshal payload: %w", err)
	}

	record, err := b.store.RegisterPaymentEvent(ctx, model.ExternalPaymentRecord{
		ExternalEventID:     eventID,
		ExternalReferenceID: event.Transaction.CustomerID,
		OrderID:             orderID,
		Payload:             payload,
		Status:              model.PaymentRecordReceived,
	})
	if err != nil {
		return OutcomeError, fmt.Errorf("failed register payment event: %w", err)
	}
	if record.Status == model.PaymentRecordProcessed {
		return OutcomeDuplicate, nil
	}

	err = b.store.ApplyPaymentEvent(ctx, record.ID, model.PaymentApplication{
		OrderID:  orderID,
		MarkPaid: event.Event.marksPaid(),
		Amount:   decimal.NewNullDecimal(decimal.NewFromInt(event.Transaction.Price)),
	})
	if err != nil {
		if errors.Is(err, errstore.ErrEventProcessed) {
			return OutcomeDuplicate, nil
		}
		if markErr := b.store.MarkPaymentEventError(ctx, record.ID, err.Error()); markErr != nil {
			err = errors.Join(err, markErr)
		}
		return OutcomeError, fmt.Errorf("failed process payment event: %w", err)
	}

	if orderID != nil && event.Event.marksPaid() {
		b.log.Info("order paid", zap.Uint("orderID", *orderID), zap.String("event", eventID))
	}

	return OutcomeOK, nil
}
