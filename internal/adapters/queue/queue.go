// Package queue consumes payment events and balance changes published to
// Kafka by other services.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/playmixer/bonusmart/internal/adapters/store/errstore"
	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	"github.com/playmixer/bonusmart/internal/core/bonusmart"
)

type Config struct {
	Brokers       []string      `env:"KAFKA_BROKERS" envSeparator:","`
	GroupID       string        `env:"KAFKA_GROUP_ID" envDefault:"bonusmart"`
	PaymentsTopic string        `env:"KAFKA_PAYMENTS_TOPIC" envDefault:"crm.payments"`
	BalanceTopic  string        `env:"KAFKA_BALANCE_TOPIC" envDefault:"bonusmart.balance"`
	RetryDelay    time.Duration `env:"KAFKA_RETRY_DELAY" envDefault:"1s"`
	MaxAttempts   int           `env:"KAFKA_MAX_ATTEMPTS" envDefault:"5"`
}

// Enabled reports whether any broker is configured.
func (c *Config) Enabled() bool {
	return c != nil && len(c.Brokers) > 0
}

type Service interface {
	HandlePaymentEvent(ctx context.Context, event bonusmart.PaymentEvent) (bonusmart.Outcome, error)
	ApplyBalanceEvent(
		ctx context.Context,
		eventID string,
		userID uint,
		delta int64,
		txType model.TransactionType,
		description string,
		allowNegative bool,
	) (int64, error)
}

type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// BalanceEvent is a balance change produced outside the shop. EventID is
// the producer's idempotency key; without one the message position is used.
type BalanceEvent struct {
	EventID       string                `json:"event_id"`
	Type          model.TransactionType `json:"type"`
	Description   string                `json:"description"`
	UserID        uint                  `json:"user_id"`
	Delta         int64                 `json:"delta"`
	AllowNegative bool                  `json:"allow_negative"`
}

var errRetry = errors.New("message should be retried")

type subscription struct {
	reader Reader
	handle func(ctx context.Context, msg kafka.Message) error
	topic  string
}

type Consumer struct {
	log         *zap.Logger
	service     Service
	wg          *sync.WaitGroup
	subs        []subscription
	retryDelay  time.Duration
	maxAttempts int
}

type option func(*Consumer)

func Logger(log *zap.Logger) option {
	return func(c *Consumer) {
		c.log = log
	}
}

// PaymentsReader replaces the Kafka reader of the payments topic.
func PaymentsReader(r Reader) option {
	return func(c *Consumer) {
		c.subs = append(c.subs, subscription{topic: "payments", reader: r, handle: c.handlePayment})
	}
}

// BalanceReader replaces the Kafka reader of the balance topic.
func BalanceReader(r Reader) option {
	return func(c *Consumer) {
		c.subs = append(c.subs, subscription{topic: "balance", reader: r, handle: c.handleBalance})
	}
}

// New subscribes to the configured topics. Topics with an empty name are
// skipped.
func New(cfg *Config, service Service, options ...option) *Consumer {
	c := &Consumer{
		log:         zap.NewNop(),
		service:     service,
		wg:          &sync.WaitGroup{},
		retryDelay:  cfg.RetryDelay,
		maxAttempts: max(cfg.MaxAttempts, 1),
	}

	for _, opt := range options {
		opt(c)
	}

	if len(c.subs) == 0 && cfg.Enabled() {
		if cfg.PaymentsTopic != "" {
			c.subs = append(c.subs, subscription{
				topic:  cfg.PaymentsTopic,
				reader: newReader(cfg, cfg.PaymentsTopic),
				handle: c.handlePayment,
			})
		}
		if cfg.BalanceTopic != "" {
			c.subs = append(c.subs, subscription{
				topic:  cfg.BalanceTopic,
				reader: newReader(cfg, cfg.BalanceTopic),
				handle: c.handleBalance,
			})
		}
	}

	return c
}

func newReader(cfg *Config, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
}

// Run starts one loop per topic. The loops stop when ctx is done.
func (c *Consumer) Run(ctx context.Context) {
	for _, sub := range c.subs {
		c.wg.Add(1)
		go c.consume(ctx, sub)
	}
}

// Close waits for the loops and closes the readers.
func (c *Consumer) Close() error {
	c.wg.Wait()
	var errs []error
	for _, sub := range c.subs {
		if err := sub.reader.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed close reader %s: %w", sub.topic, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Consumer) consume(ctx context.Context, sub subscription) {
	defer c.wg.Done()
	c.log.Info("kafka consumer started", zap.String("topic", sub.topic))
	defer c.log.Info("kafka consumer stopped", zap.String("topic", sub.topic))

	for {
		msg, err := sub.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("failed fetch message", zap.String("topic", sub.topic), zap.Error(err))
			if !c.sleep(ctx) {
				return
			}
			continue
		}

		if !c.process(ctx, sub, msg) {
			return
		}

		if err := sub.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("failed commit message", zap.String("topic", sub.topic), zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// process runs the handler until it succeeds, fails permanently or runs out
// of attempts. It returns false when ctx is done before the message is
// settled, leaving it uncommitted.
func (c *Consumer) process(ctx context.Context, sub subscription, msg kafka.Message) bool {
	for attempt := 1; ; attempt++ {
		err := sub.handle(ctx, msg)
		if err == nil {
			return true
		}
		fields := []zap.Field{
			zap.String("topic", sub.topic),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Error(err),
		}
		if !errors.Is(err, errRetry) {
			c.log.Warn("message rejected", fields...)
			return true
		}
		if attempt >= c.maxAttempts {
			c.log.Error("message dropped after retries", fields...)
			return true
		}
		c.log.Debug("message will be retried", fields...)
		if !c.sleep(ctx) {
			return false
		}
	}
}

func (c *Consumer) sleep(ctx context.Context) bool {
	t := time.NewTimer(c.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) handlePayment(ctx context.Context, msg kafka.Message) error {
	event := bonusmart.PaymentEvent{}
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed unmarshal payment event: %w", err)
	}

	outcome, err := c.service.HandlePaymentEvent(ctx, event)
	if outcome != bonusmart.OutcomeError {
		return nil
	}
	if errors.Is(err, errstore.ErrTransient) {
		return errors.Join(errRetry, err)
	}
	return fmt.Errorf("failed handle payment event: %w", err)
}

func (c *Consumer) handleBalance(ctx context.Context, msg kafka.Message) error {
	event := BalanceEvent{}
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed unmarshal balance event: %w", err)
	}

	eventID := event.EventID
	if eventID == "" {
		eventID = messageKey(msg)
	}

	balance, err := c.service.ApplyBalanceEvent(ctx, eventID, event.UserID, event.Delta, event.Type,
		event.Description, event.AllowNegative)
	if err != nil {
		if errors.Is(err, errstore.ErrBalanceEventUsed) {
			c.log.Info("balance event already applied", zap.String("event", eventID))
			return nil
		}
		if errors.Is(err, errstore.ErrTransient) {
			return errors.Join(errRetry, err)
		}
		return fmt.Errorf("failed change balance: %w", err)
	}
	c.log.Debug("balance changed from queue",
		zap.String("event", eventID),
		zap.Uint("userID", event.UserID),
		zap.Int64("delta", event.Delta),
		zap.Int64("balance", balance),
	)

	return nil
}

// messageKey identifies a message by its position, which stays the same on
// redelivery.
func messageKey(msg kafka.Message) string {
	return fmt.Sprintf("kafka:%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
}
