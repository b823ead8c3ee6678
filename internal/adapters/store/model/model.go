package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Balance struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        uint  `gorm:"primarykey"`
	UserID    uint  `gorm:"unique"`
	Amount    int64 `gorm:"not null;default:0"`
}

type TransactionType string

const (
	TransactionGameClick     TransactionType = "game_click"
	TransactionReferral      TransactionType = "referral"
	TransactionShopPurchase  TransactionType = "shop_purchase"
	TransactionAdminAdjust   TransactionType = "admin_adjust"
	TransactionExternalBonus TransactionType = "external_bonus"
	TransactionOther         TransactionType = "other"
)

// BalanceTransaction is append-only. ResultingBalance is the running sum of
// Delta over the user's rows up to and including this one.
type BalanceTransaction struct {
	CreatedAt        time.Time
	EventID          *string         `gorm:"size:191;uniqueIndex"`
	Type             TransactionType `gorm:"size:32;not null"`
	Description      string
	ID               uint  `gorm:"primarykey"`
	UserID           uint  `gorm:"index;not null"`
	Delta            int64 `gorm:"not null"`
	ResultingBalance int64 `gorm:"not null"`
}

type Product struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PriceMoney  decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Name        string              `gorm:"not null"`
	Description string
	ImageURL    string
	Category    string `gorm:"index"`
	ID          uint   `gorm:"primarykey"`
	PriceBonus  int64  `gorm:"not null;default:0"`
	IsActive    bool   `gorm:"not null"`
}

type OrderStatus string

const (
	OrderStatusNew            OrderStatus = "new"
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusCanceled       OrderStatus = "canceled"
	OrderStatusFulfilled      OrderStatus = "fulfilled"
)

type PaymentMethod string

const (
	PaymentBonusOnly PaymentMethod = "bonus_only"
	PaymentCardOnly  PaymentMethod = "card_only"
	PaymentMixed     PaymentMethod = "mixed"
)

type Order struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	RemoteLeadID  *int64              `gorm:"index"`
	TotalMoney    decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Status        OrderStatus         `gorm:"size:32;not null;default:new;index"`
	PaymentMethod PaymentMethod       `gorm:"size:32;not null;default:card_only"`
	CustomerName  string
	CustomerPhone string
	Items         []OrderItem
	ID            uint  `gorm:"primarykey"`
	UserID        uint  `gorm:"index;not null"`
	TotalBonus    int64 `gorm:"not null;default:0"`
}

// OrderItem keeps the product prices seen at settlement time.
type OrderItem struct {
	UnitPriceMoney decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Product        Product
	ID             uint  `gorm:"primarykey"`
	OrderID        uint  `gorm:"index;not null"`
	ProductID      uint  `gorm:"not null"`
	Quantity       int64 `gorm:"not null"`
	UnitPriceBonus int64 `gorm:"not null;default:0"`
}

type PaymentRecordStatus string

const (
	PaymentRecordReceived  PaymentRecordStatus = "received"
	PaymentRecordProcessed PaymentRecordStatus = "processed"
	PaymentRecordError     PaymentRecordStatus = "error"
)

type ExternalPaymentRecord struct {
	CreatedAt           time.Time
	UpdatedAt           time.Time
	OrderID             *uint
	ExternalEventID     string `gorm:"size:128;uniqueIndex;not null"`
	ExternalReferenceID int64  `gorm:"index"`
	Payload             datatypes.JSON
	Status              PaymentRecordStatus `gorm:"size:16;not null;default:received"`
	ErrorMessage        string
	ID                  uint `gorm:"primarykey"`
}

// BalanceDrift reports a user whose stored balance disagrees with the replay
// of their transaction log.
type BalanceDrift struct {
	UserID       uint
	Stored       int64
	Replayed     int64
	BrokenAtTxID uint
}

// Settlement is everything one order commit writes: the order with its item
// and the two ledger movements.
type Settlement struct {
	Order    Order
	Writeoff int64
	Accrual  int64
}

// PaymentApplication is the effect of one payment event on its order.
type PaymentApplication struct {
	Amount   decimal.NullDecimal
	OrderID  *uint
	MarkPaid bool
}
