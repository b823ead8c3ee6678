package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	"github.com/playmixer/bonusmart/internal/core/bonusmart"
)

type tCartItem struct {
	ItemID   int64 `json:"item_id"`
	Quantity int64 `json:"quantity"`
}

type tCreateOrder struct {
	PayWithBonus  *bool       `json:"pay_with_bonus"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	Items         []tCartItem `json:"items"`
}

// Request converts the body; pay_with_bonus defaults to true.
func (o tCreateOrder) Request() bonusmart.CreateOrderRequest {
	req := bonusmart.CreateOrderRequest{
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		PayWithBonus:  true,
		Items:         make([]bonusmart.CartItem, 0, len(o.Items)),
	}
	if o.PayWithBonus != nil {
		req.PayWithBonus = *o.PayWithBonus
	}
	for _, item := range o.Items {
		req.Items = append(req.Items, bonusmart.CartItem{ProductID: item.ItemID, Quantity: item.Quantity})
	}
	return req
}

type tOrder struct {
	TotalMoney    *float64            `json:"total_money"`
	RemoteLeadID  *int64              `json:"remote_lead_id,omitempty"`
	Status        model.OrderStatus   `json:"status"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	CreatedAt     string              `json:"created_at"`
	Items         []tCartItem         `json:"items"`
	ID            uint                `json:"id"`
	TotalBonus    int64               `json:"total_bonus"`
}

func newOrder(order model.Order) tOrder {
	res := tOrder{
		ID:            order.ID,
		TotalBonus:    order.TotalBonus,
		TotalMoney:    money(order.TotalMoney),
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		RemoteLeadID:  order.RemoteLeadID,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
		Items:         make([]tCartItem, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		res.Items = append(res.Items, tCartItem{ItemID: int64(item.ProductID), Quantity: item.Quantity})
	}
	return res
}

type tShopItem struct {
	PriceMoney  *float64 `json:"price_money"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category"`
	ID          uint     `json:"id"`
	PriceBonus  int64    `json:"price_bonus"`
}

type tBalance struct {
	Balance int64 `json:"balance"`
}

type tTransaction struct {
	Type             model.TransactionType `json:"type"`
	Description      string                `json:"description"`
	CreatedAt        string                `json:"created_at"`
	ID               uint                  `json:"id"`
	Delta            int64                 `json:"delta"`
	ResultingBalance int64                 `json:"resulting_balance"`
}

type tWebhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type tError struct {
	Error string `json:"error"`
}

func money(v decimal.NullDecimal) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Decimal.InexactFloat64()
	return &f
}
