package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/playmixer/bonusmart/internal/core/bonusmart"
)

var (
	msgErrorCloseBody = "failed close body request"
)

//	@Summary	Shop catalog
//	@Schemes
//	@Description	active products ordered by name
//	@Tags			shop
//	@Produce		json
//	@Success		200	{array}	tShopItem	"список товаров"
//	@failure		500	"внутренняя ошибка сервера"
//	@Router			/api/shop/items [get]
func (s *Server) handlerShopItems(c *gin.Context) {
	products, err := s.service.ListProducts(c.Request.Context())
	if err != nil {
		s.abortWithError(c, "failed get products", err)
		return
	}

	response := make([]tShopItem, 0, len(products))
	for _, p := range products {
		response = append(response, tShopItem{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			Category:    p.Category,
			PriceBonus:  p.PriceBonus,
			PriceMoney:  money(p.PriceMoney),
		})
	}
	c.JSON(http.StatusOK, response)
}

//	@Summary	Create order
//	@Schemes
//	@Description	settle a single-product cart, optionally paying with bonuses
//	@Tags			shop
//	@Accept			json
//	@Produce		json
//	@Param			order	body		tCreateOrder	true	"order"
//	@Success		201		{object}	tOrder			"заказ создан"
//	@failure		400		{object}	tError			"неверный формат запроса"
//	@failure		401		"пользователь не авторизован"
//	@failure		402		{object}	tError	"недостаточно бонусов"
//	@failure		404		{object}	tError	"товар не найден"
//	@failure		503		{object}	tError	"повторите запрос позже"
//	@failure		500		"внутренняя ошибка сервера"
//	@Router			/api/shop/orders [post]
func (s *Server) handlerCreateOrder(c *gin.Context) {
	ctx := c.Request.Context()

	bBody, err := s.readBody(c)
	if err != nil {
		s.abortWithError(c, "failed read body", err)
		return
	}

	jBody := tCreateOrder{}
	if err = json.Unmarshal(bBody, &jBody); err != nil {
		s.log.Debug("failed parse body", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, tError{Error: "invalid json"})
		return
	}

	order, err := s.service.CreateOrder(ctx, userID(c), jBody.Request())
	if err != nil {
		s.abortWithError(c, "failed create order", err)
		return
	}

	c.JSON(http.StatusCreated, newOrder(order))
}

//	@Summary	List user orders
//	@Schemes
//	@Description	user orders, newest first
//	@Tags			shop
//	@Produce		json
//	@Success		200	{array}	tOrder	"успешная обработка запроса"
//	@failure		401	"пользователь не авторизован"
//	@failure		500	"внутренняя ошибка сервера"
//	@Router			/api/shop/orders [get]
func (s *Server) handlerUserOrders(c *gin.Context) {
	orders, err := s.service.GetUserOrders(c.Request.Context(), userID(c))
	if err != nil {
		s.abortWithError(c, "failed get orders by user", err)
		return
	}

	response := make([]tOrder, 0, len(orders))
	for _, order := range orders {
		response = append(response, newOrder(order))
	}
	c.JSON(http.StatusOK, response)
}

//	@Summary	User balance
//	@Schemes
//	@Description	get user balance
//	@Tags			balance
//	@Produce		json
//	@Success		200	{object}	tBalance	"успешная обработка запроса"
//	@failure		401	"пользователь не авторизован"
//	@failure		500	"внутренняя ошибка сервера"
//	@Router			/api/user/balance [get]
func (s *Server) handlerUserBalance(c *gin.Context) {
	balance, err := s.service.GetBalance(c.Request.Context(), userID(c))
	if err != nil {
		s.abortWithError(c, "failed get balance", err)
		return
	}
	c.JSON(http.StatusOK, tBalance{Balance: balance})
}

//	@Summary	User transactions
//	@Schemes
//	@Description	latest balance transactions, newest first
//	@Tags			balance
//	@Produce		json
//	@Success		200	{array}	tTransaction	"успешная обработка запроса"
//	@failure		401	"пользователь не авторизован"
//	@failure		500	"внутренняя ошибка сервера"
//	@Router			/api/user/transactions [get]
func (s *Server) handlerUserTransactions(c *gin.Context) {
	txs, err := s.service.GetTransactions(c.Request.Context(), userID(c))
	if err != nil {
		s.abortWithError(c, "failed get transactions", err)
		return
	}

	response := make([]tTransaction, 0, len(txs))
	for _, tx := range txs {
		response = append(response, tTransaction{
			ID:               tx.ID,
			Type:             tx.Type,
			Description:      tx.Description,
			Delta:            tx.Delta,
			ResultingBalance: tx.ResultingBalance,
			CreatedAt:        tx.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, response)
}

//	@Summary	CRM transaction webhook
//	@Schemes
//	@Description	payment event from the CRM; failures are reported in the body
//	@Tags			amocrm
//	@Accept			json
//	@Produce		json
//	@Param			event	body		bonusmart.PaymentEvent	true	"event"
//	@Success		200		{object}	tWebhookResponse		"событие обработано или отклонено"
//	@Router			/api/amocrm/webhooks/transaction [post]
func (s *Server) handlerPaymentWebhook(c *gin.Context) {
	bBody, err := s.readBody(c)
	if err != nil {
		s.log.Error("failed read webhook body", zap.Error(err))
		c.JSON(http.StatusOK, tWebhookResponse{Status: "error", Message: "Failed to read body"})
		return
	}

	event := bonusmart.PaymentEvent{}
	if err = json.Unmarshal(bBody, &event); err != nil {
		s.log.Warn("invalid webhook json", zap.ByteString("body", truncate(bBody, 1000)), zap.Error(err))
		c.JSON(http.StatusOK, tWebhookResponse{Status: "error", Message: "Invalid JSON: " + err.Error()})
		return
	}

	outcome, err := s.service.HandlePaymentEvent(c.Request.Context(), event)
	switch outcome {
	case bonusmart.OutcomeOK:
		c.JSON(http.StatusOK, tWebhookResponse{Status: "ok", Message: "Transaction processed"})
	case bonusmart.OutcomeDuplicate:
		c.JSON(http.StatusOK, tWebhookResponse{Status: "ok", Message: "Duplicate event ignored"})
	default:
		message := "Failed to process transaction"
		if err != nil && bonusmart.IsInvalidPaymentEvent(err) {
			message = "Invalid webhook payload"
		}
		c.JSON(http.StatusOK, tWebhookResponse{Status: "error", Message: message})
	}
}

//	@Summary	Send order to CRM
//	@Schemes
//	@Description	create the CRM lead for an order now
//	@Tags			amocrm
//	@Produce		json
//	@Param			id	path		int					true	"order id"
//	@Success		200	{object}	tWebhookResponse	"заказ отправлен"
//	@failure		400	{object}	tError				"неверный номер заказа"
//	@failure		401	"пользователь не авторизован"
//	@failure		404	{object}	tError	"заказ не найден"
//	@failure		409	{object}	tError	"синхронизация с CRM выключена"
//	@failure		503	{object}	tError	"CRM временно недоступна"
//	@Router			/api/amocrm/orders/{id}/send [post]
func (s *Server) handlerSendOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || orderID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, tError{Error: "invalid order id"})
		return
	}

	leadID, err := s.service.SendOrderToCRM(c.Request.Context(), uint(orderID))
	if err != nil {
		s.abortWithError(c, "failed send order to crm", err)
		return
	}

	c.JSON(http.StatusOK, tWebhookResponse{
		Status:  "ok",
		Message: fmt.Sprintf("Order %d sent to CRM, lead_id=%d", orderID, leadID),
	})
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
