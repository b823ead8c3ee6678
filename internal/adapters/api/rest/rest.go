package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/playmixer/bonusmart/docs"
	"github.com/playmixer/bonusmart/internal/adapters/metrics"
	"github.com/playmixer/bonusmart/internal/adapters/store/errstore"
	"github.com/playmixer/bonusmart/internal/adapters/store/model"
	"github.com/playmixer/bonusmart/internal/core/bonusmart"
	"github.com/playmixer/bonusmart/pkg/jwt"
)

var (
	cookieName = "token"
	cookieKey  = "UserID"
	ctxUserID  = "userID"

	errUnauthorize = errors.New("unauthorized")
)

type bonusmartI interface {
	CreateOrder(ctx context.Context, userID uint, req bonusmart.CreateOrderRequest) (model.Order, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error)
	GetBalance(ctx context.Context, userID uint) (int64, error)
	GetTransactions(ctx context.Context, userID uint) ([]model.BalanceTransaction, error)
	HandlePaymentEvent(ctx context.Context, event bonusmart.PaymentEvent) (bonusmart.Outcome, error)
	SendOrderToCRM(ctx context.Context, orderID uint) (int64, error)
}

type Server struct {
	log             *zap.Logger
	engine          *gin.Engine
	server          *http.Server
	service         bonusmartI
	metrics         *metrics.Metrics
	address         string
	secret          []byte
	shutdownTimeout time.Duration
}

type Option func(*Server)

func Logger(log *zap.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

func SetAddress(address string) Option {
	return func(s *Server) {
		s.address = address
	}
}

func SetSecretKey(key []byte) Option {
	return func(s *Server) {
		s.secret = key
	}
}

func Metrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// Configure applies every value of cfg.
func Configure(cfg *Config) Option {
	return func(s *Server) {
		s.address = cfg.Address
		s.secret = []byte(cfg.Secret)
		s.shutdownTimeout = cfg.ShutdownTimeout
	}
}

//	@title			Bonusmart
//	@version		1.0
//	@description	Бонусный счёт, магазин и сверка оплат с CRM.
//	@host			localhost:8080
//	@BasePath		/

func New(service bonusmartI, options ...Option) (*Server, error) {
	s := &Server{
		log:             zap.NewNop(),
		service:         service,
		address:         ":8080",
		shutdownTimeout: 10 * time.Second,
	}

	for _, opt := range options {
		opt(s)
	}

	s.engine = gin.New()
	s.engine.Use(
		gin.Recovery(),
		s.Logger(),
		s.metrics.Middleware(),
		s.GzipDecompress(),
	)

	api := s.engine.Group("/api")
	api.Use(s.GzipCompress())
	{
		api.GET("/shop/items", s.handlerShopItems)

		authAPI := api.Group("/")
		authAPI.Use(s.Authentication())
		{
			authAPI.POST("/shop/orders", s.handlerCreateOrder)
			authAPI.GET("/shop/orders", s.handlerUserOrders)
			authAPI.GET("/user/balance", s.handlerUserBalance)
			authAPI.GET("/user/transactions", s.handlerUserTransactions)
			authAPI.POST("/amocrm/orders/:id/send", s.handlerSendOrder)
		}

		api.POST("/amocrm/webhooks/transaction", s.handlerPaymentWebhook)
	}
	s.engine.GET("/metrics", s.metrics.Handler())
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.server = &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Run() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	return nil
}

// Stop waits for in-flight requests up to the shutdown timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed shutdown server: %w", err)
	}

	return nil
}

func (s *Server) checkAuth(c *gin.Context) (userID uint, err error) {
	token := ""
	if cookie, err := c.Request.Cookie(cookieName); err == nil {
		token = cookie.Value
	}
	if header := c.GetHeader("Authorization"); token == "" && strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	}
	if token == "" {
		return 0, fmt.Errorf("token not found: %w", errUnauthorize)
	}

	userIDS, ok, err := jwt.New(s.secret).Verify(token, cookieKey)
	if err != nil {
		return 0, fmt.Errorf("failed verify token: %w %w", err, errUnauthorize)
	}
	if !ok {
		return 0, fmt.Errorf("unverify token: %w", errUnauthorize)
	}

	userID64, err := strconv.ParseUint(userIDS, 10, 32)
	if err != nil || userID64 == 0 {
		return 0, fmt.Errorf("can't convert string userID to uint: %w", errUnauthorize)
	}

	return uint(userID64), nil
}

func userID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

func (s *Server) readBody(c *gin.Context) ([]byte, error) {
	defer func() {
		if err := c.Request.Body.Close(); err != nil {
			s.log.Error(msgErrorCloseBody, zap.Error(err))
		}
	}()
	bBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("failed read body: %w", err)
	}
	return bBody, nil
}

// statusByError maps domain and storage errors to a response status.
func statusByError(err error) int {
	switch {
	case bonusmart.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, bonusmart.ErrProductNotFound), errors.Is(err, errstore.ErrNotFoundData):
		return http.StatusNotFound
	case errors.Is(err, errstore.ErrBalanceNotEnough):
		return http.StatusPaymentRequired
	case errors.Is(err, errstore.ErrTransient), errors.Is(err, bonusmart.ErrRemoteSyncUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, bonusmart.ErrRemoteSyncDisabled):
		return http.StatusConflict
	case errors.Is(err, errUnauthorize):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) abortWithError(c *gin.Context, msg string, err error) {
	status := statusByError(err)
	if status == http.StatusInternalServerError {
		s.log.Error(msg, zap.Error(err))
		c.AbortWithStatusJSON(status, tError{Error: "internal server error"})
		return
	}
	s.log.Debug(msg, zap.Int("status", status), zap.Error(err))
	c.AbortWithStatusJSON(status, tError{Error: err.Error()})
}
