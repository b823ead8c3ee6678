package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/playmixer/bonusmart/internal/adapters/api/rest"
	"github.com/playmixer/bonusmart/internal/adapters/crm"
	"github.com/playmixer/bonusmart/internal/adapters/jobs"
	"github.com/playmixer/bonusmart/internal/adapters/logger"
	"github.com/playmixer/bonusmart/internal/adapters/metrics"
	"github.com/playmixer/bonusmart/internal/adapters/queue"
	"github.com/playmixer/bonusmart/internal/adapters/store"
	"github.com/playmixer/bonusmart/internal/core/bonusmart"
	"github.com/playmixer/bonusmart/internal/core/config"
	"github.com/playmixer/bonusmart/internal/core/loyalty"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Init()
	if err != nil {
		return fmt.Errorf("failed initilize config: %w", err)
	}

	lgr, err := logger.New(cfg.LogLevel, logger.OutputPath(cfg.LogPath))
	if err != nil {
		return fmt.Errorf("failed initialize logger: %w", err)
	}
	defer func() { _ = lgr.Sync() }()

	storage, err := store.New(ctx, cfg.Store, lgr)
	if err != nil {
		return fmt.Errorf("failed initilize storage: %w", err)
	}
	defer func() {
		if err := storage.CloseDB(); err != nil {
			lgr.Error("failed close storage", zap.Error(err))
		}
	}()

	mtrs := metrics.New(nil)
	options := []bonusmart.Option{
		bonusmart.Logger(lgr),
		bonusmart.Metrics(mtrs),
	}
	if cfg.Bonusmart.LoyaltyRulesPath != "" {
		rules, err := loyalty.LoadTableFile(cfg.Bonusmart.LoyaltyRulesPath)
		if err != nil {
			return fmt.Errorf("failed load loyalty rules: %w", err)
		}
		options = append(options, bonusmart.Rules(rules))
	}
	if cfg.CRM.BaseURL != "" {
		options = append(options, bonusmart.RemoteSync(crm.New(cfg.CRM, crm.Logger(lgr))))
	} else {
		lgr.Warn("crm base url is empty, orders will not be synced")
	}

	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	mart := bonusmart.New(workersCtx, cfg.Bonusmart, storage, options...)

	consumer := queue.New(cfg.Queue, mart, queue.Logger(lgr))
	consumer.Run(workersCtx)

	scheduler, err := jobs.New(cfg.Jobs, mart, jobs.Logger(lgr))
	if err != nil {
		return fmt.Errorf("failed initialize scheduler: %w", err)
	}
	scheduler.Start()

	server, err := rest.New(
		mart,
		rest.Logger(lgr),
		rest.Metrics(mtrs),
		rest.Configure(cfg.Rest),
	)
	if err != nil {
		return fmt.Errorf("failed initialize rest server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		lgr.Info("server started", zap.String("address", cfg.Rest.Address))
		errCh <- server.Run()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		lgr.Info("shutting down")
	case runErr = <-errCh:
	}

	if err := server.Stop(); err != nil {
		lgr.Error("failed stop server", zap.Error(err))
	}
	scheduler.Stop()
	stopWorkers()
	if err := consumer.Close(); err != nil {
		lgr.Error("failed close consumer", zap.Error(err))
	}
	mart.Wait()

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("stop server, %w", runErr)
	}
	return nil
}
