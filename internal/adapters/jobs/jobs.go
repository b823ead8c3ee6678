// Package jobs runs periodic ledger maintenance.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/playmixer/bonusmart/internal/adapters/store/model"
)

type Config struct {
	AuditSchedule string        `env:"AUDIT_SCHEDULE" envDefault:"0 3 * * *"`
	AuditTimeout  time.Duration `env:"AUDIT_TIMEOUT" envDefault:"5m"`
	Timezone      string        `env:"JOBS_TIMEZONE" envDefault:"Europe/Moscow"`
}

type Auditor interface {
	AuditBalances(ctx context.Context) ([]model.BalanceDrift, error)
}

type Scheduler struct {
	log     *zap.Logger
	cron    *cron.Cron
	auditor Auditor
	timeout time.Duration
}

type option func(*Scheduler)

func Logger(log *zap.Logger) option {
	return func(s *Scheduler) {
		s.log = log
	}
}

// New registers the audit job. An empty schedule disables it.
func New(cfg *Config, auditor Auditor, options ...option) (*Scheduler, error) {
	s := &Scheduler{
		log:     zap.NewNop(),
		auditor: auditor,
		timeout: cfg.AuditTimeout,
	}
	for _, opt := range options {
		opt(s)
	}

	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			s.log.Warn("failed load timezone, using UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		} else {
			loc = l
		}
	}
	s.cron = cron.New(cron.WithLocation(loc))

	if cfg.AuditSchedule == "" {
		return s, nil
	}
	if _, err := s.cron.AddFunc(cfg.AuditSchedule, s.audit); err != nil {
		return nil, fmt.Errorf("failed add audit job %q: %w", cfg.AuditSchedule, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) audit() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	drifts, err := s.auditor.AuditBalances(ctx)
	if err != nil {
		s.log.Error("balance audit failed", zap.Error(err))
		return
	}
	s.log.Info("balance audit finished", zap.Int("drifts", len(drifts)), zap.Duration("duration", time.Since(start)))
}
