package config

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/playmixer/bonusmart/internal/adapters/api/rest"
	"github.com/playmixer/bonusmart/internal/adapters/crm"
	"github.com/playmixer/bonusmart/internal/adapters/jobs"
	"github.com/playmixer/bonusmart/internal/adapters/locker"
	"github.com/playmixer/bonusmart/internal/adapters/queue"
	"github.com/playmixer/bonusmart/internal/adapters/store"
	"github.com/playmixer/bonusmart/internal/adapters/store/database"
	"github.com/playmixer/bonusmart/internal/core/bonusmart"
)

type Config struct {
	Rest      *rest.Config
	Store     *store.Config
	Bonusmart *bonusmart.Config
	CRM       *crm.Config
	Queue     *queue.Config
	Jobs      *jobs.Config
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath   string `env:"LOG_PATH"`
}

func Init() (*Config, error) {
	return Load(".env", os.Args[1:])
}

// Load reads dotenv, then the environment, then command-line flags; later
// sources win.
func Load(dotenv string, args []string) (*Config, error) {
	cfg := &Config{
		Rest: &rest.Config{},
		Store: &store.Config{
			Database: &database.Config{},
			Locker:   &locker.Config{},
		},
		Bonusmart: &bonusmart.Config{},
		CRM:       &crm.Config{},
		Queue:     &queue.Config{},
		Jobs:      &jobs.Config{},
	}

	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("failed load enviorements from file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return cfg, fmt.Errorf("failed parse env: %w", err)
	}

	fs := flag.NewFlagSet("bonusmart", flag.ContinueOnError)
	fs.StringVar(&cfg.Rest.Address, "a", cfg.Rest.Address, "address listen")
	fs.StringVar(&cfg.Store.Database.DSN, "d", cfg.Store.Database.DSN, "database dsn")
	fs.StringVar(&cfg.CRM.BaseURL, "crm", cfg.CRM.BaseURL, "crm base url")
	fs.StringVar(&cfg.Bonusmart.LoyaltyRulesPath, "rules", cfg.Bonusmart.LoyaltyRulesPath, "loyalty rules json file")
	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("failed parse flags: %w", err)
	}

	return cfg, nil
}
