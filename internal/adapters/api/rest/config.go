package rest

import "time"

type Config struct {
	Address         string        `env:"RUN_ADDRESS" envDefault:":8080"`
	Secret          string        `env:"SECRET_KEY" envDefault:"secret_key"`
	ShutdownTimeout time.Duration `env:"REST_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}
