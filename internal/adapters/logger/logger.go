package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type config struct {
	outputPaths []string
}

type option func(*config)

// OutputPath adds a file sink next to stdout. Empty path is ignored.
func OutputPath(path string) option {
	return func(c *config) {
		if path != "" {
			c.outputPaths = append(c.outputPaths, path)
		}
	}
}

func New(level string, options ...option) (*zap.Logger, error) {
	c := &config{outputPaths: []string{"stdout"}}
	for _, opt := range options {
		opt(c)
	}

	if level == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = c.outputPaths

	lgr, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed build logger: %w", err)
	}

	return lgr, nil
}
