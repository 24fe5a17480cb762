package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the process logger. Production environments get JSON output at
// INFO; everything else gets the human-readable development logger at DEBUG.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
