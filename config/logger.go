package config

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger: JSON in production, console otherwise
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
