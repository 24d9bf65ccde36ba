// Package logger builds the zap loggers used by the CLI, TUI and server.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/config"
)

// New returns a logger writing to stderr: JSON in production, console
// otherwise.
func New(cfg *config.Config) (*zap.Logger, error) {
	return build(cfg, []string{"stderr"})
}

// NewFile returns a logger writing to the configured log file. The TUI
// uses it since it owns the terminal.
func NewFile(cfg *config.Config) (*zap.Logger, error) {
	path, err := cfg.LogFile()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return build(cfg, []string{path})
}

func build(cfg *config.Config, outputs []string) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	}
	if cfg.Log.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zc.Level = level
	}
	zc.OutputPaths = outputs
	zc.ErrorOutputPaths = outputs
	return zc.Build()
}
