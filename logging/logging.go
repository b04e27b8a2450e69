// Package logging builds the zap loggers of remotestore binaries. Library packages take an injected
// *zap.Logger and never build their own.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // stdout, stderr, or file path
}

// New builds a logger for cfg. An empty Level means info and an empty Format means json.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var config zap.Config
	switch strings.ToLower(cfg.Format) {
	case "", FormatJSON:
		config = zap.NewProductionConfig()
	case FormatConsole:
		config = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q, expected %s or %s", cfg.Format, FormatJSON, FormatConsole)
	}

	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	if cfg.OutputPath != "" {
		config.OutputPaths = []string{cfg.OutputPath}
	}

	return config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// ParseLevel parses a level name. An empty name is info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return level, fmt.Errorf("unknown log level %q: %w", s, err)
	}
	return level, nil
}
