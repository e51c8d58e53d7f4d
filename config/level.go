package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}
