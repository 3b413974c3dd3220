package gemini

import (
	"log/slog"
	"strings"
	"time"
)

// Config for the Gemini guesser.
type Config struct {
	APIKey      string
	Model       string        // e.g. "gemini-1.5-flash"
	Temperature float32       // 0 keeps field guesses deterministic
	Timeout     time.Duration // bounds one GuessFields call
}

func (c Config) withDefaults() Config {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Model = strings.TrimSpace(c.Model)
	if c.Model == "" {
		c.Model = "gemini-1.5-flash"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
