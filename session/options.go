package session

import (
	"time"

	"go.uber.org/zap"
)

// Config holds the session configuration.
type Config struct {
	// Logger is used for logging exchanges
	Logger Logger

	// Timeout bounds a single request/response attempt
	Timeout time.Duration

	// MaxAttempts is the total number of identical attempts per request
	MaxAttempts int

	// RetryDelay is the pause between attempts
	RetryDelay time.Duration
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Logger:      zap.NewNop().Sugar(),
		Timeout:     2 * time.Second,
		MaxAttempts: 3,
	}
}

// Option is a functional option for configuring the Session.
type Option func(*Config)

// WithLogger sets a logger for the session.
//
// Example:
//
//	s := session.New(port, layout, session.WithLogger(zapLogger.Sugar()))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithTimeout sets the per-attempt response timeout.
//
// Example:
//
//	s := session.New(port, layout, session.WithTimeout(500*time.Millisecond))
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithMaxAttempts sets the total number of attempts per request, including
// the first one. Values below 1 are ignored.
func WithMaxAttempts(attempts int) Option {
	return func(c *Config) {
		if attempts >= 1 {
			c.MaxAttempts = attempts
		}
	}
}

// WithRetryDelay sets a constant pause between attempts. Default is none.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay >= 0 {
			c.RetryDelay = delay
		}
	}
}
