package csvtable

import "go.uber.org/zap"

// Logger receives warnings about ignored input in lenient mode.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Warnw(msg string, keysAndValues ...interface{})
}

// Config holds the parser configuration.
type Config struct {
	// Lenient ignores unknown columns instead of failing
	Lenient bool

	// Logger receives a warning for every ignored column
	Logger Logger
}

func defaultConfig() Config {
	return Config{
		Logger: zap.NewNop().Sugar(),
	}
}

// Option is a functional option for configuring the parser.
type Option func(*Config)

// WithLenient makes the parser ignore unknown columns, logging a warning
// for each one. A nil logger discards the warnings.
//
// Example:
//
//	records, err := csvtable.Parse("channels.csv", csvtable.WithLenient(logger.Sugar()))
func WithLenient(logger Logger) Option {
	return func(c *Config) {
		c.Lenient = true
		if logger != nil {
			c.Logger = logger
		}
	}
}
