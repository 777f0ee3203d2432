package memory

import (
	"time"

	"go.uber.org/zap"
)

// Transfer phases reported in Progress.Phase.
const (
	PhaseReading  = "reading"
	PhaseWriting  = "writing"
	PhaseComplete = "complete"
)

// Progress contains information about a running transfer.
// Passed to ProgressCallback after every block.
type Progress struct {
	// Phase describes the current operation phase:
	//   "reading"  - Reading blocks from the radio
	//   "writing"  - Writing blocks to the radio
	//   "complete" - Transfer finished successfully
	Phase string

	// CurrentBlock is the number of blocks transferred so far
	CurrentBlock int

	// TotalBlocks is the number of blocks in the transfer
	TotalBlocks int

	// Address is the address of the last block transferred
	Address uint32

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// BytesTransferred is the total number of block bytes moved so far
	BytesTransferred int

	// ElapsedTime is the time elapsed since the transfer started
	ElapsedTime time.Duration
}

// ProgressCallback is called after every block of a transfer.
// Implementations should return quickly to avoid stalling the link.
//
// Example:
//
//	img, err := memory.Download(ctx, s,
//	    memory.WithProgressCallback(func(p memory.Progress) {
//	        fmt.Printf("[%s] %.1f%% - Block %d/%d\n",
//	            p.Phase, p.Percentage, p.CurrentBlock, p.TotalBlocks)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is the logging interface used by transfers.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
}

// Config holds the transfer configuration.
type Config struct {
	// ProgressCallback is called after every block (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging transfers
	Logger Logger
}

func defaultConfig() Config {
	return Config{
		Logger: zap.NewNop().Sugar(),
	}
}

// Option is a functional option for configuring a transfer.
type Option func(*Config)

// WithProgressCallback sets a callback function to track transfer progress.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the transfer.
//
// Example:
//
//	err := memory.Upload(ctx, s, img, memory.WithLogger(logger.Sugar()))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

func newConfig(opts []Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c *Config) reportProgress(p Progress) {
	if c.ProgressCallback != nil {
		c.ProgressCallback(p)
	}
}
