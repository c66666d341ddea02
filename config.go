package tickshard

import (
	"fmt"
	"runtime"
	"time"
)

// Config is the configuration for the Scheduler.
//
// All duration fields accept standard Go duration strings like "50ms", "10s".
type Config struct {
	// Workers is the number of tick workers in the pool. The worker count is
	// fixed for the lifetime of the scheduler; affinity values are folded
	// into [0, Workers) to pick an owner.
	//
	// Default: runtime.NumCPU().
	Workers int `yaml:"workers"`

	// QueueSize is the capacity of each worker's batch queue. The dispatcher
	// submits at most one batch per worker per tick, so small values are
	// sufficient unless batches are submitted out of band.
	//
	// Default: 4.
	QueueSize int `yaml:"queueSize"`

	// ShutdownTimeout bounds how long Shutdown waits for in-flight batches,
	// in addition to any deadline on the caller's context. Zero relies
	// solely on the caller's context.
	//
	// Default: 10 seconds.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Workers:         runtime.NumCPU(),
		QueueSize:       4,
		ShutdownTimeout: 10 * time.Second,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Workers == 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
}

// Validate checks configuration constraints and returns an error for invalid
// values.
//
// Hard Validation Rules:
//   - Workers >= 1 (the pool cannot be empty)
//   - QueueSize >= 1 (workers must accept at least one batch)
//   - ShutdownTimeout >= 0 (zero disables the fallback deadline)
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.Workers < 1 {
		return fmt.Errorf("Workers must be >= 1, got %d", cfg.Workers)
	}

	if cfg.QueueSize < 1 {
		return fmt.Errorf("QueueSize must be >= 1, got %d", cfg.QueueSize)
	}

	if cfg.ShutdownTimeout < 0 {
		return fmt.Errorf("ShutdownTimeout must be >= 0, got %v", cfg.ShutdownTimeout)
	}

	return nil
}

// TestConfig returns a configuration optimized for fast test execution.
//
// The worker count is pinned so affinity folding is deterministic across
// machines, and the shutdown deadline is short enough that a wedged worker
// fails the test quickly. Use DefaultConfig() for production deployments.
//
// Returns:
//   - Config: Configuration with deterministic, fast timings for tests
//
// Example:
//
//	cfg := tickshard.TestConfig()
//	sched, err := tickshard.NewScheduler(&cfg, world, strategy.NewSpatialHash())
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.Workers = 4
	cfg.QueueSize = 2
	cfg.ShutdownTimeout = 2 * time.Second

	return cfg
}
