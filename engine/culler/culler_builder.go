package culler

import (
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
)

// CullerBuilderOption is a functional option for configuring a Culler.
type CullerBuilderOption func(*cullerImpl)

// WithLogger sets the logger for diagnostics.
//
// Parameters:
//   - logger: the logger; nil keeps the default
//
// Returns:
//   - CullerBuilderOption: a function that sets the logger
func WithLogger(logger *log.Logger) CullerBuilderOption {
	return func(c *cullerImpl) {
		c.logger = common.Coalesce(logger, c.logger)
	}
}

// WithWorkers sets the maximum number of pool goroutines.
//
// Parameters:
//   - n: the worker count; values below 1 keep the default
//
// Returns:
//   - CullerBuilderOption: a function that sets the worker count
func WithWorkers(n int) CullerBuilderOption {
	return func(c *cullerImpl) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// WithChunkSize sets how many volumes one task classifies.
//
// Parameters:
//   - n: the chunk size; values below 1 keep the default
//
// Returns:
//   - CullerBuilderOption: a function that sets the chunk size
func WithChunkSize(n int) CullerBuilderOption {
	return func(c *cullerImpl) {
		if n >= 1 {
			c.chunkSize = n
		}
	}
}

// WithQueueSize sets the pool's task queue capacity.
func WithQueueSize(n int) CullerBuilderOption {
	return func(c *cullerImpl) {
		if n >= 1 {
			c.queueSize = n
		}
	}
}

// WithIdleTimeout sets how long an idle worker lingers before exiting.
func WithIdleTimeout(d time.Duration) CullerBuilderOption {
	return func(c *cullerImpl) {
		if d > 0 {
			c.idle = d
		}
	}
}
