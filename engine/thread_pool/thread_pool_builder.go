package thread_pool

import (
	"log/slog"
	"time"
)

// ThreadPoolBuilderOption is a functional option for configuring a ThreadPool.
type ThreadPoolBuilderOption func(*threadPool)

// WithThreadCount sets the initial number of threads.
// Values <= 0 are treated as 1.
//
// Parameters:
//   - n: the number of threads
//
// Returns:
//   - ThreadPoolBuilderOption: option function to apply
func WithThreadCount(n int) ThreadPoolBuilderOption {
	return func(p *threadPool) {
		p.threadCount = max(n, 1)
	}
}

// WithQueueSize sets how many submitted jobs may wait for a worker before Run blocks.
//
// Parameters:
//   - n: the task queue capacity (default 256)
//
// Returns:
//   - ThreadPoolBuilderOption: option function to apply
func WithQueueSize(n int) ThreadPoolBuilderOption {
	return func(p *threadPool) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithIdleTimeout sets the idle timeout handed to the underlying worker pool.
//
// Parameters:
//   - d: the idle timeout (default 1s)
//
// Returns:
//   - ThreadPoolBuilderOption: option function to apply
func WithIdleTimeout(d time.Duration) ThreadPoolBuilderOption {
	return func(p *threadPool) {
		p.idleTimeout = d
	}
}

// WithLogger overrides the engine logger for this pool.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - ThreadPoolBuilderOption: option function to apply
func WithLogger(l *slog.Logger) ThreadPoolBuilderOption {
	return func(p *threadPool) {
		p.logger = l
	}
}
