// Package thread_pool provides a fixed set of worker threads that engine jobs are checked out onto.
package thread_pool

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-frame/engine/job"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
)

// ThreadPool hands out threads that jobs can be submitted to.
// A thread is checked out with AcquireThread and returned with UnacquireThread.
type ThreadPool interface {
	// AcquireThread checks out a free thread.
	// When every thread is checked out it returns nil, unless force is true, in which case the
	// pool grows by one thread and returns it.
	//
	// Parameters:
	//   - force: grow the pool instead of returning nil when no thread is free
	//
	// Returns:
	//   - Thread: the checked-out thread, or nil when none is free (or the pool is closed)
	AcquireThread(force bool) Thread

	// UnacquireThread waits for the thread's outstanding jobs and returns it to the pool.
	// Returning a thread that is not checked out panics.
	//
	// Parameters:
	//   - t: the thread to return
	UnacquireThread(t Thread)

	// Size returns the total number of threads, checked out or not.
	//
	// Returns:
	//   - int: thread count
	Size() int

	// Available returns the number of threads that can be acquired without forcing.
	//
	// Returns:
	//   - int: free thread count
	Available() int

	// Close stops the underlying workers. Further AcquireThread calls return nil.
	Close()
}

// Thread is a checked-out slot of a ThreadPool.
type Thread interface {
	// ID returns the thread's index within its pool.
	//
	// Returns:
	//   - int: the thread ID
	ID() int

	// Run submits j to the pool's workers and returns without waiting for it.
	//
	// Parameters:
	//   - j: the job to run
	Run(j job.Job)

	// Wait blocks until every job submitted through this thread has finished.
	Wait()

	// Busy reports whether jobs submitted through this thread are still running.
	//
	// Returns:
	//   - bool: true while jobs are outstanding
	Busy() bool
}

// threadPool is the implementation of the ThreadPool interface.
type threadPool struct {
	mu       sync.Mutex
	threads  []*thread
	free     []*thread
	closed   bool
	stopOnce sync.Once

	threadCount int
	queueSize   int
	idleTimeout time.Duration
	logger      *slog.Logger

	workers worker.DynamicWorkerPool
}

// thread is the implementation of the Thread interface.
type thread struct {
	id       int
	pool     *threadPool
	wg       sync.WaitGroup
	pending  atomic.Int32
	acquired bool // guarded by pool.mu
}

var _ ThreadPool = &threadPool{}
var _ Thread = &thread{}

// NewThreadPool creates a ThreadPool backed by a dynamic worker pool.
// The thread count defaults to max(runtime.NumCPU(), 1).
//
// Parameters:
//   - options: functional options for the pool
//
// Returns:
//   - ThreadPool: the new pool with every thread free
func NewThreadPool(options ...ThreadPoolBuilderOption) ThreadPool {
	p := &threadPool{
		threadCount: max(runtime.NumCPU(), 1),
		queueSize:   256,
		idleTimeout: 1 * time.Second,
	}
	for _, opt := range options {
		opt(p)
	}

	p.workers = worker.NewDynamicWorkerPool(p.threadCount, p.queueSize, p.idleTimeout)
	p.threads = make([]*thread, 0, p.threadCount)
	p.free = make([]*thread, 0, p.threadCount)
	for i := range p.threadCount {
		p.threads = append(p.threads, &thread{id: i, pool: p})
	}
	// The free list is a stack; push in reverse so thread 0 is handed out first.
	for i := len(p.threads) - 1; i >= 0; i-- {
		p.free = append(p.free, p.threads[i])
	}
	return p
}

func (p *threadPool) AcquireThread(force bool) Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	if n := len(p.free); n > 0 {
		t := p.free[n-1]
		p.free = p.free[:n-1]
		t.acquired = true
		return t
	}
	if !force {
		return nil
	}

	t := &thread{id: len(p.threads), pool: p, acquired: true}
	p.threads = append(p.threads, t)
	p.workers.IncreaseMaxWorkers(1)
	logging.Or(p.logger).Debug("thread pool grown", "threads", len(p.threads))
	return t
}

func (p *threadPool) UnacquireThread(t Thread) {
	th, ok := t.(*thread)
	if !ok || th.pool != p {
		panic("thread_pool: UnacquireThread called with a thread from another pool")
	}
	th.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if !th.acquired {
		panic(fmt.Sprintf("thread_pool: thread %d returned twice", th.id))
	}
	th.acquired = false
	p.free = append(p.free, th)
}

func (p *threadPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}

func (p *threadPool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0
	}
	return len(p.free)
}

func (p *threadPool) Close() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		threads := append([]*thread(nil), p.threads...)
		p.mu.Unlock()

		for _, t := range threads {
			t.Wait()
		}
		p.workers.Stop()
	})
}

func (t *thread) ID() int {
	return t.id
}

func (t *thread) Run(j job.Job) {
	if j == nil {
		return
	}
	t.wg.Add(1)
	t.pending.Add(1)
	t.pool.workers.SubmitTask(worker.Task{
		ID:      t.id,
		Payload: j.Kind(),
		Do: func() (any, error) {
			defer t.wg.Done()
			defer t.pending.Add(-1)
			defer func() {
				if r := recover(); r != nil {
					logging.Or(t.pool.logger).Error("job panicked on worker thread",
						"thread", t.id, "kind", j.Kind().String(), "panic", r)
				}
			}()
			j.Run()
			return nil, nil
		},
	})
}

func (t *thread) Wait() {
	t.wg.Wait()
}

func (t *thread) Busy() bool {
	return t.pending.Load() > 0
}
