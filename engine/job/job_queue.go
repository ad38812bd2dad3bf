package job

import (
	"sync"
)

// JobQueue hands jobs from any number of producers to a single consumer.
//
// Producers Push into the back buffer under a short lock. The consumer moves everything
// pushed so far to the front buffer with PumpJobs and then drains the front with Pop.
// A job is in exactly one of the two buffers at any time.
type JobQueue interface {
	// Push appends job to the back buffer, or replaces the back buffer's tail when the
	// queue's coalesce predicate matches. Nil jobs are ignored. Safe from any goroutine.
	//
	// Parameters:
	//   - job: the job to enqueue
	Push(job Job)

	// Pop runs and removes the oldest front job, then returns the next front job or nil.
	// On an empty front buffer Pop does nothing and returns nil. Consumer goroutine only.
	//
	// Returns:
	//   - Job: the next pending front job, or nil when the front buffer is exhausted
	Pop() Job

	// Front returns the oldest front job without running it, or NoJob when the front is empty.
	//
	// Returns:
	//   - Job: the oldest front job, or NoJob
	Front() Job

	// PumpJobs moves every back-buffer job onto the end of the front buffer, preserving order.
	// This is the only operation that moves jobs between the buffers. Consumer goroutine only.
	PumpJobs()

	// Drain pumps and then runs every front job.
	//
	// Returns:
	//   - int: the number of jobs run
	Drain() int

	// Len returns the total number of pending jobs in both buffers.
	//
	// Returns:
	//   - int: pending job count
	Len() int

	// FrontLen returns the number of jobs waiting in the front buffer.
	//
	// Returns:
	//   - int: front job count
	FrontLen() int

	// BackLen returns the number of jobs waiting in the back buffer.
	//
	// Returns:
	//   - int: back job count
	BackLen() int

	// Coalesced returns how many pushes replaced a pending job instead of appending.
	//
	// Returns:
	//   - uint64: coalesced push count
	Coalesced() uint64
}

// maxSpareSegments bounds how many drained segments are kept for reuse as back buffers.
const maxSpareSegments = 4

// jobQueue is the implementation of the JobQueue interface.
//
// The front buffer is a list of segments; PumpJobs moves the whole back slice in as one
// segment, so the splice costs the same no matter how many jobs were pushed.
type jobQueue struct {
	backMu    sync.Mutex
	back      []Job
	coalesced uint64

	frontMu  sync.Mutex
	segments [][]Job
	head     int // index of the next job within segments[0]
	frontLen int
	spare    [][]Job

	coalesce CoalescePredicate
}

var _ JobQueue = &jobQueue{}

// NewJobQueue creates an empty JobQueue.
//
// Parameters:
//   - options: functional options for the queue
//
// Returns:
//   - JobQueue: the new queue
func NewJobQueue(options ...JobQueueBuilderOption) JobQueue {
	q := &jobQueue{
		coalesce: DefaultCoalescePredicate,
	}
	for _, opt := range options {
		opt(q)
	}
	if q.coalesce == nil {
		q.coalesce = NeverCoalesce
	}
	return q
}

func (q *jobQueue) Push(job Job) {
	if job == nil {
		return
	}
	q.backMu.Lock()
	defer q.backMu.Unlock()

	if n := len(q.back); n > 0 && q.coalesce(q.back[n-1], job) {
		q.back[n-1] = job
		q.coalesced++
		return
	}
	q.back = append(q.back, job)
}

func (q *jobQueue) Pop() Job {
	job := q.takeFront()
	if job == nil {
		return nil
	}
	job.Run()

	q.frontMu.Lock()
	defer q.frontMu.Unlock()
	return q.peekLocked()
}

func (q *jobQueue) Front() Job {
	q.frontMu.Lock()
	defer q.frontMu.Unlock()
	if j := q.peekLocked(); j != nil {
		return j
	}
	return NoJob
}

func (q *jobQueue) PumpJobs() {
	q.frontMu.Lock()
	var fresh []Job
	if n := len(q.spare); n > 0 {
		fresh = q.spare[n-1]
		q.spare = q.spare[:n-1]
	}
	q.frontMu.Unlock()

	q.backMu.Lock()
	if len(q.back) == 0 {
		q.backMu.Unlock()
		if fresh != nil {
			q.frontMu.Lock()
			q.spare = append(q.spare, fresh)
			q.frontMu.Unlock()
		}
		return
	}
	moved := q.back
	q.back = fresh
	q.backMu.Unlock()

	q.frontMu.Lock()
	q.segments = append(q.segments, moved)
	q.frontLen += len(moved)
	q.frontMu.Unlock()
}

func (q *jobQueue) Drain() int {
	q.PumpJobs()
	n := 0
	for q.FrontLen() > 0 {
		q.Pop()
		n++
	}
	return n
}

func (q *jobQueue) Len() int {
	return q.FrontLen() + q.BackLen()
}

func (q *jobQueue) FrontLen() int {
	q.frontMu.Lock()
	defer q.frontMu.Unlock()
	return q.frontLen
}

func (q *jobQueue) BackLen() int {
	q.backMu.Lock()
	defer q.backMu.Unlock()
	return len(q.back)
}

func (q *jobQueue) Coalesced() uint64 {
	q.backMu.Lock()
	defer q.backMu.Unlock()
	return q.coalesced
}

// takeFront detaches the oldest front job, recycling its segment when exhausted.
func (q *jobQueue) takeFront() Job {
	q.frontMu.Lock()
	defer q.frontMu.Unlock()

	if q.frontLen == 0 {
		return nil
	}
	seg := q.segments[0]
	job := seg[q.head]
	seg[q.head] = nil
	q.head++
	q.frontLen--

	if q.head == len(seg) {
		q.segments[0] = nil
		q.segments = q.segments[1:]
		q.head = 0
		if len(q.spare) < maxSpareSegments {
			q.spare = append(q.spare, seg[:0])
		}
	}
	return job
}

// peekLocked returns the oldest front job or nil. frontMu must be held.
func (q *jobQueue) peekLocked() Job {
	if q.frontLen == 0 {
		return nil
	}
	return q.segments[0][q.head]
}
