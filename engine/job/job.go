// Package job provides the unit of work handed between engine goroutines and the
// double-buffered queue that carries it.
package job

import "fmt"

// JobKind classifies a Job. The queue uses kinds to decide coalescing.
type JobKind int

const (
	// JobKindUnknown is the kind of the empty-queue sentinel.
	JobKindUnknown JobKind = iota
	// JobKindGeneric is the kind of plain function jobs.
	JobKindGeneric
	// JobKindResize carries a surface resize to the render goroutine.
	JobKindResize
	// JobKindGameUpdate steps the simulation for one frame.
	JobKindGameUpdate
	// JobKindSceneEvent delivers a scene node notification.
	JobKindSceneEvent
	// JobKindConfigReload applies a changed configuration file.
	JobKindConfigReload
)

func (k JobKind) String() string {
	switch k {
	case JobKindUnknown:
		return "unknown"
	case JobKindGeneric:
		return "generic"
	case JobKindResize:
		return "resize"
	case JobKindGameUpdate:
		return "game_update"
	case JobKindSceneEvent:
		return "scene_event"
	case JobKindConfigReload:
		return "config_reload"
	default:
		return fmt.Sprintf("JobKind(%d)", int(k))
	}
}

// Job is a unit of work executed by whichever goroutine drains the queue holding it.
type Job interface {
	// Kind returns the job's classification.
	//
	// Returns:
	//   - JobKind: the kind of this job
	Kind() JobKind

	// Run performs the job's work.
	Run()
}

// Coalescable is implemented by jobs that may replace a pending job of the same kind.
// Only the newest of a run of coalescable jobs needs to execute, e.g. window resizes.
type Coalescable interface {
	Coalescable() bool
}

// noJob is the sentinel returned by JobQueue.Front when the front buffer is empty.
type noJob struct{}

func (noJob) Kind() JobKind { return JobKindUnknown }
func (noJob) Run()          {}

// NoJob is the empty-queue sentinel. Its kind is JobKindUnknown and Run does nothing.
var NoJob Job = noJob{}

// funcJob adapts a function into a Job.
type funcJob struct {
	kind       JobKind
	fn         func()
	coalescing bool
}

func (j *funcJob) Kind() JobKind { return j.kind }

func (j *funcJob) Run() {
	if j.fn != nil {
		j.fn()
	}
}

func (j *funcJob) Coalescable() bool { return j.coalescing }

// NewJob wraps fn as a Job of the given kind.
//
// Parameters:
//   - kind: the job kind
//   - fn: the work to run
//
// Returns:
//   - Job: the new job
func NewJob(kind JobKind, fn func()) Job {
	return &funcJob{kind: kind, fn: fn}
}

// NewCoalescableJob wraps fn as a Job that replaces a pending job of the same kind at the
// tail of the queue.
//
// Parameters:
//   - kind: the job kind
//   - fn: the work to run
//
// Returns:
//   - Job: the new coalescable job
func NewCoalescableJob(kind JobKind, fn func()) Job {
	return &funcJob{kind: kind, fn: fn, coalescing: true}
}

// CoalescePredicate decides whether next replaces tail, the most recently pushed pending job.
type CoalescePredicate func(tail, next Job) bool

// DefaultCoalescePredicate coalesces when both jobs share a kind and next declares itself Coalescable.
func DefaultCoalescePredicate(tail, next Job) bool {
	if tail.Kind() != next.Kind() {
		return false
	}
	c, ok := next.(Coalescable)
	return ok && c.Coalescable()
}

// NeverCoalesce is a CoalescePredicate that keeps every pushed job.
func NeverCoalesce(Job, Job) bool { return false }
