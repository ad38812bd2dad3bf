package job

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logJob(log *[]string, name string) Job {
	return NewJob(JobKindGeneric, func() { *log = append(*log, name) })
}

func TestPushIsInvisibleUntilPump(t *testing.T) {
	var log []string
	q := NewJobQueue()
	q.Push(logJob(&log, "J1"))
	q.Push(logJob(&log, "J2"))
	q.Push(logJob(&log, "J3"))

	assert.Nil(t, q.Pop(), "pop before pump sees an empty front")
	assert.Equal(t, JobKindUnknown, q.Front().Kind())
	assert.Equal(t, 3, q.BackLen())

	q.PumpJobs()
	assert.Equal(t, 3, q.FrontLen())
	assert.Zero(t, q.BackLen())

	for q.Pop() != nil {
	}
	assert.Equal(t, []string{"J1", "J2", "J3"}, log)
	assert.Zero(t, q.Len())
}

func TestPopReturnsNextJob(t *testing.T) {
	var log []string
	q := NewJobQueue()
	first, second := logJob(&log, "A"), logJob(&log, "B")
	q.Push(first)
	q.Push(second)
	q.PumpJobs()

	require.Same(t, first, q.Front())
	next := q.Pop()
	assert.Same(t, second, next)
	assert.Equal(t, []string{"A"}, log)
	assert.Nil(t, q.Pop())
	assert.Equal(t, []string{"A", "B"}, log)
}

func TestPumpAppendsAfterExistingFront(t *testing.T) {
	var log []string
	q := NewJobQueue()
	q.Push(logJob(&log, "A"))
	q.Push(logJob(&log, "B"))
	q.PumpJobs()
	q.Pop()

	q.Push(logJob(&log, "C"))
	q.PumpJobs()
	assert.Equal(t, 2, q.FrontLen())

	assert.Equal(t, 2, q.Drain())
	assert.Equal(t, []string{"A", "B", "C"}, log)
}

func TestPumpIsIdempotentWithoutPushes(t *testing.T) {
	var log []string
	q := NewJobQueue()
	q.PumpJobs()
	assert.Zero(t, q.Len())

	q.Push(logJob(&log, "A"))
	q.PumpJobs()
	q.PumpJobs()
	assert.Equal(t, 1, q.FrontLen())
}

func TestEmptyPopIsNoop(t *testing.T) {
	q := NewJobQueue()
	assert.Nil(t, q.Pop())
	assert.Equal(t, NoJob, q.Front())
	assert.NotPanics(t, NoJob.Run)
}

func TestCoalescingReplacesTail(t *testing.T) {
	var sizes []int
	resize := func(n int) Job {
		return NewCoalescableJob(JobKindResize, func() { sizes = append(sizes, n) })
	}
	q := NewJobQueue()
	q.Push(resize(1))
	q.Push(resize(2))
	q.Push(resize(3))

	assert.Equal(t, 1, q.BackLen())
	assert.Equal(t, uint64(2), q.Coalesced())
	q.Drain()
	assert.Equal(t, []int{3}, sizes)
}

func TestCoalescingRespectsKindAndFlag(t *testing.T) {
	var log []string
	q := NewJobQueue()
	q.Push(NewCoalescableJob(JobKindResize, func() { log = append(log, "r1") }))
	q.Push(NewJob(JobKindGeneric, func() { log = append(log, "g") }))
	q.Push(NewCoalescableJob(JobKindResize, func() { log = append(log, "r2") }))
	q.Push(NewJob(JobKindGeneric, func() { log = append(log, "g2") }))
	q.Push(NewJob(JobKindGeneric, func() { log = append(log, "g3") }))

	q.Drain()
	assert.Equal(t, []string{"r1", "g", "r2", "g2", "g3"}, log)
}

func TestCustomCoalescePredicate(t *testing.T) {
	var log []string
	sameKind := func(tail, next Job) bool { return tail.Kind() == next.Kind() }
	q := NewJobQueue(WithCoalescePredicate(sameKind))
	q.Push(logJob(&log, "A"))
	q.Push(logJob(&log, "B"))
	q.Drain()
	assert.Equal(t, []string{"B"}, log)

	log = nil
	q = NewJobQueue(WithCoalescePredicate(nil))
	q.Push(NewCoalescableJob(JobKindResize, func() { log = append(log, "1") }))
	q.Push(NewCoalescableJob(JobKindResize, func() { log = append(log, "2") }))
	q.Drain()
	assert.Equal(t, []string{"1", "2"}, log)
}

func TestJobPushedWhileRunningWaitsForNextPump(t *testing.T) {
	var log []string
	q := NewJobQueue(WithBackCapacity(4))
	q.Push(NewJob(JobKindGeneric, func() {
		log = append(log, "outer")
		q.Push(logJob(&log, "inner"))
	}))

	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, 1, q.BackLen())
	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []string{"outer", "inner"}, log)
}

func TestSegmentReuseAcrossManyPumps(t *testing.T) {
	count := 0
	q := NewJobQueue()
	for round := range 20 {
		for range round + 1 {
			q.Push(NewJob(JobKindGeneric, func() { count++ }))
		}
		q.Drain()
	}
	assert.Equal(t, 210, count)
	assert.Zero(t, q.Len())
}

func TestConcurrentProducers(t *testing.T) {
	const producers, perProducer = 8, 500
	q := NewJobQueue()

	var mu sync.Mutex
	seen := make(map[int][]int)

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				q.Push(NewJob(JobKindGeneric, func() {
					mu.Lock()
					seen[p] = append(seen[p], i)
					mu.Unlock()
				}))
			}
		}()
	}

	total := 0
	stop := make(chan struct{})
	go func() {
		wg.Wait()
		close(stop)
	}()
	for {
		select {
		case <-stop:
			total += q.Drain()
			assert.Equal(t, producers*perProducer, total)
			for p := range producers {
				require.Len(t, seen[p], perProducer)
				for i, v := range seen[p] {
					assert.Equal(t, i, v, "jobs from one producer keep push order")
				}
			}
			return
		default:
			total += q.Drain()
		}
	}
}

func TestJobKindString(t *testing.T) {
	assert.Equal(t, "unknown", JobKindUnknown.String())
	assert.Equal(t, "resize", JobKindResize.String())
	assert.Equal(t, "JobKind(99)", JobKind(99).String())
}
