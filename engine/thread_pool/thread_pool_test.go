package thread_pool

import (
	"sync/atomic"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/engine/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireUntilExhausted(t *testing.T) {
	p := NewThreadPool(WithThreadCount(2))
	t.Cleanup(p.Close)

	require.Equal(t, 2, p.Size())
	a := p.AcquireThread(false)
	b := p.AcquireThread(false)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, 0, a.ID())
	assert.Equal(t, 1, b.ID())
	assert.Zero(t, p.Available())

	assert.Nil(t, p.AcquireThread(false), "no capacity is a normal nil result")

	p.UnacquireThread(a)
	assert.Equal(t, 1, p.Available())
	c := p.AcquireThread(false)
	require.NotNil(t, c)
	assert.Equal(t, a.ID(), c.ID())
}

func TestForcedAcquireGrowsPool(t *testing.T) {
	p := NewThreadPool(WithThreadCount(1))
	t.Cleanup(p.Close)

	first := p.AcquireThread(false)
	require.NotNil(t, first)
	forced := p.AcquireThread(true)
	require.NotNil(t, forced)
	assert.Equal(t, 2, p.Size())

	var ran atomic.Int32
	forced.Run(job.NewJob(job.JobKindGeneric, func() { ran.Add(1) }))
	forced.Wait()
	assert.Equal(t, int32(1), ran.Load())
}

func TestThreadRunsJobs(t *testing.T) {
	p := NewThreadPool(WithThreadCount(2), WithQueueSize(64))
	t.Cleanup(p.Close)

	th := p.AcquireThread(false)
	require.NotNil(t, th)

	var count atomic.Int32
	for range 50 {
		th.Run(job.NewJob(job.JobKindGeneric, func() { count.Add(1) }))
	}
	th.Wait()
	assert.Equal(t, int32(50), count.Load())
	assert.False(t, th.Busy())

	p.UnacquireThread(th)
}

func TestPanickingJobDoesNotWedgeThread(t *testing.T) {
	p := NewThreadPool(WithThreadCount(1))
	t.Cleanup(p.Close)

	th := p.AcquireThread(false)
	require.NotNil(t, th)
	th.Run(job.NewJob(job.JobKindGeneric, func() { panic("boom") }))
	th.Wait()

	done := false
	th.Run(job.NewJob(job.JobKindGeneric, func() { done = true }))
	th.Wait()
	assert.True(t, done)
}

func TestDoubleUnacquirePanics(t *testing.T) {
	p := NewThreadPool(WithThreadCount(1))
	t.Cleanup(p.Close)

	th := p.AcquireThread(false)
	p.UnacquireThread(th)
	assert.Panics(t, func() { p.UnacquireThread(th) })
}

func TestCloseRejectsAcquire(t *testing.T) {
	p := NewThreadPool(WithThreadCount(1))
	p.Close()
	p.Close()
	assert.Nil(t, p.AcquireThread(true))
	assert.Zero(t, p.Available())
}

func TestGameUpdateJobOnThread(t *testing.T) {
	p := NewThreadPool(WithThreadCount(1))
	t.Cleanup(p.Close)

	s := &stepper{}
	th := p.AcquireThread(false)
	require.NotNil(t, th)
	th.Run(job.NewGameUpdateJob(s, 0.02, nil))
	p.UnacquireThread(th)
	assert.Equal(t, int32(1), s.steps.Load())
}

type stepper struct {
	steps atomic.Int32
}

func (s *stepper) StepFrame(float32) {
	s.steps.Add(1)
}
