package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stepCounter struct {
	steps []float32
}

func (s *stepCounter) StepFrame(dt float32) {
	s.steps = append(s.steps, dt)
}

func TestGameUpdateJobStepsOnce(t *testing.T) {
	s := &stepCounter{}
	completed := false
	j := NewGameUpdateJob(s, 0.016, func() { completed = true })

	assert.Equal(t, JobKindGameUpdate, j.Kind())
	assert.Equal(t, float32(0.016), j.DeltaTime())

	j.Run()
	assert.Equal(t, []float32{0.016}, s.steps)
	assert.True(t, completed)
}

func TestGameUpdateJobThroughQueue(t *testing.T) {
	s := &stepCounter{}
	q := NewJobQueue()
	q.Push(NewGameUpdateJob(s, 0.5, nil))
	q.Push(NewGameUpdateJob(s, 0.25, nil))

	assert.Equal(t, 2, q.Drain(), "game update jobs are not coalescable")
	assert.Equal(t, []float32{0.5, 0.25}, s.steps)
}

func TestGameUpdateJobRequiresStepper(t *testing.T) {
	assert.Panics(t, func() { NewGameUpdateJob(nil, 0, nil) })
}
