package job

// FrameStepper advances the simulation by one frame.
type FrameStepper interface {
	StepFrame(dt float32)
}

// GameUpdateJob steps a FrameStepper once with a fixed delta time.
// It is the unit the engine hands to a worker thread every tick.
type GameUpdateJob struct {
	stepper    FrameStepper
	dt         float32
	onComplete func()
}

var _ Job = &GameUpdateJob{}

// NewGameUpdateJob creates a job that calls stepper.StepFrame(dt) when run.
//
// Parameters:
//   - stepper: the simulation to advance
//   - dt: delta time in seconds
//   - onComplete: optional function called after the step finishes (may be nil)
//
// Returns:
//   - *GameUpdateJob: the new job
func NewGameUpdateJob(stepper FrameStepper, dt float32, onComplete func()) *GameUpdateJob {
	if stepper == nil {
		panic("job: NewGameUpdateJob requires a non-nil FrameStepper")
	}
	return &GameUpdateJob{stepper: stepper, dt: dt, onComplete: onComplete}
}

func (j *GameUpdateJob) Kind() JobKind {
	return JobKindGameUpdate
}

func (j *GameUpdateJob) Run() {
	if j.onComplete != nil {
		defer j.onComplete()
	}
	j.stepper.StepFrame(j.dt)
}

// DeltaTime returns the delta time the job steps with.
func (j *GameUpdateJob) DeltaTime() float32 {
	return j.dt
}
