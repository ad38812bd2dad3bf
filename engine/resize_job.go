package engine

import "github.com/Carmen-Shannon/oxy-frame/engine/job"

// ResizeJob applies a surface resize on the render goroutine.
// Consecutive resizes coalesce in the job queue so only the latest size is applied.
type ResizeJob struct {
	Width  int
	Height int
	apply  func(width, height int)
}

var (
	_ job.Job         = &ResizeJob{}
	_ job.Coalescable = &ResizeJob{}
)

// NewResizeJob creates a job that calls apply with the given size.
//
// Parameters:
//   - width: new surface width in pixels
//   - height: new surface height in pixels
//   - apply: the function performing the resize
//
// Returns:
//   - *ResizeJob: the new job
func NewResizeJob(width, height int, apply func(width, height int)) *ResizeJob {
	return &ResizeJob{Width: width, Height: height, apply: apply}
}

func (j *ResizeJob) Kind() job.JobKind {
	return job.JobKindResize
}

func (j *ResizeJob) Run() {
	if j.apply != nil {
		j.apply(j.Width, j.Height)
	}
}

func (j *ResizeJob) Coalescable() bool {
	return true
}
