package stepping

import "log/slog"

// SceneSteppingPipelineBuilderOption is a functional option for configuring a SceneSteppingPipeline.
type SceneSteppingPipelineBuilderOption[N comparable] func(*sceneSteppingPipeline[N])

// WithListener registers a transform listener during construction.
//
// Parameters:
//   - l: the listener to add
//
// Returns:
//   - SceneSteppingPipelineBuilderOption[N]: option function to apply
func WithListener[N comparable](l SceneListener[N]) SceneSteppingPipelineBuilderOption[N] {
	return func(p *sceneSteppingPipeline[N]) {
		p.AddListener(l)
	}
}

// WithLogger overrides the engine logger for the pipeline's per-frame diagnostics.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - SceneSteppingPipelineBuilderOption[N]: option function to apply
func WithLogger[N comparable](l *slog.Logger) SceneSteppingPipelineBuilderOption[N] {
	return func(p *sceneSteppingPipeline[N]) {
		p.logger = l
	}
}

// WithNodes inserts the given nodes during construction, in order.
//
// Parameters:
//   - nodes: the initial nodes
//
// Returns:
//   - SceneSteppingPipelineBuilderOption[N]: option function to apply
func WithNodes[N comparable](nodes ...N) SceneSteppingPipelineBuilderOption[N] {
	return func(p *sceneSteppingPipeline[N]) {
		for _, n := range nodes {
			p.insertNow(n)
		}
	}
}
