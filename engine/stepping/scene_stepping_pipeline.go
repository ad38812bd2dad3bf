package stepping

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/job"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
)

// SceneSteppingPipeline advances a set of scene nodes by one frame per Step call.
//
// Every Step runs five phases in order, each over all qualifying nodes before the next starts:
// Update, StepPhysics, PostUpdate, PostEvents and Cleanup.
// Node-set membership must only be changed from the goroutine calling Step.
type SceneSteppingPipeline[N comparable] interface {
	// InsertSceneNode places node into the sets its callback predicates select.
	// Inserting a node that is already present re-evaluates the predicates.
	// During Step the insertion is queued and applied after Cleanup.
	//
	// Parameters:
	//   - node: the node to insert
	InsertSceneNode(node N)

	// RemoveSceneNode removes node from every set it was placed in.
	// During Step the node is skipped by the remaining phases and removed in Cleanup.
	// Removing an unknown node does nothing.
	//
	// Parameters:
	//   - node: the node to remove
	RemoveSceneNode(node N)

	// Step runs one frame. Calling Step from inside a callback of the same pipeline panics.
	//
	// Parameters:
	//   - dt: delta time in seconds
	Step(dt float32)

	// IsStepping reports whether Step is currently executing.
	//
	// Returns:
	//   - bool: true for the duration of Step
	IsStepping() bool

	// NotifyTransformed queues a transform notification for node, delivered once per frame
	// during PostEvents to the callback and every listener.
	//
	// Parameters:
	//   - node: the node whose transform changed
	NotifyTransformed(node N)

	// AddListener registers l to receive transform notifications.
	//
	// Parameters:
	//   - l: the listener
	AddListener(l SceneListener[N])

	// Contains reports whether node is inserted (queued insertions excluded).
	//
	// Returns:
	//   - bool: true if the node is present
	Contains(node N) bool

	// NodeCount returns the number of inserted nodes.
	//
	// Returns:
	//   - int: node count
	NodeCount() int

	// Frame returns the number of completed Step calls.
	//
	// Returns:
	//   - uint64: completed frame count
	Frame() uint64

	// PhaseTimings returns how long each phase of the last Step took.
	//
	// Returns:
	//   - PhaseTimings: per-phase durations
	PhaseTimings() PhaseTimings
}

// PhaseTimings holds the wall time spent in each phase of a Step.
type PhaseTimings struct {
	Update     time.Duration
	Physics    time.Duration
	PostUpdate time.Duration
	PostEvents time.Duration
	Cleanup    time.Duration
}

// Total returns the sum of all phase durations.
func (t PhaseTimings) Total() time.Duration {
	return t.Update + t.Physics + t.PostUpdate + t.PostEvents + t.Cleanup
}

// membership records which sets a node was placed into at insertion time.
type membership uint8

const (
	memberUpdate membership = 1 << iota
	memberPostUpdate
	memberDynamic
	memberDynamicPhysics
)

// sceneSteppingPipeline is the default implementation of SceneSteppingPipeline.
type sceneSteppingPipeline[N comparable] struct {
	callback  SceneCallback[N]
	listeners []SceneListener[N]
	logger    *slog.Logger

	members        map[N]membership
	update         *nodeSet[N]
	postUpdate     *nodeSet[N]
	dynamic        *nodeSet[N]
	dynamicPhysics *nodeSet[N]

	stepping atomic.Bool

	// Structural changes requested during Step.
	pendingRemoval map[N]struct{}
	removalOrder   []N
	pendingInsert  []N

	events      job.JobQueue
	notifiedMu  sync.Mutex
	notified    map[N]struct{}
	frame       uint64
	lastTimings PhaseTimings
}

var _ SceneSteppingPipeline[int] = &sceneSteppingPipeline[int]{}

// NewSceneSteppingPipeline creates the default pipeline driven by callback.
//
// Parameters:
//   - callback: the per-node policy (must not be nil)
//   - options: functional options for the pipeline
//
// Returns:
//   - SceneSteppingPipeline[N]: the new pipeline with no nodes
func NewSceneSteppingPipeline[N comparable](callback SceneCallback[N], options ...SceneSteppingPipelineBuilderOption[N]) SceneSteppingPipeline[N] {
	if callback == nil {
		panic("stepping: NewSceneSteppingPipeline requires a non-nil SceneCallback")
	}
	p := &sceneSteppingPipeline[N]{
		callback:       callback,
		members:        make(map[N]membership),
		update:         newNodeSet[N](),
		postUpdate:     newNodeSet[N](),
		dynamic:        newNodeSet[N](),
		dynamicPhysics: newNodeSet[N](),
		pendingRemoval: make(map[N]struct{}),
		notified:       make(map[N]struct{}),
		// Transform events are deduplicated per node before they are queued.
		events: job.NewJobQueue(job.WithCoalescePredicate(nil)),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *sceneSteppingPipeline[N]) InsertSceneNode(node N) {
	if p.stepping.Load() {
		p.pendingInsert = append(p.pendingInsert, node)
		return
	}
	p.insertNow(node)
}

func (p *sceneSteppingPipeline[N]) RemoveSceneNode(node N) {
	if p.stepping.Load() {
		p.cancelPendingInsert(node)
		if _, present := p.members[node]; !present {
			return
		}
		if _, already := p.pendingRemoval[node]; already {
			return
		}
		p.pendingRemoval[node] = struct{}{}
		p.removalOrder = append(p.removalOrder, node)
		return
	}
	p.removeNow(node)
}

func (p *sceneSteppingPipeline[N]) Step(dt float32) {
	if !p.stepping.CompareAndSwap(false, true) {
		panic("stepping: Step called while the pipeline is already stepping")
	}
	defer p.stepping.Store(false)

	var timings PhaseTimings
	start := time.Now()

	p.runUpdate(dt)
	now := time.Now()
	timings.Update, start = now.Sub(start), now

	p.runPhysics(dt)
	now = time.Now()
	timings.Physics, start = now.Sub(start), now

	p.runPostUpdate(dt)
	now = time.Now()
	timings.PostUpdate, start = now.Sub(start), now

	sent := p.runPostEvents()
	now = time.Now()
	timings.PostEvents, start = now.Sub(start), now

	p.runCleanup()
	timings.Cleanup = time.Since(start)

	p.lastTimings = timings
	p.frame++

	logging.Or(p.logger).Debug("scene stepped",
		"frame", p.frame,
		"nodes", len(p.members),
		"events", sent,
		"update", timings.Update,
		"physics", timings.Physics,
		"post_update", timings.PostUpdate,
		"post_events", timings.PostEvents,
		"cleanup", timings.Cleanup,
	)
}

func (p *sceneSteppingPipeline[N]) IsStepping() bool {
	return p.stepping.Load()
}

func (p *sceneSteppingPipeline[N]) NotifyTransformed(node N) {
	p.notifiedMu.Lock()
	if _, dup := p.notified[node]; dup {
		p.notifiedMu.Unlock()
		return
	}
	p.notified[node] = struct{}{}
	p.notifiedMu.Unlock()

	p.events.Push(job.NewJob(job.JobKindSceneEvent, func() {
		p.callback.OnSceneNodeTransformed(node)
		for _, l := range p.listeners {
			l.OnSceneNodeTransformed(node)
		}
	}))
}

func (p *sceneSteppingPipeline[N]) AddListener(l SceneListener[N]) {
	if l == nil {
		return
	}
	p.listeners = append(p.listeners, l)
}

func (p *sceneSteppingPipeline[N]) Contains(node N) bool {
	_, ok := p.members[node]
	return ok
}

func (p *sceneSteppingPipeline[N]) NodeCount() int {
	return len(p.members)
}

func (p *sceneSteppingPipeline[N]) Frame() uint64 {
	return p.frame
}

func (p *sceneSteppingPipeline[N]) PhaseTimings() PhaseTimings {
	return p.lastTimings
}

// runUpdate calls UpdateSceneNode for every requires-update node that is not static.
func (p *sceneSteppingPipeline[N]) runUpdate(dt float32) {
	for _, node := range p.update.nodes {
		if !p.dynamic.contains(node) || p.isRemoving(node) {
			continue
		}
		p.callback.UpdateSceneNode(node, dt)
	}
}

// runPhysics steps the world once, then syncs every dynamic physics node from it.
func (p *sceneSteppingPipeline[N]) runPhysics(dt float32) {
	p.callback.StepPhysics(dt)
	for _, node := range p.dynamicPhysics.nodes {
		if p.isRemoving(node) {
			continue
		}
		if p.callback.UpdateSceneNodePhysicsTransform(node) {
			p.NotifyTransformed(node)
		}
	}
}

func (p *sceneSteppingPipeline[N]) runPostUpdate(dt float32) {
	for _, node := range p.postUpdate.nodes {
		if p.isRemoving(node) {
			continue
		}
		p.callback.PostUpdateSceneNode(node, dt)
	}
}

// runPostEvents delivers the notifications queued since the previous flush.
// Notifications raised by listeners during the flush are delivered next frame.
func (p *sceneSteppingPipeline[N]) runPostEvents() int {
	p.events.PumpJobs()

	p.notifiedMu.Lock()
	clear(p.notified)
	p.notifiedMu.Unlock()

	sent := 0
	for p.events.FrontLen() > 0 {
		p.events.Pop()
		sent++
	}
	return sent
}

// runCleanup finalizes deferred removals, including removals requested by OnSceneNodeRemoved
// itself, then applies queued insertions.
func (p *sceneSteppingPipeline[N]) runCleanup() {
	for len(p.removalOrder) > 0 || len(p.pendingInsert) > 0 {
		for len(p.removalOrder) > 0 {
			batch := p.removalOrder
			p.removalOrder = nil
			for _, node := range batch {
				delete(p.pendingRemoval, node)
				p.removeNow(node)
			}
		}

		if len(p.pendingInsert) > 0 {
			batch := p.pendingInsert
			p.pendingInsert = nil
			for _, node := range batch {
				p.insertNow(node)
			}
		}
	}
}

func (p *sceneSteppingPipeline[N]) insertNow(node N) {
	if m, present := p.members[node]; present {
		p.detach(node, m)
	}

	var m membership
	static := p.callback.IsSceneNodeStatic(node)
	if p.callback.DoesSceneNodeRequireUpdate(node) {
		p.update.add(node)
		m |= memberUpdate
	}
	if p.callback.DoesSceneNodeRequirePostUpdate(node) {
		p.postUpdate.add(node)
		m |= memberPostUpdate
	}
	if !static {
		p.dynamic.add(node)
		m |= memberDynamic
		if p.callback.IsPhysicsObject(node) {
			p.dynamicPhysics.add(node)
			m |= memberDynamicPhysics
		}
	}
	p.members[node] = m
	p.callback.OnSceneNodeInserted(node)
}

func (p *sceneSteppingPipeline[N]) removeNow(node N) {
	m, present := p.members[node]
	if !present {
		return
	}
	p.detach(node, m)
	delete(p.members, node)
	p.callback.OnSceneNodeRemoved(node)
}

// detach removes node from the sets recorded in m.
func (p *sceneSteppingPipeline[N]) detach(node N, m membership) {
	if m&memberUpdate != 0 {
		p.update.remove(node)
	}
	if m&memberPostUpdate != 0 {
		p.postUpdate.remove(node)
	}
	if m&memberDynamic != 0 {
		p.dynamic.remove(node)
	}
	if m&memberDynamicPhysics != 0 {
		p.dynamicPhysics.remove(node)
	}
}

func (p *sceneSteppingPipeline[N]) isRemoving(node N) bool {
	if len(p.pendingRemoval) == 0 {
		return false
	}
	_, ok := p.pendingRemoval[node]
	return ok
}

func (p *sceneSteppingPipeline[N]) cancelPendingInsert(node N) {
	for i := 0; i < len(p.pendingInsert); {
		if p.pendingInsert[i] == node {
			p.pendingInsert = append(p.pendingInsert[:i], p.pendingInsert[i+1:]...)
			continue
		}
		i++
	}
}

// String implements fmt.Stringer for debugging output.
func (p *sceneSteppingPipeline[N]) String() string {
	return fmt.Sprintf("SceneSteppingPipeline{nodes: %d, update: %d, post_update: %d, dynamic: %d, dynamic_physics: %d, frame: %d}",
		len(p.members), p.update.len(), p.postUpdate.len(), p.dynamic.len(), p.dynamicPhysics.len(), p.frame)
}
