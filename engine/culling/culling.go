// Package culling tracks world-space bounding spheres of scene objects and answers
// visibility queries against the camera frustum.
package culling

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/game_object"
)

// CullingManager receives bound updates whenever an object's extent may have changed.
type CullingManager interface {
	// UpdateBounds recomputes the world bounding sphere of obj.
	//
	// Parameters:
	//   - obj: the object whose bounds changed
	UpdateBounds(obj game_object.GameObject)
}

// Sphere is a world-space bounding sphere.
type Sphere struct {
	Center [3]float32
	Radius float32
}

// FrustumCullingManager is a CullingManager that tests stored spheres against a view frustum.
type FrustumCullingManager interface {
	CullingManager

	// SetViewProjection replaces the frustum used by Visible.
	//
	// Parameters:
	//   - viewProj: column-major view-projection matrix (16 elements)
	SetViewProjection(viewProj []float32)

	// Visible reports whether obj may be on screen. Objects without recorded bounds and
	// managers without a view-projection always report true.
	//
	// Parameters:
	//   - obj: the object to test
	//
	// Returns:
	//   - bool: false if obj is certainly outside the frustum
	Visible(obj game_object.GameObject) bool

	// Bounds returns the recorded sphere for obj.
	Bounds(obj game_object.GameObject) (Sphere, bool)

	// Forget drops the recorded sphere for obj.
	Forget(obj game_object.GameObject)

	// Len returns the number of objects with recorded bounds.
	Len() int
}

type frustumCullingManager struct {
	mu         sync.RWMutex
	spheres    map[uint64]Sphere
	frustum    common.Frustum
	hasFrustum bool
}

var _ FrustumCullingManager = &frustumCullingManager{}

// NewFrustumCullingManager creates an empty manager with no frustum set.
//
// Returns:
//   - FrustumCullingManager: the new manager
func NewFrustumCullingManager() FrustumCullingManager {
	return &frustumCullingManager{spheres: make(map[uint64]Sphere)}
}

func (m *frustumCullingManager) UpdateBounds(obj game_object.GameObject) {
	s := WorldSphere(obj)
	m.mu.Lock()
	m.spheres[obj.ID()] = s
	m.mu.Unlock()
}

func (m *frustumCullingManager) SetViewProjection(viewProj []float32) {
	f := common.ExtractFrustumFromMatrix(viewProj)
	m.mu.Lock()
	m.frustum = f
	m.hasFrustum = true
	m.mu.Unlock()
}

func (m *frustumCullingManager) Visible(obj game_object.GameObject) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasFrustum {
		return true
	}
	s, ok := m.spheres[obj.ID()]
	if !ok {
		return true
	}
	return m.frustum.ContainsSphere(s.Center, s.Radius)
}

func (m *frustumCullingManager) Bounds(obj game_object.GameObject) (Sphere, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.spheres[obj.ID()]
	return s, ok
}

func (m *frustumCullingManager) Forget(obj game_object.GameObject) {
	m.mu.Lock()
	delete(m.spheres, obj.ID())
	m.mu.Unlock()
}

func (m *frustumCullingManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.spheres)
}

// WorldSphere computes the bounding sphere of obj in world space.
// A playing particle system with live particles wins over the model bounds; objects
// with neither get a zero-radius sphere at their position.
//
// Parameters:
//   - obj: the object to measure
//
// Returns:
//   - Sphere: the world-space sphere
func WorldSphere(obj game_object.GameObject) Sphere {
	if ps := obj.Particles(); ps != nil && ps.Count() > 0 {
		c, r := ps.Bounds()
		return Sphere{Center: c, Radius: r}
	}
	x, y, z := obj.Position()
	if pb := obj.Playback(); pb != nil {
		m := obj.ModelMatrix()
		b := pb.Model().Bounds()
		sx, sy, sz := obj.Scale()
		return Sphere{
			Center: common.TransformPoint(m[:], b.Center()),
			Radius: pb.Model().BoundingRadius() * common.MaxAbs([3]float32{sx, sy, sz}),
		}
	}
	return Sphere{Center: [3]float32{x, y, z}}
}
