package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func viewProjection() []float32 {
	view := make([]float32, 16)
	proj := make([]float32, 16)
	vp := make([]float32, 16)
	LookAt(view, [3]float32{0, 0, 10}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	Perspective(proj, math32.Pi/2, 1, 0.1, 100)
	Mul4(vp, proj, view)
	return vp
}

func TestFrustumContainsSphere(t *testing.T) {
	f := ExtractFrustumFromMatrix(viewProjection())

	cases := map[string]struct {
		center [3]float32
		radius float32
		want   bool
	}{
		"origin":             {[3]float32{0, 0, 0}, 1, true},
		"behind camera":      {[3]float32{0, 0, 20}, 1, false},
		"beyond far plane":   {[3]float32{0, 0, -200}, 1, false},
		"far left":           {[3]float32{-50, 0, 0}, 1, false},
		"straddles left":     {[3]float32{-10.5, 0, 0}, 1, true},
		"above top":          {[3]float32{0, 30, 0}, 1, false},
		"large sphere above": {[3]float32{0, 30, 0}, 25, true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.ContainsSphere(tc.center, tc.radius))
		})
	}
}

func TestBuildModelMatrixTransformsPoint(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, [3]float32{1, 2, 3}, [3]float32{0, math32.Pi / 2, 0}, [3]float32{2, 2, 2})

	p := TransformPoint(m, [3]float32{1, 0, 0})
	assert.InDelta(t, 1, p[0], 1e-5)
	assert.InDelta(t, 2, p[1], 1e-5)
	assert.InDelta(t, 1, p[2], 1e-5)
}

func TestMul4Identity(t *testing.T) {
	id := make([]float32, 16)
	Identity(id)
	vp := viewProjection()
	out := make([]float32, 16)
	Mul4(out, id, vp)
	assert.Equal(t, vp, out)
}

func TestMaxAbs(t *testing.T) {
	assert.Equal(t, float32(4), MaxAbs([3]float32{1, -4, 2}))
}
