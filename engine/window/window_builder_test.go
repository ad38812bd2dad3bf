package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsWithoutPlatformWindow(t *testing.T) {
	w := &engineWindow{resizable: true}
	w.setSize(1280, 720)

	WithSize(0, 480)(w)
	assert.Equal(t, 1280, w.Width(), "non-positive size keeps the current one")

	for _, opt := range []WindowBuilderOption{
		WithTitle("frames"),
		WithSize(800, 600),
		WithSizeLimits(320, 0, 1920, 1080),
		WithResizable(false),
	} {
		opt(w)
	}

	assert.Equal(t, "frames", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.False(t, w.resizable)

	minW, minH, maxW, maxH := w.sizeLimits(-1)
	assert.Equal(t, []int{320, -1, 1920, 1080}, []int{minW, minH, maxW, maxH}, "unset sides are left to the platform")
}
