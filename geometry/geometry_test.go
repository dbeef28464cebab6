package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"board/diagram"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(42, 0, 10))
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(diagram.Point{X: 0, Y: 0}, diagram.Point{X: 3, Y: 4}))
	assert.Equal(t, 0.0, Distance(diagram.Point{X: 7, Y: 7}, diagram.Point{X: 7, Y: 7}))
}

func TestAnchorPosition(t *testing.T) {
	rect := diagram.Rect{X: 100, Y: 200, Width: 80, Height: 40}

	tests := []struct {
		anchor diagram.AnchorPoint
		want   diagram.Point
	}{
		{diagram.AnchorTop, diagram.Point{X: 140, Y: 200}},
		{diagram.AnchorBottom, diagram.Point{X: 140, Y: 240}},
		{diagram.AnchorLeft, diagram.Point{X: 100, Y: 220}},
		{diagram.AnchorRight, diagram.Point{X: 180, Y: 220}},
		{diagram.AnchorAuto, diagram.Point{X: 140, Y: 220}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AnchorPosition(rect, tt.anchor), "anchor %s", tt.anchor)
	}
}

func TestBestAnchorsFacePlacement(t *testing.T) {
	base := diagram.Rect{X: 0, Y: 0, Width: 100, Height: 50}

	tests := []struct {
		name       string
		target     diagram.Rect
		wantSource diagram.AnchorPoint
		wantTarget diagram.AnchorPoint
	}{
		{"target right", diagram.Rect{X: 300, Y: 0, Width: 100, Height: 50}, diagram.AnchorRight, diagram.AnchorLeft},
		{"target left", diagram.Rect{X: -300, Y: 0, Width: 100, Height: 50}, diagram.AnchorLeft, diagram.AnchorRight},
		{"target below", diagram.Rect{X: 0, Y: 300, Width: 100, Height: 50}, diagram.AnchorBottom, diagram.AnchorTop},
		{"target above", diagram.Rect{X: 0, Y: -300, Width: 100, Height: 50}, diagram.AnchorTop, diagram.AnchorBottom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, target := BestAnchors(base, tt.target)
			assert.Equal(t, tt.wantSource, source)
			assert.Equal(t, tt.wantTarget, target)
		})
	}
}

func TestOrthogonalPathShapes(t *testing.T) {
	start := diagram.Point{X: 0, Y: 0}
	end := diagram.Point{X: 100, Y: 60}

	// Horizontal exits on both ends: vertical jog at the midpoint.
	path := OrthogonalPath(start, end, diagram.AnchorRight, diagram.AnchorLeft)
	assert.Equal(t, []diagram.Point{
		{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 60}, {X: 100, Y: 60},
	}, path)

	// Vertical exits on both ends: horizontal jog at the midpoint.
	path = OrthogonalPath(start, end, diagram.AnchorBottom, diagram.AnchorTop)
	assert.Equal(t, []diagram.Point{
		{X: 0, Y: 0}, {X: 0, Y: 30}, {X: 100, Y: 30}, {X: 100, Y: 60},
	}, path)

	// Mixed exits: a single elbow.
	path = OrthogonalPath(start, end, diagram.AnchorRight, diagram.AnchorTop)
	assert.Equal(t, []diagram.Point{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 60},
	}, path)

	path = OrthogonalPath(start, end, diagram.AnchorBottom, diagram.AnchorLeft)
	assert.Equal(t, []diagram.Point{
		{X: 0, Y: 0}, {X: 0, Y: 60}, {X: 100, Y: 60},
	}, path)
}

func TestCoordinateTransformsInvert(t *testing.T) {
	v := diagram.Viewport{X: 120, Y: -40, Zoom: 1.5}
	canvas := diagram.Point{X: 200, Y: 300}

	screen := CanvasToScreen(canvas, v)
	back := ScreenToCanvas(screen, v)

	assert.InDelta(t, canvas.X, back.X, 1e-9)
	assert.InDelta(t, canvas.Y, back.Y, 1e-9)
}

func TestScreenToCanvasAtIdentityViewport(t *testing.T) {
	v := diagram.DefaultViewport()
	p := diagram.Point{X: 33, Y: 44}
	assert.Equal(t, p, ScreenToCanvas(p, v))
}
