// Package geometry provides the pure spatial math used by the canvas:
// anchor resolution on element rectangles, orthogonal connector paths and
// viewport coordinate transforms.
package geometry

import (
	"math"

	"board/diagram"
)

// Clamp limits value to the [min, max] range.
func Clamp(value, min, max float64) float64 {
	return math.Min(math.Max(value, min), max)
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b diagram.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// AnchorPosition resolves an anchor point to document coordinates on the
// element's rectangle. AnchorAuto resolves to the center; the renderer picks
// the real side via BestAnchors.
func AnchorPosition(rect diagram.Rect, anchor diagram.AnchorPoint) diagram.Point {
	switch anchor {
	case diagram.AnchorTop:
		return diagram.Point{X: rect.X + rect.Width/2, Y: rect.Y}
	case diagram.AnchorBottom:
		return diagram.Point{X: rect.X + rect.Width/2, Y: rect.Y + rect.Height}
	case diagram.AnchorLeft:
		return diagram.Point{X: rect.X, Y: rect.Y + rect.Height/2}
	case diagram.AnchorRight:
		return diagram.Point{X: rect.X + rect.Width, Y: rect.Y + rect.Height/2}
	default:
		return rect.Center()
	}
}

// BestAnchors picks the pair of sides facing each other given the relative
// placement of the two rectangles.
func BestAnchors(source, target diagram.Rect) (diagram.AnchorPoint, diagram.AnchorPoint) {
	sc := source.Center()
	tc := target.Center()

	dx := tc.X - sc.X
	dy := tc.Y - sc.Y

	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return diagram.AnchorRight, diagram.AnchorLeft
		}
		return diagram.AnchorLeft, diagram.AnchorRight
	}
	if dy > 0 {
		return diagram.AnchorBottom, diagram.AnchorTop
	}
	return diagram.AnchorTop, diagram.AnchorBottom
}

// OrthogonalPath returns the waypoints of an axis-aligned path from start to
// end, including both endpoints. The shape depends on which axes the two
// anchors leave their elements on.
func OrthogonalPath(start, end diagram.Point, sourceAnchor, targetAnchor diagram.AnchorPoint) []diagram.Point {
	midX := (start.X + end.X) / 2
	midY := (start.Y + end.Y) / 2

	horizontalSource := sourceAnchor == diagram.AnchorLeft || sourceAnchor == diagram.AnchorRight
	horizontalTarget := targetAnchor == diagram.AnchorLeft || targetAnchor == diagram.AnchorRight

	switch {
	case horizontalSource && horizontalTarget:
		return []diagram.Point{
			start,
			{X: midX, Y: start.Y},
			{X: midX, Y: end.Y},
			end,
		}
	case !horizontalSource && !horizontalTarget:
		return []diagram.Point{
			start,
			{X: start.X, Y: midY},
			{X: end.X, Y: midY},
			end,
		}
	case horizontalSource:
		return []diagram.Point{
			start,
			{X: end.X, Y: start.Y},
			end,
		}
	default:
		return []diagram.Point{
			start,
			{X: start.X, Y: end.Y},
			end,
		}
	}
}

// ScreenToCanvas converts a screen-space point into document space.
func ScreenToCanvas(screen diagram.Point, v diagram.Viewport) diagram.Point {
	return diagram.Point{
		X: (screen.X - v.X) / v.Zoom,
		Y: (screen.Y - v.Y) / v.Zoom,
	}
}

// CanvasToScreen converts a document-space point into screen space.
func CanvasToScreen(canvas diagram.Point, v diagram.Viewport) diagram.Point {
	return diagram.Point{
		X: canvas.X*v.Zoom + v.X,
		Y: canvas.Y*v.Zoom + v.Y,
	}
}
