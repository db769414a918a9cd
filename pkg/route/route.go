// Package route computes orthogonal ("Manhattan") edge paths between node
// ports and answers distance queries against them.
//
// The same routing function serves the permanent renderer and the live
// connection preview, so a preview always matches the edge that will be
// committed.
package route

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/swimlane/pkg/diagram"
)

// DefaultStub is how far a path leaves a port before its first turn.
const DefaultStub = 20.0

// Path is a polyline in graph space.
type Path []diagram.Point

// CalcManhattanPath routes an orthogonal path from start, leaving in
// direction sourceDir, to end, entering from targetDir. An empty targetDir is
// inferred from the relative position of the endpoints.
func CalcManhattanPath(start, end diagram.Point, sourceDir, targetDir diagram.Direction) Path {
	return calc(start, end, sourceDir, targetDir, DefaultStub)
}

// InferTargetDir picks the port side of a point at end that faces start.
func InferTargetDir(start, end diagram.Point) diagram.Direction {
	dx, dy := end.X-start.X, end.Y-start.Y
	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return diagram.DirLeft
		}
		return diagram.DirRight
	}
	if dy >= 0 {
		return diagram.DirTop
	}
	return diagram.DirBottom
}

func calc(start, end diagram.Point, src, dst diagram.Direction, stub float64) Path {
	if !src.Valid() {
		src = InferTargetDir(end, start)
	}
	if !dst.Valid() {
		dst = InferTargetDir(start, end)
	}

	s1 := start.Add(src.Vector().Scale(stub))
	e1 := end.Add(dst.Vector().Scale(stub))

	midX, midY := (s1.X+e1.X)/2, (s1.Y+e1.Y)/2
	v := src.Vector()
	// Facing ports whose stubs have crossed detour around instead of
	// doubling back over the stub.
	crossed := dst == src.Opposite() && (e1.X-s1.X)*v.X+(e1.Y-s1.Y)*v.Y < 0

	pts := Path{start, s1}
	switch {
	case src.Horizontal() && dst.Horizontal() && crossed:
		pts = append(pts, diagram.Point{X: s1.X, Y: midY}, diagram.Point{X: e1.X, Y: midY})
	case src.Horizontal() && dst.Horizontal():
		pts = append(pts, diagram.Point{X: midX, Y: s1.Y}, diagram.Point{X: midX, Y: e1.Y})
	case !src.Horizontal() && !dst.Horizontal() && crossed:
		pts = append(pts, diagram.Point{X: midX, Y: s1.Y}, diagram.Point{X: midX, Y: e1.Y})
	case !src.Horizontal() && !dst.Horizontal():
		pts = append(pts, diagram.Point{X: s1.X, Y: midY}, diagram.Point{X: e1.X, Y: midY})
	case src.Horizontal():
		pts = append(pts, diagram.Point{X: e1.X, Y: s1.Y})
	default:
		pts = append(pts, diagram.Point{X: s1.X, Y: e1.Y})
	}
	pts = append(pts, e1, end)
	return pts.Simplify()
}

// Simplify drops repeated points and interior points lying on a straight
// segment.
func (p Path) Simplify() Path {
	if len(p) < 3 {
		return p
	}
	out := Path{p[0]}
	for _, pt := range p[1:] {
		if pt == out[len(out)-1] {
			continue
		}
		if n := len(out); n >= 2 && collinear(out[n-2], out[n-1], pt) {
			out[n-1] = pt
			continue
		}
		out = append(out, pt)
	}
	return out
}

func collinear(a, b, c diagram.Point) bool {
	const eps = 1e-9
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if math.Abs(cross) > eps {
		return false
	}
	// Reversals are kept: b must lie between a and c.
	dot := (b.X-a.X)*(c.X-b.X) + (b.Y-a.Y)*(c.Y-b.Y)
	return dot >= 0
}

// Length returns the total arc length.
func (p Path) Length() float64 {
	var l float64
	for i := 1; i < len(p); i++ {
		l += p[i-1].Dist(p[i])
	}
	return l
}

// Bounds returns the bounding rectangle of the path.
func (p Path) Bounds() diagram.Rect {
	return diagram.BoundsOf(p)
}

// Projection is the closest point on a path to a query point.
type Projection struct {
	Point diagram.Point
	Dist  float64
	// T is the parametric position along the path by arc length, in [0, 1].
	T float64
}

// ClosestPoint projects q onto the path. ok is false for an empty path.
func (p Path) ClosestPoint(q diagram.Point) (Projection, bool) {
	switch len(p) {
	case 0:
		return Projection{}, false
	case 1:
		return Projection{Point: p[0], Dist: p[0].Dist(q)}, true
	}

	total := p.Length()
	best := Projection{Dist: math.Inf(1)}
	var walked float64
	for i := 1; i < len(p); i++ {
		a, b := p[i-1], p[i]
		seg := a.Dist(b)
		u := projectOnSegment(a, b, q)
		pt := diagram.Point{X: a.X + (b.X-a.X)*u, Y: a.Y + (b.Y-a.Y)*u}
		if d := pt.Dist(q); d < best.Dist {
			best.Point = pt
			best.Dist = d
			if total > 0 {
				best.T = (walked + seg*u) / total
			}
		}
		walked += seg
	}
	return best, true
}

func projectOnSegment(a, b, q diagram.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return 0
	}
	u := ((q.X-a.X)*dx + (q.Y-a.Y)*dy) / l2
	return math.Max(0, math.Min(1, u))
}

// PointAt returns the point at parametric position t along the path.
func (p Path) PointAt(t float64) diagram.Point {
	if len(p) == 0 {
		return diagram.Point{}
	}
	t = math.Max(0, math.Min(1, t))
	target := t * p.Length()
	for i := 1; i < len(p); i++ {
		seg := p[i-1].Dist(p[i])
		if target <= seg && seg > 0 {
			u := target / seg
			return diagram.Point{X: p[i-1].X + (p[i].X-p[i-1].X)*u, Y: p[i-1].Y + (p[i].Y-p[i-1].Y)*u}
		}
		target -= seg
	}
	return p[len(p)-1]
}

// SVG returns the path as an SVG path "d" attribute.
func (p Path) SVG() string {
	var b strings.Builder
	for i, pt := range p {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s %.1f %.1f", cmd, pt.X, pt.Y)
	}
	return b.String()
}

// Points returns the path as a plain slice for storing on a model edge.
func (p Path) Points() []diagram.Point {
	return append([]diagram.Point(nil), p...)
}
