package diagram

import (
	"math"
)

// =============================================================================
// Direction - Port Orientation
// =============================================================================

// Direction names the side of a node a port sits on.
type Direction string

// Port directions.
const (
	DirTop    Direction = "top"
	DirRight  Direction = "right"
	DirBottom Direction = "bottom"
	DirLeft   Direction = "left"
)

// Directions lists every port direction in clockwise order starting at the top.
var Directions = []Direction{DirTop, DirRight, DirBottom, DirLeft}

// Valid reports whether d is one of the four port directions.
func (d Direction) Valid() bool {
	switch d {
	case DirTop, DirRight, DirBottom, DirLeft:
		return true
	}
	return false
}

// Opposite returns the direction facing d.
func (d Direction) Opposite() Direction {
	switch d {
	case DirTop:
		return DirBottom
	case DirRight:
		return DirLeft
	case DirBottom:
		return DirTop
	case DirLeft:
		return DirRight
	default:
		return d
	}
}

// Horizontal reports whether d points along the x axis.
func (d Direction) Horizontal() bool { return d == DirLeft || d == DirRight }

// Vector returns the unit step pointing away from the node.
func (d Direction) Vector() Point {
	switch d {
	case DirTop:
		return Point{0, -1}
	case DirRight:
		return Point{1, 0}
	case DirBottom:
		return Point{0, 1}
	case DirLeft:
		return Point{-1, 0}
	}
	return Point{}
}

// =============================================================================
// Geometry Primitives
// =============================================================================

// Point is a position in graph space unless stated otherwise.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right side.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom side.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Inflate grows r by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Side returns the midpoint of the side of r facing dir.
func (r Rect) Side(dir Direction) Point {
	c := r.Center()
	switch dir {
	case DirTop:
		return Point{c.X, r.Y}
	case DirRight:
		return Point{r.Right(), c.Y}
	case DirBottom:
		return Point{c.X, r.Bottom()}
	case DirLeft:
		return Point{r.X, c.Y}
	}
	return c
}

// BoundsOf returns the smallest rectangle containing every point.
// Returns the zero Rect for an empty slice.
func BoundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// =============================================================================
// Model Elements
// =============================================================================

// Node is a box placed inside a lane. X and Y are relative to the lane's
// column start and top; W and H fall back to the configured defaults when zero.
type Node struct {
	ID     string         `json:"id" bson:"id"`
	Type   string         `json:"type,omitempty" bson:"type,omitempty"`
	Label  string         `json:"label,omitempty" bson:"label,omitempty"`
	LaneID string         `json:"laneId,omitempty" bson:"laneId,omitempty"`
	X      float64        `json:"x" bson:"x"`
	Y      float64        `json:"y" bson:"y"`
	W      float64        `json:"w,omitempty" bson:"w,omitempty"`
	H      float64        `json:"h,omitempty" bson:"h,omitempty"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge connects a port on one node to a port on another. Points caches the
// routed path in graph space as last committed.
type Edge struct {
	ID        string    `json:"id" bson:"id"`
	SourceID  string    `json:"sourceId" bson:"sourceId"`
	TargetID  string    `json:"targetId" bson:"targetId"`
	SourceDir Direction `json:"sourceDir" bson:"sourceDir"`
	TargetDir Direction `json:"targetDir" bson:"targetDir"`
	Points    []Point   `json:"points,omitempty" bson:"points,omitempty"`
	Animated  bool      `json:"animated,omitempty" bson:"animated,omitempty"`
	Label     string    `json:"label,omitempty" bson:"label,omitempty"`
}

// Connects reports whether the edge joins a and b in either direction.
func (e *Edge) Connects(a, b string) bool {
	return (e.SourceID == a && e.TargetID == b) || (e.SourceID == b && e.TargetID == a)
}

// Touches reports whether nodeID is one of the edge's endpoints.
func (e *Edge) Touches(nodeID string) bool {
	return e.SourceID == nodeID || e.TargetID == nodeID
}

// Lane is a horizontal band. Traversal order always comes from Order, never
// from the lane's position in [Graph.Lanes]. A zero H means the default height.
type Lane struct {
	ID    string  `json:"id" bson:"id"`
	Label string  `json:"label,omitempty" bson:"label,omitempty"`
	Order int     `json:"order" bson:"order"`
	H     float64 `json:"h,omitempty" bson:"h,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (l *Lane) DisplayLabel() string {
	if l.Label != "" {
		return l.Label
	}
	return l.ID
}
