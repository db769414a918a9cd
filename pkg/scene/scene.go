// Package scene answers geometric questions about a diagram in graph space:
// where each node's box, port and edge path currently is, and where each
// lane's band and header lie.
//
// A Scene layers transient visual overrides on top of the model. While a
// gesture is in flight the interaction engine writes node positions to the
// override map instead of the model; renderers and hit testing read through
// the scene and so see the in-flight position, while the model keeps the last
// committed one. At gesture end the override is either committed to the model
// or discarded.
package scene

import (
	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/lanes"
	"github.com/matzehuels/swimlane/pkg/route"
)

// Geometry holds node sizing defaults.
type Geometry struct {
	NodeWidth  float64 `toml:"width"`
	NodeHeight float64 `toml:"height"`
	PortRadius float64 `toml:"port_radius"`
}

// DefaultGeometry returns the sizes used when none are configured.
func DefaultGeometry() Geometry {
	return Geometry{NodeWidth: 120, NodeHeight: 60, PortRadius: 8}
}

// Router computes an edge path between two ports.
type Router func(start, end diagram.Point, sourceDir, targetDir diagram.Direction) route.Path

// PortAnchor is a port position in graph space.
type PortAnchor struct {
	NodeID string
	Dir    diagram.Direction
	Point  diagram.Point
}

// Scene is a geometry view over a graph. It is not safe for concurrent use.
type Scene struct {
	Graph    *diagram.Graph
	Lanes    lanes.Config
	Geometry Geometry
	Router   Router

	overrides map[string]diagram.Point
	live      map[string]route.Path
}

// New creates a scene over g.
func New(g *diagram.Graph, lc lanes.Config, geo Geometry) *Scene {
	return &Scene{
		Graph:     g,
		Lanes:     lc,
		Geometry:  geo,
		Router:    route.CalcManhattanPath,
		overrides: make(map[string]diagram.Point),
		live:      make(map[string]route.Path),
	}
}

// =============================================================================
// Nodes and Ports
// =============================================================================

func (s *Scene) size(n *diagram.Node) (float64, float64) {
	w, h := n.W, n.H
	if w <= 0 {
		w = s.Geometry.NodeWidth
	}
	if h <= 0 {
		h = s.Geometry.NodeHeight
	}
	return w, h
}

// ModelBox returns the node's box at its committed model position.
func (s *Scene) ModelBox(id string) (diagram.Rect, bool) {
	n, ok := s.Graph.Node(id)
	if !ok {
		return diagram.Rect{}, false
	}
	p := s.Lanes.ToWorld(diagram.Point{X: n.X, Y: n.Y}, n.LaneID, s.Graph.Lanes)
	w, h := s.size(n)
	return diagram.Rect{X: p.X, Y: p.Y, W: w, H: h}, true
}

// NodeBox returns the node's live box: its override position when one is
// set, its model position otherwise.
func (s *Scene) NodeBox(id string) (diagram.Rect, bool) {
	box, ok := s.ModelBox(id)
	if !ok {
		return box, false
	}
	if p, ok := s.overrides[id]; ok {
		box.X, box.Y = p.X, p.Y
	}
	return box, true
}

// Port returns the live anchor of a node port.
func (s *Scene) Port(id string, dir diagram.Direction) (diagram.Point, bool) {
	box, ok := s.NodeBox(id)
	if !ok || !dir.Valid() {
		return diagram.Point{}, false
	}
	return box.Side(dir), true
}

// Ports returns every port anchor in paint order.
func (s *Scene) Ports() []PortAnchor {
	out := make([]PortAnchor, 0, 4*len(s.Graph.Nodes))
	for _, n := range s.Graph.Nodes {
		box, _ := s.NodeBox(n.ID)
		for _, d := range diagram.Directions {
			out = append(out, PortAnchor{NodeID: n.ID, Dir: d, Point: box.Side(d)})
		}
	}
	return out
}

// =============================================================================
// Visual Overrides
// =============================================================================

// SetOverride places node id at world position p without touching the model.
func (s *Scene) SetOverride(id string, p diagram.Point) {
	s.overrides[id] = p
}

// Override returns the override position of node id, if any.
func (s *Scene) Override(id string) (diagram.Point, bool) {
	p, ok := s.overrides[id]
	return p, ok
}

// ClearOverride drops the override of node id and any live edge paths that
// were computed from it.
func (s *Scene) ClearOverride(id string) {
	delete(s.overrides, id)
	for _, e := range s.Graph.EdgesOf(id) {
		delete(s.live, e.ID)
	}
}

// Reset drops every override and live edge path.
func (s *Scene) Reset() {
	clear(s.overrides)
	clear(s.live)
}

// =============================================================================
// Edges
// =============================================================================

// RouteEdge computes a fresh path for e from the live port anchors.
func (s *Scene) RouteEdge(e *diagram.Edge) (route.Path, bool) {
	start, ok1 := s.Port(e.SourceID, e.SourceDir)
	end, ok2 := s.Port(e.TargetID, e.TargetDir)
	if !ok1 || !ok2 {
		return nil, false
	}
	return s.Router(start, end, e.SourceDir, e.TargetDir), true
}

// EdgePath returns the live path of e: a path recomputed during the current
// gesture when present, the committed points otherwise, and a freshly routed
// path for edges that have never been routed.
func (s *Scene) EdgePath(e *diagram.Edge) route.Path {
	if p, ok := s.live[e.ID]; ok {
		return p
	}
	if len(e.Points) >= 2 {
		return route.Path(e.Points)
	}
	p, _ := s.RouteEdge(e)
	return p
}

// RefreshConnected recomputes the live paths of every edge attached to
// nodeID. The model's edge points are left alone.
func (s *Scene) RefreshConnected(nodeID string) {
	for _, e := range s.Graph.EdgesOf(nodeID) {
		if p, ok := s.RouteEdge(e); ok {
			s.live[e.ID] = p
		}
	}
}

// CommitEdges writes freshly routed points for every edge attached to nodeID
// into the model and drops their live paths.
func (s *Scene) CommitEdges(nodeID string) {
	for _, e := range s.Graph.EdgesOf(nodeID) {
		if p, ok := s.RouteEdge(e); ok {
			e.Points = p.Points()
		}
		delete(s.live, e.ID)
	}
}

// RerouteAll recomputes and commits the points of every edge.
func (s *Scene) RerouteAll() {
	for _, e := range s.Graph.Edges {
		if p, ok := s.RouteEdge(e); ok {
			e.Points = p.Points()
		}
	}
	clear(s.live)
}

// =============================================================================
// Lanes
// =============================================================================

// LaneBand returns the world rectangle of a lane.
func (s *Scene) LaneBand(id string) (diagram.Rect, bool) {
	return s.Lanes.Band(s.Graph.Lanes, id)
}

// LaneHeader returns the world rectangle of a lane's header strip.
func (s *Scene) LaneHeader(id string) (diagram.Rect, bool) {
	return s.Lanes.Header(s.Graph.Lanes, id)
}

// Bounds returns a rectangle enclosing every lane, node and edge.
func (s *Scene) Bounds() diagram.Rect {
	var pts []diagram.Point
	for _, l := range s.Graph.Lanes {
		if r, ok := s.LaneBand(l.ID); ok {
			pts = append(pts, diagram.Point{X: r.X, Y: r.Y}, diagram.Point{X: r.Right(), Y: r.Bottom()})
		}
	}
	for _, n := range s.Graph.Nodes {
		if r, ok := s.NodeBox(n.ID); ok {
			pts = append(pts, diagram.Point{X: r.X, Y: r.Y}, diagram.Point{X: r.Right(), Y: r.Bottom()})
		}
	}
	for _, e := range s.Graph.Edges {
		pts = append(pts, s.EdgePath(e)...)
	}
	return diagram.BoundsOf(pts)
}
