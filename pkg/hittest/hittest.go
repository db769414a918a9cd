// Package hittest resolves a graph-space point to the single best semantic
// target under it: a node, an edge, or a lane header.
//
// Resolution is a direct spatial query over the scene rather than a walk of
// rendered layers. Candidates are classified by role, edges are matched by
// their distance to the point, and the winner is picked by a fixed priority:
//
//	node > edge > lane header
//
// A node drawn above an edge always wins. A lane only counts when the point
// is inside its header strip, so lane bodies never steal clicks from the
// nodes they contain. Results are computed per call and never cached.
package hittest

import (
	"math"

	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/scene"
)

// DefaultEdgeRadius is the maximum distance from an edge path that still
// counts as hitting the edge.
const DefaultEdgeRadius = 6.0

// TargetType classifies a hit.
type TargetType string

// Target types, in descending priority.
const (
	TargetNode TargetType = "node"
	TargetEdge TargetType = "edge"
	TargetLane TargetType = "lane"
)

// Target is the resolved semantic target of a query.
type Target struct {
	Type TargetType `json:"type"`
	ID   string     `json:"id"`
	// T is the parametric position of the closest point along an edge path.
	T float64 `json:"t,omitempty"`
}

// PortHit identifies a port handle under the point.
type PortHit struct {
	NodeID string            `json:"nodeId"`
	Dir    diagram.Direction `json:"dir"`
	Point  diagram.Point     `json:"point"`
}

// Result is the outcome of one query. Best is nil when nothing was hit.
type Result struct {
	Point diagram.Point `json:"point"`
	// Lane is the lane whose band contains the point, header or body.
	Lane     string   `json:"lane,omitempty"`
	InHeader bool     `json:"inHeader,omitempty"`
	Node     string   `json:"node,omitempty"`
	Edge     string   `json:"edge,omitempty"`
	EdgeDist float64  `json:"edgeDist,omitempty"`
	EdgeT    float64  `json:"edgeT,omitempty"`
	Port     *PortHit `json:"port,omitempty"`
	Best     *Target  `json:"best,omitempty"`
}

// Options tunes a query.
type Options struct {
	// EdgeRadius defaults to DefaultEdgeRadius when zero.
	EdgeRadius float64
	// Ports makes port handles hittable. Ports are only shown, and so only
	// hittable, in edit mode.
	Ports bool
}

// Analyze resolves p against the scene.
func Analyze(s *scene.Scene, p diagram.Point, opts Options) Result {
	res := Result{Point: p}

	res.Node = topmostNode(s, p)
	if opts.Ports {
		if ph := nearestPort(s, p); ph != nil && (res.Node == "" || res.Node == ph.NodeID) {
			res.Port = ph
			res.Node = ph.NodeID
		}
	}

	radius := opts.EdgeRadius
	if radius <= 0 {
		radius = DefaultEdgeRadius
	}
	if id, proj, ok := closestEdge(s, p, radius); ok {
		res.Edge = id
		res.EdgeDist = proj.Dist
		res.EdgeT = proj.T
	}

	if id, ok := s.Lanes.DetectLane(s.Graph.Lanes, p.X, p.Y); ok {
		res.Lane = id
		if hdr, ok := s.LaneHeader(id); ok && hdr.Contains(p) {
			res.InHeader = true
		}
	}

	switch {
	case res.Node != "":
		res.Best = &Target{Type: TargetNode, ID: res.Node}
	case res.Edge != "":
		res.Best = &Target{Type: TargetEdge, ID: res.Edge, T: res.EdgeT}
	case res.InHeader:
		res.Best = &Target{Type: TargetLane, ID: res.Lane}
	}
	return res
}

// topmostNode walks nodes in reverse paint order so the node drawn last wins.
func topmostNode(s *scene.Scene, p diagram.Point) string {
	for i := len(s.Graph.Nodes) - 1; i >= 0; i-- {
		id := s.Graph.Nodes[i].ID
		if box, ok := s.NodeBox(id); ok && box.Contains(p) {
			return id
		}
	}
	return ""
}

func nearestPort(s *scene.Scene, p diagram.Point) *PortHit {
	r := s.Geometry.PortRadius
	if r <= 0 {
		return nil
	}
	var best *PortHit
	bestDist := math.Inf(1)
	ports := s.Ports()
	for i := len(ports) - 1; i >= 0; i-- {
		a := ports[i]
		if d := a.Point.Dist(p); d <= r && d < bestDist {
			bestDist = d
			best = &PortHit{NodeID: a.NodeID, Dir: a.Dir, Point: a.Point}
		}
	}
	return best
}

type projection struct {
	Dist float64
	T    float64
}

func closestEdge(s *scene.Scene, p diagram.Point, radius float64) (string, projection, bool) {
	var (
		bestID string
		best   = projection{Dist: math.Inf(1)}
	)
	for _, e := range s.Graph.Edges {
		proj, ok := s.EdgePath(e).ClosestPoint(p)
		if !ok {
			continue
		}
		if proj.Dist < best.Dist {
			bestID = e.ID
			best = projection{Dist: proj.Dist, T: proj.T}
		}
	}
	if bestID == "" || best.Dist > radius {
		return "", projection{}, false
	}
	return bestID, best, true
}
