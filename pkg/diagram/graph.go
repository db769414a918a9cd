package diagram

import (
	"cmp"
	"encoding/json"
	"slices"

	errs "github.com/matzehuels/swimlane/pkg/errors"
)

// Graph is the diagram model. Elements are held by pointer so references
// obtained from lookups stay valid while the slices grow.
type Graph struct {
	Lanes []*Lane `json:"lanes" bson:"lanes"`
	Nodes []*Node `json:"nodes" bson:"nodes"`
	Edges []*Edge `json:"edges" bson:"edges"`
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id string) (*Edge, bool) {
	for _, e := range g.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Lane returns the lane with the given id.
func (g *Graph) Lane(id string) (*Lane, bool) {
	for _, l := range g.Lanes {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// Has reports whether any node, edge or lane uses id.
func (g *Graph) Has(id string) bool {
	if _, ok := g.Node(id); ok {
		return true
	}
	if _, ok := g.Edge(id); ok {
		return true
	}
	_, ok := g.Lane(id)
	return ok
}

// SortedLanes returns the lanes in traversal order: ascending Order, ties
// broken by ID so the result is deterministic.
func (g *Graph) SortedLanes() []*Lane {
	return SortLanes(g.Lanes)
}

// SortLanes returns a copy of lanes sorted by Order then ID.
func SortLanes(lanes []*Lane) []*Lane {
	out := slices.Clone(lanes)
	slices.SortStableFunc(out, func(a, b *Lane) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// AddLane appends a lane. The id must be non-empty and unused.
func (g *Graph) AddLane(l *Lane) error {
	if l == nil || l.ID == "" {
		return errs.New(errs.ErrCodeInvalidOperation, "lane id must not be empty")
	}
	if g.Has(l.ID) {
		return errs.New(errs.ErrCodeInvalidOperation, "duplicate id %q", l.ID)
	}
	g.Lanes = append(g.Lanes, l)
	return nil
}

// AddNode appends a node. The id must be non-empty and unused, and the lane,
// when set, must exist.
func (g *Graph) AddNode(n *Node) error {
	if n == nil || n.ID == "" {
		return errs.New(errs.ErrCodeInvalidOperation, "node id must not be empty")
	}
	if g.Has(n.ID) {
		return errs.New(errs.ErrCodeInvalidOperation, "duplicate id %q", n.ID)
	}
	if n.LaneID != "" {
		if _, ok := g.Lane(n.LaneID); !ok {
			return errs.New(errs.ErrCodeInvalidOperation, "node %q references unknown lane %q", n.ID, n.LaneID)
		}
	}
	g.Nodes = append(g.Nodes, n)
	return nil
}

// HasEdgeBetween reports whether an edge already joins a and b, regardless of
// direction.
func (g *Graph) HasEdgeBetween(a, b string) bool {
	for _, e := range g.Edges {
		if e.Connects(a, b) {
			return true
		}
	}
	return false
}

// ValidateConnection checks whether an edge from source to target may be
// created. It rejects unknown endpoints, self-loops, and pairs that already
// share an edge in either direction.
func (g *Graph) ValidateConnection(source, target string) error {
	if source == target {
		return errs.New(errs.ErrCodeInvalidOperation, "self-loop on %q", source)
	}
	if _, ok := g.Node(source); !ok {
		return errs.New(errs.ErrCodeMissingReference, "unknown source node %q", source)
	}
	if _, ok := g.Node(target); !ok {
		return errs.New(errs.ErrCodeMissingReference, "unknown target node %q", target)
	}
	if g.HasEdgeBetween(source, target) {
		return errs.New(errs.ErrCodeInvalidOperation, "edge between %q and %q already exists", source, target)
	}
	return nil
}

// AddEdge appends an edge after [Graph.ValidateConnection] accepts it.
func (g *Graph) AddEdge(e *Edge) error {
	if e == nil || e.ID == "" {
		return errs.New(errs.ErrCodeInvalidOperation, "edge id must not be empty")
	}
	if g.Has(e.ID) {
		return errs.New(errs.ErrCodeInvalidOperation, "duplicate id %q", e.ID)
	}
	if !e.SourceDir.Valid() || !e.TargetDir.Valid() {
		return errs.New(errs.ErrCodeInvalidOperation, "edge %q has invalid port directions", e.ID)
	}
	if err := g.ValidateConnection(e.SourceID, e.TargetID); err != nil {
		return err
	}
	g.Edges = append(g.Edges, e)
	return nil
}

// EdgesOf returns the edges attached to nodeID.
func (g *Graph) EdgesOf(nodeID string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Touches(nodeID) {
			out = append(out, e)
		}
	}
	return out
}

// NodesIn returns the nodes assigned to laneID.
func (g *Graph) NodesIn(laneID string) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.LaneID == laneID {
			out = append(out, n)
		}
	}
	return out
}

// Remove deletes every node, edge and lane named in ids. Edges attached to a
// removed node go with it; nodes of a removed lane are kept but detached.
// It returns the ids actually removed, cascaded edges included, in model order.
func (g *Graph) Remove(ids ...string) []string {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var removed []string
	g.Nodes = slices.DeleteFunc(g.Nodes, func(n *Node) bool {
		if want[n.ID] {
			removed = append(removed, n.ID)
			return true
		}
		return false
	})

	gone := make(map[string]bool, len(removed))
	for _, id := range removed {
		gone[id] = true
	}
	g.Edges = slices.DeleteFunc(g.Edges, func(e *Edge) bool {
		if want[e.ID] || gone[e.SourceID] || gone[e.TargetID] {
			removed = append(removed, e.ID)
			return true
		}
		return false
	})

	g.Lanes = slices.DeleteFunc(g.Lanes, func(l *Lane) bool {
		if want[l.ID] {
			removed = append(removed, l.ID)
			for _, n := range g.Nodes {
				if n.LaneID == l.ID {
					n.LaneID = ""
				}
			}
			return true
		}
		return false
	})
	return removed
}

// Validate checks referential integrity: no null elements, unique non-empty
// ids, known lanes, known edge endpoints, valid port directions, no self-loops.
func (g *Graph) Validate() error {
	seen := make(map[string]bool)
	claim := func(kind, id string) error {
		if id == "" {
			return errs.New(errs.ErrCodeInvalidInput, "%s with empty id", kind)
		}
		if seen[id] {
			return errs.New(errs.ErrCodeInvalidInput, "duplicate id %q", id)
		}
		seen[id] = true
		return nil
	}

	for i, l := range g.Lanes {
		if l == nil {
			return errs.New(errs.ErrCodeInvalidInput, "lane %d is null", i)
		}
		if err := claim("lane", l.ID); err != nil {
			return err
		}
		if l.H < 0 {
			return errs.New(errs.ErrCodeInvalidInput, "lane %q has negative height", l.ID)
		}
	}
	for i, n := range g.Nodes {
		if n == nil {
			return errs.New(errs.ErrCodeInvalidInput, "node %d is null", i)
		}
		if err := claim("node", n.ID); err != nil {
			return err
		}
		if n.LaneID != "" {
			if _, ok := g.Lane(n.LaneID); !ok {
				return errs.New(errs.ErrCodeInvalidInput, "node %q references unknown lane %q", n.ID, n.LaneID)
			}
		}
	}
	for i, e := range g.Edges {
		if e == nil {
			return errs.New(errs.ErrCodeInvalidInput, "edge %d is null", i)
		}
		if err := claim("edge", e.ID); err != nil {
			return err
		}
		if _, ok := g.Node(e.SourceID); !ok {
			return errs.New(errs.ErrCodeInvalidInput, "edge %q references unknown source %q", e.ID, e.SourceID)
		}
		if _, ok := g.Node(e.TargetID); !ok {
			return errs.New(errs.ErrCodeInvalidInput, "edge %q references unknown target %q", e.ID, e.TargetID)
		}
		if e.SourceID == e.TargetID {
			return errs.New(errs.ErrCodeInvalidInput, "edge %q is a self-loop", e.ID)
		}
		if !e.SourceDir.Valid() || !e.TargetDir.Valid() {
			return errs.New(errs.ErrCodeInvalidInput, "edge %q has invalid port directions", e.ID)
		}
	}
	return nil
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Lanes: make([]*Lane, len(g.Lanes)),
		Nodes: make([]*Node, len(g.Nodes)),
		Edges: make([]*Edge, len(g.Edges)),
	}
	for i, l := range g.Lanes {
		c := *l
		out.Lanes[i] = &c
	}
	for i, n := range g.Nodes {
		c := *n
		if n.Meta != nil {
			c.Meta = make(map[string]any, len(n.Meta))
			for k, v := range n.Meta {
				c.Meta[k] = v
			}
		}
		out.Nodes[i] = &c
	}
	for i, e := range g.Edges {
		c := *e
		c.Points = slices.Clone(e.Points)
		out.Edges[i] = &c
	}
	return out
}

// Marshal encodes the graph as JSON.
func (g *Graph) Marshal() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// Parse decodes and validates a JSON graph.
func Parse(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode diagram")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}
