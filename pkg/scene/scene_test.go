package scene

import (
	"testing"

	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/lanes"
)

func fixture() *Scene {
	g := &diagram.Graph{
		Lanes: []*diagram.Lane{
			{ID: "a", Order: 0, H: 100},
			{ID: "b", Order: 1, H: 150},
		},
		Nodes: []*diagram.Node{
			{ID: "n1", LaneID: "a", X: 50, Y: 20},
			{ID: "n2", LaneID: "b", X: 300, Y: 30, W: 80, H: 40},
		},
		Edges: []*diagram.Edge{
			{ID: "e1", SourceID: "n1", TargetID: "n2", SourceDir: diagram.DirRight, TargetDir: diagram.DirLeft},
		},
	}
	lc := lanes.Config{StartX: 0, Gap: 10, DefaultHeight: 120, HeaderWidth: 40, Width: 1000}
	return New(g, lc, Geometry{NodeWidth: 100, NodeHeight: 50, PortRadius: 8})
}

func TestNodeBox(t *testing.T) {
	s := fixture()
	tests := []struct {
		id   string
		want diagram.Rect
	}{
		{"n1", diagram.Rect{X: 50, Y: 20, W: 100, H: 50}},
		{"n2", diagram.Rect{X: 300, Y: 140, W: 80, H: 40}},
	}
	for _, tt := range tests {
		got, ok := s.NodeBox(tt.id)
		if !ok || got != tt.want {
			t.Errorf("NodeBox(%s) = %+v, %v; want %+v", tt.id, got, ok, tt.want)
		}
	}
	if _, ok := s.NodeBox("missing"); ok {
		t.Error("NodeBox(missing) should not be found")
	}
}

func TestOverrideIsVisualOnly(t *testing.T) {
	s := fixture()
	s.SetOverride("n1", diagram.Point{X: 500, Y: 60})

	box, _ := s.NodeBox("n1")
	if box.X != 500 || box.Y != 60 {
		t.Errorf("live box = %+v, want override position", box)
	}
	model, _ := s.ModelBox("n1")
	if model.X != 50 || model.Y != 20 {
		t.Errorf("model box moved: %+v", model)
	}
	n1, _ := s.Graph.Node("n1")
	if n1.X != 50 || n1.Y != 20 {
		t.Errorf("model node mutated: %+v", n1)
	}

	s.ClearOverride("n1")
	if box, _ := s.NodeBox("n1"); box.X != 50 {
		t.Errorf("box after ClearOverride = %+v", box)
	}
}

func TestRefreshAndCommitEdges(t *testing.T) {
	s := fixture()
	e := s.Graph.Edges[0]

	before := s.EdgePath(e)
	if len(before) < 2 {
		t.Fatalf("unrouted edge should get a computed path, got %v", before)
	}

	s.SetOverride("n1", diagram.Point{X: 50, Y: 60})
	s.RefreshConnected("n1")
	live := s.EdgePath(e)
	if live[0] != (diagram.Point{X: 150, Y: 85}) {
		t.Errorf("live path start = %v, want {150 85}", live[0])
	}
	if e.Points != nil {
		t.Error("RefreshConnected must not write model points")
	}

	s.CommitEdges("n1")
	if len(e.Points) < 2 || e.Points[0] != (diagram.Point{X: 150, Y: 85}) {
		t.Errorf("committed points = %v", e.Points)
	}
}

func TestPorts(t *testing.T) {
	s := fixture()
	p, ok := s.Port("n2", diagram.DirLeft)
	if !ok || p != (diagram.Point{X: 300, Y: 160}) {
		t.Errorf("Port(n2, left) = %v, %v", p, ok)
	}
	if _, ok := s.Port("n2", "diagonal"); ok {
		t.Error("invalid direction should not resolve")
	}
	if got := len(s.Ports()); got != 8 {
		t.Errorf("Ports() = %d anchors, want 8", got)
	}
}

func TestLaneHeaderAndBounds(t *testing.T) {
	s := fixture()
	h, ok := s.LaneHeader("b")
	if !ok || h != (diagram.Rect{X: 0, Y: 110, W: 40, H: 150}) {
		t.Errorf("LaneHeader(b) = %+v, %v", h, ok)
	}
	b := s.Bounds()
	if b.W != 1000 || b.H != 260 {
		t.Errorf("Bounds = %+v", b)
	}
}
