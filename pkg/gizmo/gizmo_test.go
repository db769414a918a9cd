package gizmo

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/lanes"
	"github.com/matzehuels/swimlane/pkg/scene"
)

// n1 occupies (100,20)-(200,70) and n2 (400,20)-(500,70); e1 joins them
// along y=45.
func fixture() *scene.Scene {
	g := &diagram.Graph{
		Lanes: []*diagram.Lane{{ID: "a", H: 100}},
		Nodes: []*diagram.Node{
			{ID: "n1", LaneID: "a", X: 100, Y: 20},
			{ID: "n2", LaneID: "a", X: 400, Y: 20},
		},
		Edges: []*diagram.Edge{
			{ID: "e1", SourceID: "n1", TargetID: "n2", SourceDir: diagram.DirRight, TargetDir: diagram.DirLeft},
		},
	}
	return scene.New(g, lanes.Config{Gap: 10, DefaultHeight: 100, Width: 1000},
		scene.Geometry{NodeWidth: 100, NodeHeight: 50, PortRadius: 8})
}

func quiet() *log.Logger { return log.New(io.Discard) }

func ids(os []Overlay) []string {
	out := make([]string, len(os))
	for i, o := range os {
		out[i] = o.ID
	}
	return out
}

func TestRenderReconciles(t *testing.T) {
	r := New(fixture(), Options{Logger: quiet()})

	r.Render([]string{"n1", "e1", "ghost"})
	if diff := cmp.Diff([]string{"e1", "n1"}, ids(r.Overlays())); diff != "" {
		t.Errorf("overlays (-want +got):\n%s", diff)
	}

	r.Render([]string{"n2"})
	if diff := cmp.Diff([]string{"n2"}, ids(r.Overlays())); diff != "" {
		t.Errorf("overlays (-want +got):\n%s", diff)
	}

	r.Render(nil)
	if got := len(r.Overlays()); got != 0 {
		t.Errorf("overlays = %d, want 0", got)
	}
}

func TestOverlayGeometry(t *testing.T) {
	r := New(fixture(), Options{Logger: quiet()})
	r.Render([]string{"n1", "e1"})
	got := r.Overlays()

	want := []Overlay{
		{
			ID: "e1", Kind: KindEdge,
			Box:    diagram.Rect{X: 196, Y: 41, W: 208, H: 8},
			Handle: diagram.Rect{X: 396, Y: 33, W: 16, H: 16},
		},
		{
			ID: "n1", Kind: KindNode,
			Box:    diagram.Rect{X: 96, Y: 16, W: 108, H: 58},
			Handle: diagram.Rect{X: 196, Y: 8, W: 16, H: 16},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("overlays (-want +got):\n%s", diff)
	}
}

func TestOverlayFollowsLiveGeometry(t *testing.T) {
	s := fixture()
	r := New(s, Options{Logger: quiet()})

	s.SetOverride("n1", diagram.Point{X: 150, Y: 30})
	r.Render([]string{"n1"})

	o := r.Overlays()[0]
	if o.Box.X != 146 || o.Box.Y != 26 {
		t.Errorf("box at (%v,%v), want (146,26)", o.Box.X, o.Box.Y)
	}
	if n, _ := s.Graph.Node("n1"); n.X != 100 {
		t.Error("rendering overlays touched the model")
	}
}

func TestHandleAt(t *testing.T) {
	r := New(fixture(), Options{Logger: quiet()})
	r.Render([]string{"n1"})

	if id, ok := r.HandleAt(diagram.Point{X: 204, Y: 16}); !ok || id != "n1" {
		t.Errorf("HandleAt(handle) = %q %v, want n1", id, ok)
	}
	if _, ok := r.HandleAt(diagram.Point{X: 150, Y: 45}); ok {
		t.Error("HandleAt(body) hit a handle")
	}
}

func TestDelete(t *testing.T) {
	s := fixture()
	allow := false
	r := New(s, Options{Logger: quiet(), Confirm: func(string) bool { return allow }})
	r.Render([]string{"n1"})

	if got := r.Delete("n1"); got != nil {
		t.Fatalf("declined Delete removed %v", got)
	}
	if _, ok := s.Graph.Node("n1"); !ok {
		t.Fatal("n1 removed without confirmation")
	}

	allow = true
	got := r.Delete("n1")
	if diff := cmp.Diff([]string{"n1", "e1"}, got); diff != "" {
		t.Errorf("removed (-want +got):\n%s", diff)
	}
	if len(r.Overlays()) != 0 {
		t.Error("overlay survives its element")
	}
}
