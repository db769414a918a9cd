package render

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/gizmo"
	"github.com/matzehuels/swimlane/pkg/interaction"
	"github.com/matzehuels/swimlane/pkg/lanes"
	"github.com/matzehuels/swimlane/pkg/scene"
)

func fixture() *scene.Scene {
	g := &diagram.Graph{
		Lanes: []*diagram.Lane{
			{ID: "ops", Label: "Operations", Order: 1, H: 100},
			{ID: "dev", Label: "Development", Order: 0, H: 100},
		},
		Nodes: []*diagram.Node{
			{ID: "build", Label: "Build <fast>", LaneID: "dev", X: 100, Y: 20},
			{ID: "deploy", LaneID: "ops", X: 100, Y: 20},
		},
		Edges: []*diagram.Edge{
			{ID: "e1", SourceID: "build", TargetID: "deploy", SourceDir: diagram.DirBottom, TargetDir: diagram.DirTop, Label: "ship"},
		},
	}
	return scene.New(g, lanes.Config{Gap: 10, DefaultHeight: 100, HeaderWidth: 40, Width: 800},
		scene.Geometry{NodeWidth: 120, NodeHeight: 50, PortRadius: 8})
}

func TestRenderSVGView(t *testing.T) {
	svg := string(RenderSVG(fixture()))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`data-mode="VIEW"`,
		`data-node-id="build"`,
		`data-edge-id="e1"`,
		`Build &lt;fast&gt;`,
		`>ship</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Contains(svg, `class="port"`) {
		t.Error("ports drawn in VIEW")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("svg not terminated")
	}

	// Lanes are painted in Order, not slice order.
	if strings.Index(svg, `data-lane-id="dev"`) > strings.Index(svg, `data-lane-id="ops"`) {
		t.Error("lanes not painted in order")
	}
}

func TestRenderSVGPorts(t *testing.T) {
	svg := string(RenderSVG(fixture(), WithContext(interaction.RenderContext{Mode: interaction.ModeEdit, ShowPorts: true})))
	if got := strings.Count(svg, `class="port"`); got != 8 {
		t.Errorf("port count = %d, want 8", got)
	}
}

func TestRenderSVGUsesOverrides(t *testing.T) {
	sc := fixture()
	sc.SetOverride("build", diagram.Point{X: 333, Y: 44})
	svg := string(RenderSVG(sc, WithDragging("build")))

	if !strings.Contains(svg, `<rect x="333.0" y="44.0" width="120.0" height="50.0"/>`) {
		t.Error("dragged node not drawn at its override position")
	}
	if !strings.Contains(svg, `class="node dragging" data-node-id="build"`) {
		t.Error("dragging class missing")
	}
}

func TestRenderSVGPreviewAndGizmos(t *testing.T) {
	sc := fixture()
	gz := gizmo.New(sc, gizmo.Options{Logger: log.New(io.Discard)})
	gz.Render([]string{"deploy"})

	pv := &interaction.Preview{
		SourceID: "build",
		Path:     []diagram.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
		State:    interaction.PreviewInvalid,
	}
	svg := string(RenderSVG(sc, WithPreview(pv), WithOverlays(gz.Overlays()), WithSelection([]string{"deploy"})))

	for _, want := range []string{
		`class="preview invalid" d="M 0.0 0.0 L 10.0 0.0"`,
		`data-gizmo-id="deploy"`,
		`class="node selected" data-node-id="deploy"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestFromManager(t *testing.T) {
	sc := fixture()
	gz := gizmo.New(sc, gizmo.Options{Logger: log.New(io.Discard)})
	m := interaction.New(sc, interaction.Options{
		Mode:   interaction.ModeEdit,
		Gizmos: gz,
		Logger: log.New(io.Discard),
	})

	// build occupies (100,20)-(220,70); press its center and drag.
	m.HandlePointerDown(interaction.PointerEvent{X: 160, Y: 45})
	m.HandlePointerMove(interaction.PointerEvent{X: 200, Y: 45})

	svg := string(RenderSVG(sc, FromManager(m, gz)...))
	for _, want := range []string{
		`data-mode="EDIT"`,
		`class="node selected dragging" data-node-id="build"`,
		`data-gizmo-id="build"`,
		`class="port"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		label string
		avail float64
		want  string
	}{
		{"short", 120, "short"},
		{"a rather long node label", 87, "a rather.."},
		{"abcdef", 0, "a.."},
	}
	for _, tt := range tests {
		if got := TruncateLabel(tt.label, tt.avail); got != tt.want {
			t.Errorf("TruncateLabel(%q, %v) = %q, want %q", tt.label, tt.avail, got, tt.want)
		}
	}
}
