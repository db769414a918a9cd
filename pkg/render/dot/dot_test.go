package dot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/swimlane/pkg/diagram"
)

func testGraph() *diagram.Graph {
	return &diagram.Graph{
		Lanes: []*diagram.Lane{
			{ID: "ops", Label: "Operations", Order: 1},
			{ID: "dev", Order: 0},
		},
		Nodes: []*diagram.Node{
			{ID: "build", LaneID: "dev", Type: "task", Meta: map[string]any{"owner": "ci"}},
			{ID: "deploy", Label: "Deploy", LaneID: "ops"},
			{ID: "loose"},
		},
		Edges: []*diagram.Edge{
			{ID: "e1", SourceID: "build", TargetID: "deploy", SourceDir: diagram.DirRight, TargetDir: diagram.DirLeft, Label: "ship"},
		},
	}
}

func TestToDOT(t *testing.T) {
	src := ToDOT(testGraph(), Options{})

	for _, want := range []string{
		"rankdir=TB;",
		`subgraph "cluster_0" {`,
		`label="dev";`,
		`label="Operations";`,
		`"build" [label="build"];`,
		`"deploy" [label="Deploy"];`,
		`"loose" [label="loose"];`,
		`"build" -> "deploy" [tailport=e, headport=w, label="ship"];`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("DOT missing %q\n%s", want, src)
		}
	}
	if strings.Index(src, `label="dev"`) > strings.Index(src, `label="Operations"`) {
		t.Error("clusters not emitted in lane order")
	}
}

func TestToDOTDetailed(t *testing.T) {
	src := ToDOT(testGraph(), Options{Detailed: true, LeftToRight: true})
	if !strings.Contains(src, "rankdir=LR;") {
		t.Error("LeftToRight not applied")
	}
	if !strings.Contains(src, `label="build\ntype: task\nowner: ci"`) {
		t.Errorf("detailed label missing:\n%s", src)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testGraph(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Error("viewBox not normalized")
	}
	if !bytes.Contains(svg, []byte("Deploy")) {
		t.Error("node label missing from SVG")
	}
}
