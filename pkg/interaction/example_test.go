package interaction_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/interaction"
	"github.com/matzehuels/swimlane/pkg/lanes"
	"github.com/matzehuels/swimlane/pkg/scene"
)

func ExampleManager() {
	g := &diagram.Graph{
		Lanes: []*diagram.Lane{{ID: "ops", H: 120}},
		Nodes: []*diagram.Node{
			{ID: "build", LaneID: "ops", X: 60, Y: 30},
			{ID: "deploy", LaneID: "ops", X: 300, Y: 30},
		},
	}
	sc := scene.New(g, lanes.DefaultConfig(), scene.DefaultGeometry())

	m := interaction.New(sc, interaction.Options{
		Mode:   interaction.ModeEdit,
		Logger: log.New(io.Discard),
		NewID:  func() string { return "e1" },
	})
	m.On(interaction.EventEdgeCreate, func(ev interaction.Event) {
		e := ev.Edge
		fmt.Printf("%s: %s.%s -> %s.%s\n", e.ID, e.SourceID, e.SourceDir, e.TargetID, e.TargetDir)
	})

	// Drag from build's right port (180,60) onto deploy's left port (300,60).
	m.HandlePointerDown(interaction.PointerEvent{X: 180, Y: 60})
	m.HandlePointerMove(interaction.PointerEvent{X: 290, Y: 62})
	m.HandlePointerUp(interaction.PointerEvent{X: 296, Y: 60})
	fmt.Println(m.State())
	// Output:
	// e1: build.right -> deploy.left
	// IDLE
}
