// Package pkg provides the core libraries for Swimlane lane diagram editing.
//
// # Overview
//
// Swimlane turns raw pointer and keyboard input into edits of a lane
// diagram: nodes placed in horizontal lanes, joined by edges that run from
// port to port. The pkg directory is organized into four areas:
//
//  1. Model - the diagram graph and lane coordinate math
//  2. Geometry - the scene, edge routing and hit testing
//  3. Interaction - the gesture state machine and selection gizmos
//  4. Hosting - rendering, persistence, sessions and configuration
//
// # Architecture
//
// The path of one pointer event:
//
//	host (browser, terminal, script)
//	         ↓
//	    [session] (serialize input, collect events)
//	         ↓
//	    [interaction] (mode, strategy chain, active gesture)
//	         ↓
//	    [hittest] over [scene] (what is under the pointer)
//	         ↓
//	    [scene] overrides during motion, [diagram] at commit
//	         ↓
//	    [gizmo] overlays + [render] SVG
//
// # Quick Start
//
// Drag a node from one lane to another:
//
//	g, _ := diagram.Parse(data)
//	sc := scene.New(g, lanes.DefaultConfig(), scene.DefaultGeometry())
//	m := interaction.New(sc, interaction.Options{Mode: interaction.ModeEdit})
//
//	m.On(interaction.EventNodeMove, func(ev interaction.Event) {
//	    fmt.Println("moved", ev.ID)
//	})
//	m.HandlePointerDown(interaction.PointerEvent{X: 160, Y: 60})
//	m.HandlePointerMove(interaction.PointerEvent{X: 160, Y: 260})
//	m.HandlePointerUp(interaction.PointerEvent{X: 160, Y: 260})
//
// # Main Packages
//
// ## Model
//
// [diagram] - Lanes, nodes and edges with JSON and BSON tags, referential
// validation, cascading removal and the selection set.
//
// [lanes] - Pure conversions between world and lane-relative coordinates,
// lane bands, headers and lane detection.
//
// ## Geometry
//
// [route] - Orthogonal edge routing between ports and path projection.
//
// [scene] - Answers where every node, port and edge currently is, layering
// transient drag overrides over the model.
//
// [hittest] - Resolves the semantic target under a point: ports, nodes,
// edges, lane headers, lanes, in that priority.
//
// ## Interaction
//
// [interaction] - The manager: VIEW and EDIT modes, the strategy chain
// Connection > Drag > Edit > Selection, a single active gesture, magnetic
// port snapping and the event surface.
//
// [gizmo] - Selection overlays and delete handles kept in sync with live
// geometry.
//
// ## Hosting
//
// [render] - Standalone SVG of a scene including in-flight gestures, plus
// PDF and PNG conversion. [render/dot] exports diagrams through Graphviz.
//
// [store] - Diagram persistence with memory, file, Redis and MongoDB
// backends behind one interface.
//
// [session] - Live editing sessions binding a working copy of a diagram to a
// manager, with an expiring registry.
//
// [config] - TOML configuration for lanes, node geometry, thresholds, the
// store and the server.
//
// [observability] - Hook registries for interaction, store and HTTP events;
// [observability/prom] reports them to Prometheus.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                                # All tests
//	go test ./pkg/interaction/...                    # Specific package
//	SWIMLANE_MONGO_URI=mongodb://localhost:27017 \
//	    go test ./pkg/store/...                      # Include MongoDB
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/diagram
// [lanes]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/lanes
// [route]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/route
// [scene]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/scene
// [hittest]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/hittest
// [interaction]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/interaction
// [gizmo]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/gizmo
// [render]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/render
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/render/dot
// [store]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/store
// [session]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/swimlane/pkg/errors
package pkg
