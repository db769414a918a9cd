// Package diagram defines the lane diagram model shared by every Swimlane
// component: nodes placed inside lanes, edges between node ports, and the
// selection set.
//
// # Core Types
//
//   - [Graph]: the model, owned by the host and mutated in place
//   - [Node]: a box whose X/Y are relative to its owning [Lane]
//   - [Edge]: a connection between two node ports ([Direction])
//   - [Lane]: a horizontal band ordered by its explicit Order field
//   - [Selection]: the set of highlighted element ids
//
// # Serialization
//
// The model carries json and bson tags and round-trips through both:
//
//	{
//	  "lanes": [{"id": "ops", "order": 0, "h": 120}],
//	  "nodes": [{"id": "a", "laneId": "ops", "x": 40, "y": 20}],
//	  "edges": [{"id": "e1", "sourceId": "a", "targetId": "b",
//	             "sourceDir": "right", "targetDir": "left"}]
//	}
//
// Use [Parse] to decode and validate a document, and [Graph.Marshal] to
// encode one.
//
// # Concurrency
//
// Graph and Selection are not safe for concurrent use. The interaction engine
// is single-threaded; hosts that serve several goroutines serialize access per
// diagram (see pkg/session).
package diagram
