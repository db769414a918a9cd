// Package interaction turns raw pointer and keyboard events on a lane
// diagram into model edits.
//
// # Overview
//
// A [Manager] owns the editing [Mode] (VIEW or EDIT), the [RenderContext]
// renderers draw with, and the gesture state machine:
//
//	IDLE --pointerdown claimed--> ACTIVE_GESTURE --pointerup/Blur--> IDLE
//
// Every pointerdown is hit-tested in graph space and offered to a fixed
// chain of strategies, the first claimant winning:
//
//  1. connection: a press on a port drags out a new edge
//  2. node drag:  a press on a node moves it between and within lanes
//  3. inline edit: a press while an editor is open commits the edit
//  4. selection:  everything else; clicks select, toggle or clear
//
// Gestures never write the model while the pointer moves. A dragged node is
// drawn at a [scene.Scene] override and its edges at live paths; the model
// is written once on release, or not at all when the gesture is cancelled.
//
// # Usage
//
//	m := interaction.New(sc, interaction.Options{Mode: interaction.ModeEdit})
//	m.On(interaction.EventEdgeCreate, func(ev interaction.Event) {
//	    fmt.Println("new edge", ev.ID)
//	})
//	m.HandlePointerDown(ev)
//	m.HandlePointerMove(ev)
//	m.HandlePointerUp(ev)
//
// Handlers run synchronously inside the Handle* call that triggered them
// and must not call back into the manager.
package interaction
