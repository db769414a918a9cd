package interaction

import (
	"slices"

	"github.com/matzehuels/swimlane/pkg/diagram"
	errs "github.com/matzehuels/swimlane/pkg/errors"
)

// EventName names an event emitted to the host.
type EventName string

// Emitted events.
const (
	EventModeChange      EventName = "mode:change"
	EventNodeClick       EventName = "node:click"
	EventNodeDblClick    EventName = "node:dblclick"
	EventNodeMove        EventName = "node:move"
	EventEdgeCreate      EventName = "edge:create"
	EventSelectionChange EventName = "selection:change"
	EventElementsDelete  EventName = "elements:delete"
	EventGestureStart    EventName = "gesture:start"
	EventGestureEnd      EventName = "gesture:end"
	EventEditBegin       EventName = "edit:begin"
)

// EventNames lists every event a [Manager] emits.
var EventNames = []EventName{
	EventModeChange, EventNodeClick, EventNodeDblClick, EventNodeMove, EventEdgeCreate,
	EventSelectionChange, EventElementsDelete, EventGestureStart, EventGestureEnd, EventEditBegin,
}

// Event is the payload delivered to handlers. Fields not relevant to an
// event are left zero.
type Event struct {
	Name      EventName     `json:"name"`
	Mode      Mode          `json:"mode,omitempty"`
	ID        string        `json:"id,omitempty"`
	IDs       []string      `json:"ids,omitempty"`
	Gesture   string        `json:"gesture,omitempty"`
	Committed bool          `json:"committed,omitempty"`
	Reason    errs.Code     `json:"reason,omitempty"` // why a gesture did not commit
	Pointer   *PointerEvent `json:"nativeEvent,omitempty"`
	Edge      *diagram.Edge `json:"edge,omitempty"`
	Edit      *EditTarget   `json:"edit,omitempty"`
}

// Handler receives emitted events. Handlers run synchronously and must not
// call back into the manager.
type Handler func(Event)

// Subscription identifies a registered handler for [Emitter.Off].
type Subscription struct {
	name EventName
	id   uint64
}

type handlerEntry struct {
	id uint64
	fn Handler
}

// Emitter is a synchronous publish/subscribe hub keyed by event name.
// The zero value is ready to use.
type Emitter struct {
	handlers map[EventName][]handlerEntry
	nextID   uint64
}

// On registers fn for name.
func (e *Emitter) On(name EventName, fn Handler) Subscription {
	if e.handlers == nil {
		e.handlers = make(map[EventName][]handlerEntry)
	}
	e.nextID++
	e.handlers[name] = append(e.handlers[name], handlerEntry{id: e.nextID, fn: fn})
	return Subscription{name: name, id: e.nextID}
}

// Off removes a handler. Unknown subscriptions are ignored.
func (e *Emitter) Off(sub Subscription) {
	if e.handlers == nil {
		return
	}
	e.handlers[sub.name] = slices.DeleteFunc(e.handlers[sub.name], func(h handlerEntry) bool {
		return h.id == sub.id
	})
}

// Emit delivers ev to every handler registered for ev.Name, in registration
// order. Handlers removed during delivery still see the current event.
func (e *Emitter) Emit(ev Event) {
	for _, h := range slices.Clone(e.handlers[ev.Name]) {
		h.fn(ev)
	}
}
