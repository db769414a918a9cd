package interaction

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/hittest"
	"github.com/matzehuels/swimlane/pkg/scene"
)

// Kind tags the closed set of gesture strategies.
type Kind int

// Strategy kinds in dispatch priority order.
const (
	KindConnection Kind = iota
	KindDrag
	KindEdit
	KindSelection
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindDrag:
		return "drag"
	case KindEdit:
		return "edit"
	case KindSelection:
		return "selection"
	}
	return "unknown"
}

// Strategy decides whether it claims a pointerdown and, if so, starts a
// gesture. Strategies hold no per-gesture state; everything a gesture needs
// lives in the [Gesture] value returned by Activate.
type Strategy interface {
	Kind() Kind
	CanHandle(ev PointerEvent, hit hittest.Result) bool
	// Activate starts a gesture. A nil Gesture means a reference could not be
	// resolved; the failure is logged and the manager stays idle.
	Activate(ev PointerEvent, hit hittest.Result) Gesture
}

// Gesture is one in-flight pointer interaction. Calls always arrive in the
// order OnMove* → OnEnd → Deactivate, or straight to Deactivate when the
// gesture is cancelled.
type Gesture interface {
	OnMove(ev PointerEvent)
	// OnEnd commits the gesture. A nil error means a change was committed;
	// otherwise the code says why nothing was: CANCELLED for a discard the
	// user chose, INVALID_OPERATION for a rejected change, MISSING_REFERENCE
	// for a lookup that failed.
	OnEnd(ev PointerEvent) error
	Deactivate()
}

// mover is implemented by gestures that reposition a node.
type mover interface {
	// Moving returns the node being repositioned and whether the drag
	// threshold has been crossed.
	Moving() (string, bool)
}

// env is the shared context strategies act on.
type env struct {
	scene      *scene.Scene
	selection  *diagram.Selection
	viewport   *Viewport
	thresholds Thresholds
	logger     *log.Logger
	emit       func(Event)
	newID      func() string
}

// claim walks chain in order and returns the first strategy that accepts.
func claim(chain []Strategy, ev PointerEvent, hit hittest.Result) (Strategy, bool) {
	for _, s := range chain {
		if s.CanHandle(ev, hit) {
			return s, true
		}
	}
	return nil, false
}
