package interaction

import (
	"slices"

	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/hittest"
)

// selectStrategy is the fallback that claims every pointerdown no earlier
// strategy wanted. A press only counts as a click if the pointer never moves
// further than the click threshold before release.
type selectStrategy struct{ env *env }

func (s *selectStrategy) Kind() Kind { return KindSelection }

func (s *selectStrategy) CanHandle(PointerEvent, hittest.Result) bool { return true }

func (s *selectStrategy) Activate(ev PointerEvent, hit hittest.Result) Gesture {
	g := &selectGesture{env: s.env, start: ev, candidate: true}
	if b := hit.Best; b != nil && (b.Type == hittest.TargetNode || b.Type == hittest.TargetEdge) {
		g.target = b.ID
	}
	return g
}

type selectGesture struct {
	env       *env
	start     PointerEvent
	target    string
	candidate bool
}

func (g *selectGesture) OnMove(ev PointerEvent) {
	if g.candidate && screenDist(g.start, ev) > g.env.thresholds.Click {
		g.candidate = false
	}
}

func (g *selectGesture) OnEnd(ev PointerEvent) error {
	g.OnMove(ev)
	if !g.candidate {
		return errs.New(errs.ErrCodeCancelled, "pointer moved past the click threshold")
	}
	sel := g.env.selection
	before := sel.IDs()
	switch {
	case g.target != "" && g.start.Modified():
		sel.Toggle(g.target)
	case g.target != "":
		sel.Replace(g.target)
	case g.start.Modified():
		// A modified click on empty canvas keeps the selection.
	default:
		sel.Clear()
	}
	after := sel.IDs()
	if !slices.Equal(before, after) {
		g.env.emit(Event{Name: EventSelectionChange, IDs: after})
	}
	return nil
}

func (g *selectGesture) Deactivate() {}
