package interaction

import (
	"slices"

	"github.com/matzehuels/swimlane/pkg/diagram"
	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/hittest"
	"github.com/matzehuels/swimlane/pkg/observability"
)

// dragStrategy moves a single node. While the pointer moves the node is
// drawn at an override position; the model is written once, on release,
// and only if the drag threshold was crossed.
type dragStrategy struct{ env *env }

func (s *dragStrategy) Kind() Kind { return KindDrag }

func (s *dragStrategy) CanHandle(ev PointerEvent, hit hittest.Result) bool {
	if ev.Button != ButtonPrimary || s.env.viewport.Panning() || hit.Port != nil {
		return false
	}
	return resolveNodeID(hit) != ""
}

func (s *dragStrategy) Activate(ev PointerEvent, hit hittest.Result) Gesture {
	id := resolveNodeID(hit)
	box, ok := s.env.scene.NodeBox(id)
	if !ok {
		s.env.logger.Warn("drag target not in model", "node", id)
		return nil
	}

	sel := s.env.selection
	before := sel.IDs()
	switch {
	case ev.Modified():
		sel.Toggle(id)
	default:
		sel.Replace(id)
	}
	if after := sel.IDs(); !slices.Equal(before, after) {
		s.env.emit(Event{Name: EventSelectionChange, IDs: after})
	}

	return &dragGesture{
		env:    s.env,
		id:     id,
		start:  ev,
		origin: diagram.Point{X: box.X, Y: box.Y},
	}
}

// resolveNodeID prefers the resolved best target and falls back to the
// node under the point.
func resolveNodeID(hit hittest.Result) string {
	if b := hit.Best; b != nil && b.Type == hittest.TargetNode {
		return b.ID
	}
	return hit.Node
}

type dragGesture struct {
	env     *env
	id      string
	start   PointerEvent
	origin  diagram.Point
	crossed bool
}

// Moving implements mover.
func (g *dragGesture) Moving() (string, bool) { return g.id, g.crossed }

func (g *dragGesture) OnMove(ev PointerEvent) {
	s := g.env.viewport.EffectiveScale()
	delta := diagram.Point{X: (ev.X - g.start.X) / s, Y: (ev.Y - g.start.Y) / s}
	g.env.scene.SetOverride(g.id, g.origin.Add(delta))

	if !g.crossed && screenDist(g.start, ev) >= g.env.thresholds.Drag {
		g.crossed = true
	}
	if g.crossed {
		g.env.scene.RefreshConnected(g.id)
	}
}

func (g *dragGesture) OnEnd(ev PointerEvent) error {
	g.OnMove(ev)
	sc := g.env.scene
	if !g.crossed {
		sc.ClearOverride(g.id)
		return errs.New(errs.ErrCodeCancelled, "node %q released before the drag threshold", g.id)
	}

	n, ok := sc.Graph.Node(g.id)
	if !ok {
		g.env.logger.Warn("dragged node vanished", "node", g.id)
		sc.ClearOverride(g.id)
		return errs.New(errs.ErrCodeMissingReference, "dragged node %q not in model", g.id)
	}
	pos, _ := sc.Override(g.id)
	lane := n.LaneID
	if id, ok := sc.Lanes.DetectLane(sc.Graph.Lanes, pos.X, pos.Y); ok {
		lane = id
	}
	rel := sc.Lanes.ToRelative(pos.X, pos.Y, lane, sc.Graph.Lanes)
	laneChanged := lane != n.LaneID
	n.LaneID, n.X, n.Y = lane, rel.X, rel.Y

	sc.ClearOverride(g.id)
	sc.CommitEdges(g.id)

	g.env.logger.Debug("node moved", "node", g.id, "lane", lane, "x", rel.X, "y", rel.Y)
	observability.Interaction().OnNodeMoved(g.id, laneChanged)
	g.env.emit(Event{Name: EventNodeMove, ID: g.id})
	return nil
}

func (g *dragGesture) Deactivate() {
	g.env.scene.ClearOverride(g.id)
}
