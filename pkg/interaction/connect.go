package interaction

import (
	"math"

	"github.com/matzehuels/swimlane/pkg/diagram"
	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/hittest"
	"github.com/matzehuels/swimlane/pkg/observability"
	"github.com/matzehuels/swimlane/pkg/route"
	"github.com/matzehuels/swimlane/pkg/scene"
)

// PreviewState is the validity feedback of a connection draft.
type PreviewState string

// Preview states.
const (
	PreviewUnsnapped PreviewState = "unsnapped"
	PreviewValid     PreviewState = "valid"
	PreviewInvalid   PreviewState = "invalid"
)

// Preview is the transient path drawn while a connection is dragged. It is
// never part of the scene and so never intercepts hit tests.
type Preview struct {
	SourceID  string            `json:"sourceId"`
	SourceDir diagram.Direction `json:"sourceDir"`
	TargetID  string            `json:"targetId,omitempty"`
	TargetDir diagram.Direction `json:"targetDir,omitempty"`
	Path      route.Path        `json:"path"`
	State     PreviewState      `json:"state"`
	// Reason carries the error code when State is invalid.
	Reason string `json:"reason,omitempty"`
}

// connectStrategy drags a new edge out of a port.
type connectStrategy struct{ env *env }

func (s *connectStrategy) Kind() Kind { return KindConnection }

func (s *connectStrategy) CanHandle(ev PointerEvent, hit hittest.Result) bool {
	return ev.Button == ButtonPrimary && !s.env.viewport.Panning() && hit.Port != nil
}

func (s *connectStrategy) Activate(ev PointerEvent, hit hittest.Result) Gesture {
	start, ok := s.env.scene.Port(hit.Port.NodeID, hit.Port.Dir)
	if !ok {
		s.env.logger.Warn("connection source not in model", "node", hit.Port.NodeID)
		return nil
	}
	return &connectGesture{
		env:   s.env,
		start: start,
		preview: &Preview{
			SourceID:  hit.Port.NodeID,
			SourceDir: hit.Port.Dir,
			Path:      route.Path{start, start},
			State:     PreviewUnsnapped,
		},
	}
}

type connectGesture struct {
	env     *env
	start   diagram.Point
	preview *Preview
}

// Preview returns the current draft; nil once the gesture has ended.
func (g *connectGesture) Preview() *Preview { return g.preview }

func (g *connectGesture) OnMove(ev PointerEvent) {
	if g.preview == nil {
		return
	}
	p := g.env.viewport.ToGraph(ev.X, ev.Y)
	pv := g.preview

	end, dir := p, diagram.Direction("")
	pv.TargetID, pv.TargetDir, pv.Reason = "", "", ""
	pv.State = PreviewUnsnapped
	if a, ok := g.snap(p); ok {
		end, dir = a.Point, a.Dir
		pv.TargetID, pv.TargetDir = a.NodeID, a.Dir
		if err := g.env.scene.Graph.ValidateConnection(pv.SourceID, a.NodeID); err != nil {
			pv.State = PreviewInvalid
			pv.Reason = string(errs.GetCode(err))
		} else {
			pv.State = PreviewValid
		}
	}
	pv.Path = g.env.scene.Router(g.start, end, pv.SourceDir, dir)
}

// snap returns the port nearest to p within the snap radius.
func (g *connectGesture) snap(p diagram.Point) (scene.PortAnchor, bool) {
	var (
		anchor scene.PortAnchor
		found  bool
	)
	best := math.Inf(1)
	for _, a := range g.env.scene.Ports() {
		if d := a.Point.Dist(p); d <= g.env.thresholds.Snap && d < best {
			best, anchor, found = d, a, true
		}
	}
	return anchor, found
}

func (g *connectGesture) OnEnd(ev PointerEvent) error {
	// Re-snap at the release point so a release without a preceding move
	// still resolves its target.
	g.OnMove(ev)
	pv := g.preview
	if pv == nil {
		return errs.New(errs.ErrCodeCancelled, "connection already ended")
	}
	switch pv.State {
	case PreviewUnsnapped:
		return errs.New(errs.ErrCodeCancelled, "connection from %q released away from a port", pv.SourceID)
	case PreviewInvalid:
		g.env.logger.Debug("connection rejected", "source", pv.SourceID, "target", pv.TargetID, "reason", pv.Reason)
		observability.Interaction().OnConnectionRejected(pv.Reason)
		return errs.New(errs.ErrCodeInvalidOperation, "connection %s -> %s rejected: %s", pv.SourceID, pv.TargetID, pv.Reason)
	}

	e := &diagram.Edge{
		ID:        g.env.newID(),
		SourceID:  pv.SourceID,
		TargetID:  pv.TargetID,
		SourceDir: pv.SourceDir,
		TargetDir: pv.TargetDir,
		Points:    pv.Path.Points(),
	}
	if err := g.env.scene.Graph.AddEdge(e); err != nil {
		g.env.logger.Warn("connection not committed", "err", err)
		observability.Interaction().OnConnectionRejected(string(errs.GetCode(err)))
		return err
	}
	g.env.logger.Debug("edge created", "edge", e.ID, "source", e.SourceID, "target", e.TargetID)
	observability.Interaction().OnEdgeCreated(e.SourceID, e.TargetID)
	g.env.emit(Event{Name: EventEdgeCreate, ID: e.ID, Edge: e})
	return nil
}

func (g *connectGesture) Deactivate() {
	g.preview = nil
}
