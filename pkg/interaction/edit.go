package interaction

import (
	"strings"

	"github.com/matzehuels/swimlane/pkg/diagram"
	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/hittest"
)

// EditTarget is the element an inline edit was started on.
type EditTarget struct {
	Kind hittest.TargetType `json:"kind"`
	ID   string             `json:"id"`
	// T is the parametric position along an edge path, for edge edits.
	T float64 `json:"t,omitempty"`
	// Point is the graph-space position of the double click.
	Point diagram.Point `json:"point"`
}

// Editor is an inline editing surface, typically a text field overlaid on
// the canvas by the host.
type Editor interface {
	Begin(t EditTarget)
	Editing() (EditTarget, bool)
	Commit() error
	Cancel()
}

// editStrategy owns presses while an inline edit is open. A press outside
// the edited element commits the edit; a press on it is left to the editor.
type editStrategy struct {
	env    *env
	editor Editor
}

func (s *editStrategy) Kind() Kind { return KindEdit }

func (s *editStrategy) CanHandle(PointerEvent, hittest.Result) bool {
	if s.editor == nil {
		return false
	}
	_, ok := s.editor.Editing()
	return ok
}

func (s *editStrategy) Activate(_ PointerEvent, hit hittest.Result) Gesture {
	t, ok := s.editor.Editing()
	if !ok {
		return nil
	}
	inside := hit.Best != nil && hit.Best.ID == t.ID
	return &editGesture{env: s.env, editor: s.editor, inside: inside}
}

type editGesture struct {
	env    *env
	editor Editor
	inside bool
}

func (g *editGesture) OnMove(PointerEvent) {}

func (g *editGesture) OnEnd(PointerEvent) error {
	if g.inside {
		return errs.New(errs.ErrCodeCancelled, "press inside the edited element")
	}
	if err := g.editor.Commit(); err != nil {
		g.env.logger.Warn("edit not committed", "err", err)
		return err
	}
	return nil
}

func (g *editGesture) Deactivate() {}

// =============================================================================
// Label Editor
// =============================================================================

// LabelEditor edits the label of a node, edge or lane in place.
type LabelEditor struct {
	graph  *diagram.Graph
	target EditTarget
	text   string
	active bool
}

// NewLabelEditor returns an editor writing to g.
func NewLabelEditor(g *diagram.Graph) *LabelEditor {
	return &LabelEditor{graph: g}
}

// Begin opens an edit on t, seeding the buffer with its current label. A
// pending edit of another element is committed first; beginning again on the
// element being edited keeps the buffer.
func (e *LabelEditor) Begin(t EditTarget) {
	if e.active {
		if e.target.ID == t.ID {
			e.target = t
			return
		}
		// Only a vanished target fails, and then there is nothing to write.
		_ = e.Commit()
	}
	e.target, e.active = t, true
	e.text = e.current()
}

// Editing implements [Editor].
func (e *LabelEditor) Editing() (EditTarget, bool) { return e.target, e.active }

// Text returns the pending label.
func (e *LabelEditor) Text() string { return e.text }

// SetText replaces the pending label.
func (e *LabelEditor) SetText(s string) { e.text = s }

// Commit writes the pending label and closes the edit.
func (e *LabelEditor) Commit() error {
	if !e.active {
		return nil
	}
	e.active = false
	text := strings.TrimSpace(e.text)
	switch e.target.Kind {
	case hittest.TargetNode:
		if n, ok := e.graph.Node(e.target.ID); ok {
			n.Label = text
			return nil
		}
	case hittest.TargetEdge:
		if ed, ok := e.graph.Edge(e.target.ID); ok {
			ed.Label = text
			return nil
		}
	case hittest.TargetLane:
		if l, ok := e.graph.Lane(e.target.ID); ok {
			l.Label = text
			return nil
		}
	}
	return errs.New(errs.ErrCodeMissingReference, "edit target %s %q no longer exists", e.target.Kind, e.target.ID)
}

// Cancel discards the pending label.
func (e *LabelEditor) Cancel() {
	e.active = false
	e.text = ""
}

func (e *LabelEditor) current() string {
	switch e.target.Kind {
	case hittest.TargetNode:
		if n, ok := e.graph.Node(e.target.ID); ok {
			return n.Label
		}
	case hittest.TargetEdge:
		if ed, ok := e.graph.Edge(e.target.ID); ok {
			return ed.Label
		}
	case hittest.TargetLane:
		if l, ok := e.graph.Lane(e.target.ID); ok {
			return l.Label
		}
	}
	return ""
}
