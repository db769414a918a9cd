// Package gizmo maintains the selection overlays drawn above a diagram:
// one outline per selected node or edge, each with a delete handle.
//
// Overlays are derived from live scene geometry, so they track a node while
// it is being dragged, before the model has been written.
package gizmo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/scene"
)

// Overlay geometry, in graph units.
const (
	Padding    = 4.0
	HandleSize = 16.0
)

// Kind is the element kind an overlay outlines.
type Kind string

// Overlay kinds.
const (
	KindNode Kind = "node"
	KindEdge Kind = "edge"
)

// Overlay is the outline of one selected element.
type Overlay struct {
	ID   string       `json:"id"`
	Kind Kind         `json:"kind"`
	Box  diagram.Rect `json:"box"`
	// Handle is the delete affordance, centered on the box's top-right corner.
	Handle diagram.Rect `json:"handle"`
}

// Options configures a [Renderer].
type Options struct {
	// Confirm is asked before [Renderer.Delete] removes anything. Nil approves.
	Confirm func(prompt string) bool
	// Delete removes ids from the model. The default removes them from the
	// scene's graph.
	Delete func(ids []string) []string
	Logger *log.Logger
}

// Renderer reconciles overlays against the selection.
type Renderer struct {
	scene    *scene.Scene
	overlays map[string]Overlay
	confirm  func(string) bool
	delete   func([]string) []string
	logger   *log.Logger
}

// New creates a renderer over s.
func New(s *scene.Scene, opts Options) *Renderer {
	r := &Renderer{
		scene:    s,
		overlays: make(map[string]Overlay),
		confirm:  opts.Confirm,
		delete:   opts.Delete,
		logger:   opts.Logger,
	}
	if r.confirm == nil {
		r.confirm = func(string) bool { return true }
	}
	if r.delete == nil {
		r.delete = func(ids []string) []string { return s.Graph.Remove(ids...) }
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

// Render makes the overlay set match ids exactly. Ids that no longer
// resolve to a node or edge are skipped.
func (r *Renderer) Render(ids []string) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
		if o, ok := r.build(id); ok {
			r.overlays[id] = o
		} else {
			delete(r.overlays, id)
		}
	}
	for id := range r.overlays {
		if !want[id] {
			delete(r.overlays, id)
		}
	}
}

func (r *Renderer) build(id string) (Overlay, bool) {
	if box, ok := r.scene.NodeBox(id); ok {
		return newOverlay(id, KindNode, box.Inflate(Padding)), true
	}
	if e, ok := r.scene.Graph.Edge(id); ok {
		path := r.scene.EdgePath(e)
		if len(path) == 0 {
			return Overlay{}, false
		}
		return newOverlay(id, KindEdge, path.Bounds().Inflate(Padding)), true
	}
	return Overlay{}, false
}

func newOverlay(id string, kind Kind, box diagram.Rect) Overlay {
	return Overlay{
		ID:     id,
		Kind:   kind,
		Box:    box,
		Handle: diagram.Rect{X: box.Right() - HandleSize/2, Y: box.Y - HandleSize/2, W: HandleSize, H: HandleSize},
	}
}

// Overlays returns the current overlays ordered by id.
func (r *Renderer) Overlays() []Overlay {
	out := make([]Overlay, 0, len(r.overlays))
	for _, o := range r.overlays {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b Overlay) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// HandleAt returns the element whose delete handle contains p.
func (r *Renderer) HandleAt(p diagram.Point) (string, bool) {
	for _, o := range r.Overlays() {
		if o.Handle.Contains(p) {
			return o.ID, true
		}
	}
	return "", false
}

// Delete asks for confirmation and removes id together with its overlay.
// It returns the ids actually removed.
func (r *Renderer) Delete(id string) []string {
	if !r.confirm(fmt.Sprintf("Delete %s?", id)) {
		return nil
	}
	removed := r.delete([]string{id})
	for _, rid := range removed {
		delete(r.overlays, rid)
	}
	r.logger.Debug("deleted via gizmo", "id", id, "removed", len(removed))
	return removed
}
