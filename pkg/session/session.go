// Package session manages live editing sessions.
//
// A [Session] binds one working copy of a diagram to everything needed to
// edit it interactively: a scene, an interaction manager, a gizmo renderer
// and a label editor. Input arrives as a batch of [Input] values; each batch
// returns a [Snapshot] of what the host needs to redraw.
//
// Sessions are independent and each serializes its own input, so one host
// can drive many diagrams concurrently. A [Registry] hands out sessions by
// id and expires idle ones.
//
// # Usage
//
//	reg := session.NewRegistry(session.Options{TTL: 30 * time.Minute})
//	sess, err := reg.Open(doc)
//	snap, err := sess.Apply(
//	    session.Input{Type: session.InputPointerDown, PointerEvent: interaction.PointerEvent{X: 160, Y: 45}},
//	    session.Input{Type: session.InputPointerUp, PointerEvent: interaction.PointerEvent{X: 260, Y: 45}},
//	)
//	doc := sess.Document() // save it back
package session

import (
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/swimlane/pkg/diagram"
	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/gizmo"
	"github.com/matzehuels/swimlane/pkg/interaction"
	"github.com/matzehuels/swimlane/pkg/lanes"
	"github.com/matzehuels/swimlane/pkg/render"
	"github.com/matzehuels/swimlane/pkg/scene"
	"github.com/matzehuels/swimlane/pkg/store"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 30 * time.Minute

// Options configures sessions. Zero fields take defaults.
type Options struct {
	TTL        time.Duration
	Lanes      lanes.Config
	Geometry   scene.Geometry
	Thresholds interaction.Thresholds
	// Mode is the initial mode of new sessions; EDIT when empty.
	Mode   interaction.Mode
	Logger *log.Logger
	// NewID generates session ids.
	NewID func() string
	// Confirm is asked before deletes. Nil approves, which suits hosts that
	// confirm on the client before sending the delete key.
	Confirm func(prompt string) bool
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Lanes == (lanes.Config{}) {
		o.Lanes = lanes.DefaultConfig()
	}
	if o.Geometry == (scene.Geometry{}) {
		o.Geometry = scene.DefaultGeometry()
	}
	if o.Thresholds == (interaction.Thresholds{}) {
		o.Thresholds = interaction.DefaultThresholds()
	}
	if o.Mode == "" {
		o.Mode = interaction.ModeEdit
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Session is a live edit of one diagram.
type Session struct {
	ID        string
	DiagramID string
	Name      string
	CreatedAt time.Time

	mu      sync.Mutex
	graph   *diagram.Graph
	scene   *scene.Scene
	manager *interaction.Manager
	gizmos  *gizmo.Renderer
	editor  *interaction.LabelEditor
	pending []interaction.Event
	dirty   bool
}

// New opens a session on a copy of doc's graph.
func New(doc *store.Document, opts Options) (*Session, error) {
	if doc == nil || doc.Graph == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "session needs a diagram")
	}
	opts = opts.withDefaults()

	g := doc.Graph.Clone()
	sc := scene.New(g, opts.Lanes, opts.Geometry)
	sc.RerouteAll()

	s := &Session{
		ID:        opts.NewID(),
		DiagramID: doc.ID,
		Name:      doc.Name,
		CreatedAt: time.Now(),
		graph:     g,
		scene:     sc,
		editor:    interaction.NewLabelEditor(g),
	}
	s.gizmos = gizmo.New(sc, gizmo.Options{Confirm: opts.Confirm, Logger: opts.Logger})
	s.manager = interaction.New(sc, interaction.Options{
		Mode:       opts.Mode,
		Thresholds: opts.Thresholds,
		Gizmos:     s.gizmos,
		Editor:     s.editor,
		Confirm:    opts.Confirm,
		Logger:     opts.Logger.With("session", s.ID),
	})
	for _, name := range interaction.EventNames {
		s.manager.On(name, s.record)
	}
	return s, nil
}

func (s *Session) record(ev interaction.Event) {
	s.pending = append(s.pending, ev)
	switch ev.Name {
	case interaction.EventNodeMove, interaction.EventEdgeCreate, interaction.EventElementsDelete:
		s.dirty = true
	}
}

// Snapshot is the visible state after a batch of input.
type Snapshot struct {
	// Events were emitted since the previous snapshot.
	Events    []interaction.Event     `json:"events"`
	Selection []string                `json:"selection"`
	State     string                  `json:"state"`
	Mode      interaction.Mode        `json:"mode"`
	Gizmos    []gizmo.Overlay         `json:"gizmos"`
	Preview   *interaction.Preview    `json:"preview,omitempty"`
	Editing   *interaction.EditTarget `json:"editing,omitempty"`
	// Dirty reports unsaved model changes.
	Dirty bool `json:"dirty"`
}

// Apply feeds inputs to the manager in order and returns the resulting
// snapshot. It stops at the first invalid input; inputs before it stay
// applied.
func (s *Session) Apply(inputs ...Input) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, in := range inputs {
		if err := s.apply(in); err != nil {
			return s.snapshot(), errs.Wrap(errs.GetCode(err), err, "input %d (%s)", i, in.Type)
		}
	}
	return s.snapshot(), nil
}

// Snapshot returns the current state and drains pending events.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		Events:    s.pending,
		Selection: s.manager.Selection().IDs(),
		State:     s.manager.State().String(),
		Mode:      s.manager.Mode(),
		Gizmos:    s.gizmos.Overlays(),
		Dirty:     s.dirty,
	}
	if snap.Events == nil {
		snap.Events = []interaction.Event{}
	}
	if pv := s.manager.Preview(); pv != nil {
		c := *pv
		c.Path = slices.Clone(pv.Path)
		snap.Preview = &c
	}
	if t, ok := s.editor.Editing(); ok {
		snap.Editing = &t
	}
	s.pending = nil
	return snap
}

// Document returns a copy of the working graph as a document ready to
// store.
func (s *Session) Document() *store.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &store.Document{ID: s.DiagramID, Name: s.Name, Graph: s.graph.Clone()}
}

// MarkSaved clears the dirty flag.
func (s *Session) MarkSaved() {
	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
}

// SVG renders the live scene, including in-flight drags, previews and
// gizmos.
func (s *Session) SVG() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return render.RenderSVG(s.scene, render.FromManager(s.manager, s.gizmos)...)
}

// Do runs fn with exclusive access to the manager. Events emitted inside fn
// show up in the next snapshot.
func (s *Session) Do(fn func(m *interaction.Manager)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.manager)
}

// EditText returns the label editor's current text, and whether an edit is
// open.
func (s *Session) EditText() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.editor.Editing()
	return s.editor.Text(), ok
}
