package interaction

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/swimlane/pkg/diagram"
	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/hittest"
	"github.com/matzehuels/swimlane/pkg/observability"
	"github.com/matzehuels/swimlane/pkg/scene"
)

// Gizmos draws selection overlays and owns their delete handles. Points are
// in graph space.
type Gizmos interface {
	Render(selected []string)
	HandleAt(p diagram.Point) (string, bool)
	// Delete confirms and removes id, returning the ids actually removed.
	Delete(id string) []string
}

// Options configures a [Manager]. Every field is optional.
type Options struct {
	// Mode is the initial mode; VIEW when empty.
	Mode       Mode
	Viewport   *Viewport
	Selection  *diagram.Selection
	Thresholds Thresholds
	// Chrome lists screen rectangles of UI chrome (toolbars, panels) that
	// never start gestures.
	Chrome []diagram.Rect
	Gizmos Gizmos
	Editor Editor
	// Confirm asks the user before a destructive delete. A nil Confirm
	// approves every prompt, which suits headless hosts only.
	Confirm func(prompt string) bool
	// Delete removes elements from the model and returns the ids actually
	// removed. The default removes them from the scene's graph.
	Delete func(ids []string) []string
	// Rerender is called whenever the visual state changed.
	Rerender func()
	Logger   *log.Logger
	NewID    func() string
}

// Manager is the single entry point for pointer and keyboard input on a
// diagram surface. It owns the mode, the render context and the gesture
// state, and dispatches each pointerdown through a fixed priority chain:
//
//	connection > node drag > inline edit > selection
//
// At most one gesture is active at a time. A Manager is not safe for
// concurrent use; hosts serialize input per surface.
type Manager struct {
	env   *env
	chain []Strategy

	mode   Mode
	render RenderContext

	active      Gesture
	activeKind  Kind
	activeSince time.Time

	events   Emitter
	chrome   []diagram.Rect
	gizmos   Gizmos
	editor   Editor
	confirm  func(string) bool
	delete   func([]string) []string
	rerender func()
}

// New creates a manager over s.
func New(s *scene.Scene, opts Options) *Manager {
	if opts.Mode == "" {
		opts.Mode = ModeView
	}
	if opts.Viewport == nil {
		opts.Viewport = NewViewport()
	}
	if opts.Selection == nil {
		opts.Selection = diagram.NewSelection()
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Confirm == nil {
		opts.Confirm = func(string) bool { return true }
	}
	if opts.Delete == nil {
		opts.Delete = func(ids []string) []string { return s.Graph.Remove(ids...) }
	}

	m := &Manager{
		mode:     opts.Mode,
		render:   RenderContext{Mode: opts.Mode, ShowPorts: opts.Mode == ModeEdit},
		chrome:   opts.Chrome,
		gizmos:   opts.Gizmos,
		editor:   opts.Editor,
		confirm:  opts.Confirm,
		delete:   opts.Delete,
		rerender: opts.Rerender,
	}
	m.env = &env{
		scene:      s,
		selection:  opts.Selection,
		viewport:   opts.Viewport,
		thresholds: opts.Thresholds,
		logger:     opts.Logger,
		emit:       m.events.Emit,
		newID:      opts.NewID,
	}
	m.chain = []Strategy{
		&connectStrategy{env: m.env},
		&dragStrategy{env: m.env},
		&editStrategy{env: m.env, editor: opts.Editor},
		&selectStrategy{env: m.env},
	}
	return m
}

// =============================================================================
// Accessors
// =============================================================================

// Mode returns the current mode.
func (m *Manager) Mode() Mode { return m.mode }

// RenderContext returns the context renderers should draw with.
func (m *Manager) RenderContext() RenderContext { return m.render }

// State returns IDLE or ACTIVE_GESTURE.
func (m *Manager) State() State {
	if m.active != nil {
		return StateActive
	}
	return StateIdle
}

// ActiveKind returns the kind of the active gesture.
func (m *Manager) ActiveKind() (Kind, bool) { return m.activeKind, m.active != nil }

// Scene returns the scene the manager acts on.
func (m *Manager) Scene() *scene.Scene { return m.env.scene }

// Selection returns the live selection set.
func (m *Manager) Selection() *diagram.Selection { return m.env.selection }

// Viewport returns the viewport used to map screen coordinates.
func (m *Manager) Viewport() *Viewport { return m.env.viewport }

// Editor returns the configured inline editor, if any.
func (m *Manager) Editor() Editor { return m.editor }

// Preview returns the in-flight connection draft, or nil.
func (m *Manager) Preview() *Preview {
	if g, ok := m.active.(*connectGesture); ok {
		return g.Preview()
	}
	return nil
}

// Dragging returns the node being dragged once the drag threshold is crossed.
func (m *Manager) Dragging() (string, bool) {
	if mv, ok := m.active.(mover); ok {
		return mv.Moving()
	}
	return "", false
}

// SetChrome replaces the screen rectangles that never start gestures.
func (m *Manager) SetChrome(rects []diagram.Rect) { m.chrome = rects }

// On subscribes fn to an event.
func (m *Manager) On(name EventName, fn Handler) Subscription { return m.events.On(name, fn) }

// Off removes a subscription.
func (m *Manager) Off(sub Subscription) { m.events.Off(sub) }

// =============================================================================
// Mode
// =============================================================================

// SetMode switches the editing mode. An active gesture is cancelled, the
// selection is cleared, gizmos are re-rendered and port visibility follows
// the new mode. Invalid modes leave everything unchanged.
func (m *Manager) SetMode(mode Mode) error {
	if !mode.Valid() {
		m.env.logger.Warn("ignoring invalid mode", "mode", mode)
		return errs.New(errs.ErrCodeInvalidMode, "invalid mode %q", mode)
	}
	if m.active != nil {
		m.cancel()
	}
	if m.editor != nil {
		if _, ok := m.editor.Editing(); ok {
			if err := m.editor.Commit(); err != nil {
				m.env.logger.Warn("edit not committed", "err", err)
			}
		}
	}

	m.mode = mode
	if m.env.selection.Size() > 0 {
		m.env.selection.Clear()
		m.events.Emit(Event{Name: EventSelectionChange, IDs: []string{}})
	}
	m.renderGizmos()
	m.render = RenderContext{Mode: mode, ShowPorts: mode == ModeEdit}

	m.env.logger.Debug("mode changed", "mode", mode)
	observability.Interaction().OnModeChange(string(mode))
	m.events.Emit(Event{Name: EventModeChange, Mode: mode})
	m.redraw()
	return nil
}

// =============================================================================
// Pointer Input
// =============================================================================

// HandlePointerDown starts at most one gesture. It is ignored while a
// gesture is active, while panning, on non-primary buttons and over chrome.
func (m *Manager) HandlePointerDown(ev PointerEvent) {
	if m.active != nil {
		m.env.logger.Debug("pointerdown ignored during gesture", "gesture", m.activeKind)
		return
	}
	if !m.accepts(ev) {
		return
	}
	p := m.env.viewport.ToGraph(ev.X, ev.Y)

	if m.mode == ModeView {
		hit := m.hitTest(p)
		if b := hit.Best; b != nil && b.Type == hittest.TargetNode {
			m.events.Emit(Event{Name: EventNodeClick, ID: b.ID, Pointer: &ev})
		}
		return
	}

	if m.gizmos != nil {
		if id, ok := m.gizmos.HandleAt(p); ok {
			m.afterDelete(m.gizmos.Delete(id))
			return
		}
	}

	hit := m.hitTest(p)
	s, ok := claim(m.chain, ev, hit)
	if !ok {
		return
	}
	if s.Kind() != KindEdit {
		m.commitEditOutside(hit.Best)
	}
	g := s.Activate(ev, hit)
	if g == nil {
		return
	}
	m.active, m.activeKind, m.activeSince = g, s.Kind(), time.Now()
	observability.Interaction().OnGestureStart(s.Kind().String())
	m.events.Emit(Event{Name: EventGestureStart, Gesture: s.Kind().String()})
	m.renderGizmos()
	m.redraw()
}

// HandlePointerMove forwards to the active gesture and keeps the overlays on
// the live geometry. It is a no-op when idle.
func (m *Manager) HandlePointerMove(ev PointerEvent) {
	if m.active == nil {
		return
	}
	m.active.OnMove(ev)
	m.renderGizmos()
	m.redraw()
}

// HandlePointerUp ends the active gesture. The gesture is deactivated even
// when it fails to commit.
func (m *Manager) HandlePointerUp(ev PointerEvent) {
	if m.active == nil {
		return
	}
	m.finish(&ev)
}

// Blur cancels the active gesture without committing it, as when the
// surface loses focus or the pointer is captured elsewhere.
func (m *Manager) Blur() {
	if m.active == nil {
		return
	}
	m.cancel()
}

// HandleDoubleClick emits node:dblclick in VIEW mode and opens an inline
// edit in EDIT mode.
func (m *Manager) HandleDoubleClick(ev PointerEvent) {
	if !m.accepts(ev) {
		return
	}
	p := m.env.viewport.ToGraph(ev.X, ev.Y)
	hit := m.hitTest(p)
	b := hit.Best
	if b == nil {
		return
	}

	if m.mode == ModeView {
		if b.Type == hittest.TargetNode {
			m.events.Emit(Event{Name: EventNodeDblClick, ID: b.ID, Pointer: &ev})
		}
		return
	}
	if m.editor == nil {
		m.env.logger.Debug("double click without editor", "target", b.ID)
		return
	}
	m.commitEditOutside(b)
	t := EditTarget{Kind: b.Type, ID: b.ID, T: b.T, Point: p}
	m.editor.Begin(t)
	m.events.Emit(Event{Name: EventEditBegin, ID: b.ID, Edit: &t})
	m.redraw()
}

func (m *Manager) accepts(ev PointerEvent) bool {
	if ev.Button != ButtonPrimary || m.env.viewport.Panning() {
		return false
	}
	sp := ev.Screen()
	for _, r := range m.chrome {
		if r.Contains(sp) {
			return false
		}
	}
	return true
}

func (m *Manager) hitTest(p diagram.Point) hittest.Result {
	return hittest.Analyze(m.env.scene, p, hittest.Options{
		EdgeRadius: m.env.thresholds.EdgeHit,
		Ports:      m.render.ShowPorts,
	})
}

// commitEditOutside commits an open inline edit unless target is the element
// being edited.
func (m *Manager) commitEditOutside(target *hittest.Target) {
	if m.editor == nil {
		return
	}
	t, ok := m.editor.Editing()
	if !ok || (target != nil && target.ID == t.ID) {
		return
	}
	if err := m.editor.Commit(); err != nil {
		m.env.logger.Warn("edit not committed", "err", err)
	}
}

func (m *Manager) finish(ev *PointerEvent) {
	g, kind := m.active, m.activeKind
	var err error = errs.New(errs.ErrCodeCancelled, "%s gesture cancelled", kind)
	if ev != nil {
		err = g.OnEnd(*ev)
	}
	g.Deactivate()
	m.active = nil

	end := Event{Name: EventGestureEnd, Gesture: kind.String(), Committed: err == nil}
	if err != nil {
		end.Reason = errs.GetCode(err)
		m.env.logger.Debug("gesture ended without commit", "gesture", kind, "reason", end.Reason)
	}
	observability.Interaction().OnGestureEnd(kind.String(), end.Committed, time.Since(m.activeSince))
	m.events.Emit(end)
	m.renderGizmos()
	m.redraw()
}

func (m *Manager) cancel() {
	m.env.logger.Debug("gesture cancelled", "gesture", m.activeKind)
	m.finish(nil)
}

// =============================================================================
// Keyboard Input
// =============================================================================

// HandleKeyDown reacts to Delete/Backspace (delete the selection after
// confirmation), Escape (cancel the gesture or the inline edit) and Space
// (start panning). Events from text inputs are ignored. It reports whether
// the key was consumed.
func (m *Manager) HandleKeyDown(ev KeyEvent) bool {
	if ev.InTextInput {
		return false
	}
	switch ev.Key {
	case KeySpace:
		m.env.viewport.SpacePressed = true
		return true
	case KeyEscape:
		if m.active != nil {
			m.cancel()
			return true
		}
		if m.editor != nil {
			if _, ok := m.editor.Editing(); ok {
				m.editor.Cancel()
				m.redraw()
				return true
			}
		}
		return false
	case KeyDelete, KeyBackspace:
		if m.mode != ModeEdit || m.active != nil {
			return false
		}
		ids := m.env.selection.IDs()
		if len(ids) == 0 {
			return false
		}
		m.ConfirmDelete(ids)
		return true
	}
	return false
}

// HandleKeyUp ends panning when Space is released.
func (m *Manager) HandleKeyUp(ev KeyEvent) bool {
	if ev.Key == KeySpace {
		m.env.viewport.SpacePressed = false
		return true
	}
	return false
}

// =============================================================================
// Deletion
// =============================================================================

// ConfirmDelete asks for confirmation and deletes ids if granted. It reports
// whether the deletion went ahead.
func (m *Manager) ConfirmDelete(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	prompt := "Delete 1 selected element?"
	if len(ids) > 1 {
		prompt = fmt.Sprintf("Delete %d selected elements?", len(ids))
	}
	if !m.confirm(prompt) {
		m.env.logger.Debug("delete declined", "ids", ids)
		return false
	}
	m.DeleteElements(ids)
	return true
}

// DeleteElements removes ids without confirmation and returns the ids that
// were actually removed, cascaded edges included.
func (m *Manager) DeleteElements(ids []string) []string {
	return m.afterDelete(m.delete(ids))
}

// afterDelete forgets ids already removed from the model and reports them.
func (m *Manager) afterDelete(removed []string) []string {
	if len(removed) == 0 {
		return nil
	}
	sel := m.env.selection
	before := sel.Size()
	for _, id := range removed {
		sel.Delete(id)
		m.env.scene.ClearOverride(id)
	}
	if m.editor != nil {
		if t, ok := m.editor.Editing(); ok && slices.Contains(removed, t.ID) {
			m.editor.Cancel()
		}
	}

	m.env.logger.Debug("elements deleted", "ids", removed)
	observability.Interaction().OnElementsDeleted(len(removed))
	m.events.Emit(Event{Name: EventElementsDelete, IDs: removed})
	if sel.Size() != before {
		m.events.Emit(Event{Name: EventSelectionChange, IDs: sel.IDs()})
	}
	m.renderGizmos()
	m.redraw()
	return removed
}

func (m *Manager) renderGizmos() {
	if m.gizmos != nil {
		m.gizmos.Render(m.env.selection.IDs())
	}
}

func (m *Manager) redraw() {
	if m.rerender != nil {
		m.rerender()
	}
}
