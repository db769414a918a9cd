package cli

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/swimlane/pkg/interaction"
	"github.com/matzehuels/swimlane/pkg/lanes"
	"github.com/matzehuels/swimlane/pkg/scene"
	"github.com/matzehuels/swimlane/pkg/session"
	"github.com/matzehuels/swimlane/pkg/store"
)

// Canvas rows start below the title, so terminal cell (15, 3) is screen
// (155, 50): inside Build.
func newTestEditor(t *testing.T) (*EditorModel, *[]*store.Document) {
	t.Helper()
	dir := t.TempDir()
	doc, err := readDocument(writeFile(t, dir, "flow.json", testDiagram))
	if err != nil {
		t.Fatal(err)
	}
	sess, err := session.New(doc, session.Options{
		Lanes:    lanes.Config{Gap: 10, DefaultHeight: 100, HeaderWidth: 40, Width: 1000},
		Geometry: scene.Geometry{NodeWidth: 100, NodeHeight: 50, PortRadius: 8},
		Logger:   log.New(io.Discard),
	})
	if err != nil {
		t.Fatal(err)
	}

	var saved []*store.Document
	m := NewEditorModel(sess, "flow.json", func(d *store.Document) error {
		saved = append(saved, d)
		return nil
	})
	clock := time.Unix(0, 0)
	m.now = func() time.Time { return clock }
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	return m, &saved
}

func mouse(m *EditorModel, action tea.MouseAction, col, row int) {
	btn := tea.MouseButtonLeft
	if action == tea.MouseActionRelease {
		btn = tea.MouseButtonNone
	}
	m.Update(tea.MouseMsg{X: col, Y: row, Action: action, Button: btn})
}

func click(m *EditorModel, col, row int) {
	mouse(m, tea.MouseActionPress, col, row)
	mouse(m, tea.MouseActionRelease, col, row)
}

func key(m *EditorModel, k tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

func TestEditorDrag(t *testing.T) {
	m, _ := newTestEditor(t)

	mouse(m, tea.MouseActionPress, 15, 3)
	mouse(m, tea.MouseActionMotion, 20, 3)
	mouse(m, tea.MouseActionMotion, 25, 3)
	mouse(m, tea.MouseActionRelease, 25, 3)

	g := m.sess.Document().Graph
	a, _ := g.Node("A")
	if a.X != 200 || a.LaneID != "a" {
		t.Errorf("A = (%v, %s), want (200, a)", a.X, a.LaneID)
	}
	if !m.Dirty() {
		t.Error("editor should be dirty after a move")
	}
	if v := m.View(); !strings.Contains(v, "Build") || !strings.Contains(v, "modified") {
		t.Errorf("view missing label or dirty marker:\n%s", v)
	}
}

func TestEditorRename(t *testing.T) {
	m, _ := newTestEditor(t)

	click(m, 15, 3)
	click(m, 15, 3)
	if _, ok := m.sess.EditText(); !ok {
		t.Fatal("double click did not open a label edit")
	}
	if !strings.Contains(m.View(), "enter commit") {
		t.Error("view should show the edit prompt")
	}

	key(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	key(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("!")})
	key(m, tea.KeyMsg{Type: tea.KeyBackspace})
	key(m, tea.KeyMsg{Type: tea.KeyEnter})

	a, _ := m.sess.Document().Graph.Node("A")
	if a.Label != "Builds" {
		t.Errorf("label = %q, want Builds", a.Label)
	}
	if _, ok := m.sess.EditText(); ok {
		t.Error("edit still open after enter")
	}
}

func TestEditorSlowClicksDoNotRename(t *testing.T) {
	m, _ := newTestEditor(t)
	clock := time.Unix(0, 0)
	m.now = func() time.Time { return clock }

	click(m, 15, 3)
	clock = clock.Add(time.Second)
	click(m, 15, 3)

	if _, ok := m.sess.EditText(); ok {
		t.Error("clicks a second apart opened an edit")
	}
}

func TestEditorDeleteSaveQuit(t *testing.T) {
	m, saved := newTestEditor(t)

	click(m, 15, 3)
	if len(m.last.Selection) != 1 || m.last.Selection[0] != "A" {
		t.Fatalf("selection = %v, want [A]", m.last.Selection)
	}
	key(m, tea.KeyMsg{Type: tea.KeyDelete})
	if _, ok := m.sess.Document().Graph.Node("A"); ok {
		t.Fatal("A not deleted")
	}

	if cmd := key(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd != nil {
		t.Error("q with unsaved changes should warn first")
	}

	key(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if len(*saved) != 1 {
		t.Fatalf("saves = %d, want 1", len(*saved))
	}
	if _, ok := (*saved)[0].Graph.Node("A"); ok {
		t.Error("saved document still has A")
	}
	if m.Dirty() {
		t.Error("dirty after save")
	}

	if cmd := key(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q after save should quit")
	}
}

func TestEditorModeToggle(t *testing.T) {
	m, _ := newTestEditor(t)

	key(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.last.Mode != interaction.ModeView {
		t.Fatalf("mode = %s, want VIEW", m.last.Mode)
	}
	if !strings.Contains(m.statusLine(), "VIEW") {
		t.Errorf("status line = %q", m.statusLine())
	}

	// Dragging does nothing in view mode.
	mouse(m, tea.MouseActionPress, 15, 3)
	mouse(m, tea.MouseActionMotion, 25, 3)
	mouse(m, tea.MouseActionRelease, 25, 3)
	if a, _ := m.sess.Document().Graph.Node("A"); a.X != 100 {
		t.Errorf("A.X = %v after a view-mode drag", a.X)
	}
}

func TestEditorIgnoresChromePresses(t *testing.T) {
	m, _ := newTestEditor(t)

	// Row 0 is the title bar; the status rows start at 1+17.
	click(m, 15, 0)
	click(m, 15, 18)
	if len(m.last.Selection) != 0 || len(m.last.Events) != 0 {
		t.Errorf("chrome press reached the canvas: %+v", m.last)
	}
}

func TestEditorPanAndZoom(t *testing.T) {
	m, _ := newTestEditor(t)

	key(m, tea.KeyMsg{Type: tea.KeyRight})
	key(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	if m.scale != 1.25 || m.panX != -panStep {
		t.Errorf("scale=%v panX=%v", m.scale, m.panX)
	}
	var vp interaction.Viewport
	m.sess.Do(func(mgr *interaction.Manager) { vp = *mgr.Viewport() })
	if vp.Scale != 1.25 || vp.PanX != -panStep {
		t.Errorf("viewport = %+v", vp)
	}

	key(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("0")})
	if m.scale != 1 || m.panX != 0 {
		t.Errorf("reset left scale=%v panX=%v", m.scale, m.panX)
	}
}
