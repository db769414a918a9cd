package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/gizmo"
	"github.com/matzehuels/swimlane/pkg/interaction"
	"github.com/matzehuels/swimlane/pkg/session"
	"github.com/matzehuels/swimlane/pkg/store"
)

const (
	titleRows  = 1
	statusRows = 2

	doubleClickWindow = 400 * time.Millisecond
	maxEventLog       = 4
	panStep           = 4 * cellW
	minScale          = 0.25
	maxScale          = 4.0
)

var (
	styleModeEdit = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(colorCyan).Padding(0, 1)
	styleModeView = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(colorGray).Padding(0, 1)
	styleError    = lipgloss.NewStyle().Foreground(colorRed)
	styleCursor   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

// =============================================================================
// EditorModel - Interactive diagram editing
// =============================================================================

// EditorModel is the bubbletea model of the terminal editor. Mouse and key
// messages become session inputs; the view rasterizes the live scene.
// Terminal cell (col, row) maps to the screen point at the center of the
// cell, with the canvas starting below the title row.
type EditorModel struct {
	sess *session.Session
	name string
	save func(*store.Document) error
	now  func() time.Time

	width, height int
	scale         float64
	panX, panY    float64

	last     session.Snapshot
	log      []interaction.Event
	message  string
	err      error
	warnQuit bool

	lastClick   time.Time
	lastClickAt cell
	pressed     bool
}

// NewEditorModel creates an editor on sess. save persists the document on
// ctrl+s.
func NewEditorModel(sess *session.Session, name string, save func(*store.Document) error) *EditorModel {
	return &EditorModel{
		sess:   sess,
		name:   name,
		save:   save,
		now:    time.Now,
		width:  100,
		height: 30,
		scale:  1,
		last:   sess.Snapshot(),
	}
}

// Dirty reports unsaved changes.
func (m *EditorModel) Dirty() bool { return m.last.Dirty }

func (m *EditorModel) Init() tea.Cmd {
	return nil
}

func (m *EditorModel) canvasRows() int {
	return max(m.height-titleRows-statusRows, 1)
}

func (m *EditorModel) apply(inputs ...session.Input) {
	snap, err := m.sess.Apply(inputs...)
	m.last = snap
	m.err = err
	m.log = append(m.log, snap.Events...)
	if n := len(m.log); n > maxEventLog {
		m.log = m.log[n-maxEventLog:]
	}
}

// chrome marks the title and status rows so presses there never reach the
// canvas.
func (m *EditorModel) chrome() []diagram.Rect {
	w := float64(m.width) * cellW
	return []diagram.Rect{
		{X: 0, Y: -float64(titleRows) * cellH, W: w, H: float64(titleRows) * cellH},
		{X: 0, Y: float64(m.canvasRows()) * cellH, W: w, H: float64(statusRows) * cellH},
	}
}

func (m *EditorModel) viewport() session.Input {
	return session.Input{Type: session.InputViewport, Scale: m.scale, PanX: m.panX, PanY: m.panY}
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.apply(session.Input{Type: session.InputChrome, Chrome: m.chrome()})
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		return m, m.key(msg)
	}
	return m, nil
}

func (m *EditorModel) pointer(t session.InputType, msg tea.MouseMsg) session.Input {
	x, y := screenOf(msg.X, msg.Y-titleRows)
	return session.Input{Type: t, PointerEvent: interaction.PointerEvent{
		X: x, Y: y, Shift: msg.Shift, Ctrl: msg.Ctrl, Alt: msg.Alt,
	}}
}

func (m *EditorModel) mouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		m.message = ""
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.pressed = true
			m.apply(m.pointer(session.InputPointerDown, msg))
		case tea.MouseButtonWheelUp:
			m.panY += 2 * cellH
			m.apply(m.viewport())
		case tea.MouseButtonWheelDown:
			m.panY -= 2 * cellH
			m.apply(m.viewport())
		}
	case tea.MouseActionMotion:
		m.apply(m.pointer(session.InputPointerMove, msg))
	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		inputs := []session.Input{m.pointer(session.InputPointerUp, msg)}
		at, now := cell{msg.X, msg.Y}, m.now()
		if at == m.lastClickAt && now.Sub(m.lastClick) <= doubleClickWindow {
			inputs = append(inputs, m.pointer(session.InputDoubleClick, msg))
			m.lastClick = time.Time{}
		} else {
			m.lastClick, m.lastClickAt = now, at
		}
		m.apply(inputs...)
	}
}

func (m *EditorModel) key(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	m.message = ""
	if text, ok := m.sess.EditText(); ok {
		m.editKey(msg, text)
		return nil
	}

	quit := msg.String() == "q"
	if !quit {
		m.warnQuit = false
	}
	switch msg.String() {
	case "q":
		if m.Dirty() && !m.warnQuit {
			m.warnQuit = true
			m.message = "unsaved changes, press q again to quit"
			return nil
		}
		return tea.Quit
	case "ctrl+s":
		m.saveDocument()
	case "tab":
		next := interaction.ModeView
		if m.last.Mode == interaction.ModeView {
			next = interaction.ModeEdit
		}
		m.apply(session.Input{Type: session.InputMode, Mode: next})
	case "esc":
		m.apply(session.Input{Type: session.InputKeyDown, Key: interaction.KeyEscape})
	case "delete":
		m.apply(session.Input{Type: session.InputKeyDown, Key: interaction.KeyDelete})
	case "backspace":
		m.apply(session.Input{Type: session.InputKeyDown, Key: interaction.KeyBackspace})
	case "left":
		m.panX += panStep
		m.apply(m.viewport())
	case "right":
		m.panX -= panStep
		m.apply(m.viewport())
	case "up":
		m.panY += panStep
		m.apply(m.viewport())
	case "down":
		m.panY -= panStep
		m.apply(m.viewport())
	case "+", "=":
		m.scale = min(m.scale*1.25, maxScale)
		m.apply(m.viewport())
	case "-":
		m.scale = max(m.scale/1.25, minScale)
		m.apply(m.viewport())
	case "0":
		m.scale, m.panX, m.panY = 1, 0, 0
		m.apply(m.viewport())
	}
	return nil
}

// editKey routes keys to the open label edit.
func (m *EditorModel) editKey(msg tea.KeyMsg, text string) {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		m.apply(session.Input{Type: session.InputText, Text: text + string(msg.Runes)})
	case tea.KeyBackspace:
		r := []rune(text)
		if len(r) > 0 {
			m.apply(session.Input{Type: session.InputText, Text: string(r[:len(r)-1])})
		}
	case tea.KeyEnter:
		m.apply(session.Input{Type: session.InputCommit})
	case tea.KeyEsc:
		m.apply(session.Input{Type: session.InputKeyDown, Key: interaction.KeyEscape})
	}
}

func (m *EditorModel) saveDocument() {
	if m.save == nil {
		return
	}
	if err := m.save(m.sess.Document()); err != nil {
		m.err = err
		return
	}
	m.sess.MarkSaved()
	m.last.Dirty = false
	m.err = nil
	m.message = "saved " + m.name
}

// =============================================================================
// View
// =============================================================================

func (m *EditorModel) View() string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(appName) + " " + StyleDim.Render(m.name))
	sb.WriteByte('\n')
	sb.WriteString(m.drawCanvas().String())
	sb.WriteByte('\n')
	sb.WriteString(m.statusLine())
	sb.WriteByte('\n')
	sb.WriteString(m.messageLine())
	return sb.String()
}

func (m *EditorModel) drawCanvas() *canvas {
	cv := newCanvas(m.width, m.canvasRows())
	m.sess.Do(func(mgr *interaction.Manager) {
		sc := mgr.Scene()
		vp := mgr.Viewport()
		g := sc.Graph

		for _, l := range g.SortedLanes() {
			band, ok := sc.LaneBand(l.ID)
			if !ok {
				continue
			}
			a := project(vp, diagram.Point{X: band.X, Y: band.Y})
			b := project(vp, diagram.Point{X: band.Right(), Y: band.Bottom()})
			cv.segment(cell{a.col, a.row}, cell{b.col, a.row}, clsLane)
			cv.text(a.col, a.row+1, l.DisplayLabel(), clsHeader)
		}

		for _, e := range g.Edges {
			cv.path(vp, sc.EdgePath(e), clsEdge)
		}

		dragging, _ := mgr.Dragging()
		for _, n := range g.Nodes {
			box, ok := sc.NodeBox(n.ID)
			if !ok {
				continue
			}
			cl := clsNode
			switch {
			case n.ID == dragging:
				cl = clsDragging
			case mgr.Selection().Has(n.ID):
				cl = clsSelected
			}
			a := project(vp, diagram.Point{X: box.X, Y: box.Y})
			b := project(vp, diagram.Point{X: box.Right(), Y: box.Bottom()})
			cv.fill(cell{a.col + 1, a.row + 1}, cell{b.col - 1, b.row - 1}, ' ', cl)
			cv.box(a, b, cl)
			label := fitLabel(n.DisplayLabel(), b.col-a.col-1)
			mid := (a.col + b.col - len([]rune(label)) + 1) / 2
			cv.text(mid, (a.row+b.row)/2, label, cl)
		}

		for _, o := range m.last.Gizmos {
			if o.Kind == gizmo.KindEdge {
				a := project(vp, diagram.Point{X: o.Box.X, Y: o.Box.Y})
				b := project(vp, diagram.Point{X: o.Box.Right(), Y: o.Box.Bottom()})
				cv.set(a.col, a.row, '┌', clsSelected)
				cv.set(b.col, b.row, '┘', clsSelected)
			}
			h := project(vp, o.Handle.Center())
			cv.set(h.col, h.row, '×', clsHandle)
		}

		if pv := mgr.Preview(); pv != nil {
			cl := clsUnsnapped
			switch pv.State {
			case interaction.PreviewValid:
				cl = clsValid
			case interaction.PreviewInvalid:
				cl = clsInvalid
			}
			cv.path(vp, pv.Path, cl)
		}
	})
	return cv
}

func (m *EditorModel) statusLine() string {
	mode := styleModeEdit.Render(string(m.last.Mode))
	if m.last.Mode == interaction.ModeView {
		mode = styleModeView.Render(string(m.last.Mode))
	}
	doc := m.sess.Document()
	parts := []string{
		mode,
		StyleDim.Render(strings.ToLower(m.last.State)),
		statsLine(len(doc.Graph.Lanes), len(doc.Graph.Nodes), len(doc.Graph.Edges), m.last.Dirty),
	}
	if len(m.last.Selection) > 0 {
		parts = append(parts, StyleValue.Render("selected "+strings.Join(m.last.Selection, ", ")))
	}
	return strings.Join(parts, " ")
}

func (m *EditorModel) messageLine() string {
	if text, ok := m.sess.EditText(); ok {
		target := ""
		if m.last.Editing != nil {
			target = fmt.Sprintf("%s %s", m.last.Editing.Kind, m.last.Editing.ID)
		}
		return StyleDim.Render("label "+target+": ") + StyleValue.Render(text) + styleCursor.Render("▌") +
			StyleDim.Render("  enter commit · esc cancel")
	}
	if m.err != nil {
		return styleError.Render(m.err.Error())
	}
	if m.message != "" {
		return StyleWarning.Render(m.message)
	}
	if len(m.log) > 0 {
		descs := make([]string, len(m.log))
		for i, ev := range m.log {
			descs[i] = strings.TrimSpace(string(ev.Name) + " " + describeEvent(ev))
		}
		return StyleDim.Render(strings.Join(descs, " · "))
	}
	return StyleDim.Render("drag nodes · drag from a port to connect · double click to rename · tab mode · del delete · ctrl+s save · q quit")
}

// fitLabel shortens label to n cells.
func fitLabel(label string, n int) string {
	r := []rune(label)
	if len(r) <= n {
		return label
	}
	if n <= 2 {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-2]) + ".."
}
