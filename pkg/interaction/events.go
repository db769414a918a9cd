package interaction

import (
	"math"

	"github.com/matzehuels/swimlane/pkg/diagram"
)

// =============================================================================
// Modes and States
// =============================================================================

// Mode is the editing mode of the surface.
type Mode string

// Supported modes. Any other value is rejected by [Manager.SetMode].
const (
	ModeView Mode = "VIEW"
	ModeEdit Mode = "EDIT"
)

// Valid reports whether m is a supported mode.
func (m Mode) Valid() bool { return m == ModeView || m == ModeEdit }

// State is the manager's gesture state.
type State int

const (
	// StateIdle means no gesture is active; only then is a pointerdown claimed.
	StateIdle State = iota
	// StateActive means exactly one gesture owns the pointer.
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "ACTIVE_GESTURE"
	}
	return "IDLE"
}

// RenderContext is what renderers need to know about the interaction layer.
// It is owned by the manager and changes only through [Manager.SetMode].
type RenderContext struct {
	Mode      Mode `json:"mode"`
	ShowPorts bool `json:"showPorts"`
}

// =============================================================================
// Input Events
// =============================================================================

// Button identifies a pointer button.
type Button int

// Pointer buttons, numbered as in DOM pointer events.
const (
	ButtonPrimary   Button = 0
	ButtonMiddle    Button = 1
	ButtonSecondary Button = 2
)

// PointerEvent is a raw pointer event in screen (viewport pixel) coordinates.
type PointerEvent struct {
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Button Button  `json:"button,omitempty" toml:"button"`
	Shift  bool    `json:"shift,omitempty" toml:"shift"`
	Ctrl   bool    `json:"ctrl,omitempty" toml:"ctrl"`
	Meta   bool    `json:"meta,omitempty" toml:"meta"`
	Alt    bool    `json:"alt,omitempty" toml:"alt"`
}

// Modified reports whether a selection-modifying key was held.
func (e PointerEvent) Modified() bool { return e.Shift || e.Ctrl || e.Meta }

// Screen returns the event position as a point.
func (e PointerEvent) Screen() diagram.Point { return diagram.Point{X: e.X, Y: e.Y} }

func screenDist(a, b PointerEvent) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Key string `json:"key" toml:"key"`
	// InTextInput is set when a text field has focus; such events are ignored.
	InTextInput bool `json:"inTextInput,omitempty" toml:"in_text_input"`
}

// Keys the manager reacts to.
const (
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
	KeySpace     = " "
)

// =============================================================================
// Viewport
// =============================================================================

// Viewport is the pan/zoom state of the canvas, owned by the host.
type Viewport struct {
	Scale        float64 `json:"scale"`
	PanX         float64 `json:"panX"`
	PanY         float64 `json:"panY"`
	SpacePressed bool    `json:"spacePressed"`
}

// NewViewport returns an unpanned viewport at scale 1.
func NewViewport() *Viewport {
	return &Viewport{Scale: 1}
}

// EffectiveScale returns Scale, treating non-positive values as 1.
func (v *Viewport) EffectiveScale() float64 {
	if v == nil || v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

// ToGraph converts screen coordinates to graph space.
func (v *Viewport) ToGraph(x, y float64) diagram.Point {
	s := v.EffectiveScale()
	if v == nil {
		return diagram.Point{X: x, Y: y}
	}
	return diagram.Point{X: (x - v.PanX) / s, Y: (y - v.PanY) / s}
}

// ToScreen converts graph coordinates to screen space.
func (v *Viewport) ToScreen(p diagram.Point) diagram.Point {
	s := v.EffectiveScale()
	if v == nil {
		return p
	}
	return diagram.Point{X: p.X*s + v.PanX, Y: p.Y*s + v.PanY}
}

// Panning reports whether the pan modifier is held.
func (v *Viewport) Panning() bool {
	return v != nil && v.SpacePressed
}

// =============================================================================
// Thresholds
// =============================================================================

// Thresholds tunes gesture recognition. Distances for Drag and Click are in
// screen pixels; Snap and EdgeHit are in graph units.
type Thresholds struct {
	Drag    float64 `toml:"drag_threshold"`
	Click   float64 `toml:"click_threshold"`
	Snap    float64 `toml:"snap_radius"`
	EdgeHit float64 `toml:"edge_hit_radius"`
}

// DefaultThresholds returns the standard recognition thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Drag: 5, Click: 5, Snap: 24, EdgeHit: 6}
}
