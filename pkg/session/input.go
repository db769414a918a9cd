package session

import (
	"github.com/matzehuels/swimlane/pkg/diagram"
	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/interaction"
)

// InputType names a host input.
type InputType string

// Input types.
const (
	InputPointerDown InputType = "pointerdown"
	InputPointerMove InputType = "pointermove"
	InputPointerUp   InputType = "pointerup"
	InputDoubleClick InputType = "dblclick"
	InputKeyDown     InputType = "keydown"
	InputKeyUp       InputType = "keyup"
	InputBlur        InputType = "blur"
	InputMode        InputType = "mode"
	// InputText replaces the open label edit's text.
	InputText InputType = "text"
	// InputCommit commits the open label edit.
	InputCommit InputType = "commit"
	// InputViewport sets scale and pan.
	InputViewport InputType = "viewport"
	// InputChrome replaces the chrome rectangles.
	InputChrome InputType = "chrome"
)

// Input is one host input event. Only the fields relevant to Type are read.
// Pointer fields are in screen coordinates.
type Input struct {
	Type InputType `json:"type" toml:"type"`
	interaction.PointerEvent

	Key         string           `json:"key,omitempty" toml:"key"`
	InTextInput bool             `json:"inTextInput,omitempty" toml:"in_text_input"`
	Mode        interaction.Mode `json:"mode,omitempty" toml:"mode"`
	Text        string           `json:"text,omitempty" toml:"text"`
	Scale       float64          `json:"scale,omitempty" toml:"scale"`
	PanX        float64          `json:"panX,omitempty" toml:"pan_x"`
	PanY        float64          `json:"panY,omitempty" toml:"pan_y"`
	Chrome      []diagram.Rect   `json:"chrome,omitempty" toml:"chrome"`
}

func (s *Session) apply(in Input) error {
	m := s.manager
	switch in.Type {
	case InputPointerDown:
		m.HandlePointerDown(in.PointerEvent)
	case InputPointerMove:
		m.HandlePointerMove(in.PointerEvent)
	case InputPointerUp:
		m.HandlePointerUp(in.PointerEvent)
	case InputDoubleClick:
		m.HandleDoubleClick(in.PointerEvent)
	case InputKeyDown:
		m.HandleKeyDown(interaction.KeyEvent{Key: in.Key, InTextInput: in.InTextInput})
	case InputKeyUp:
		m.HandleKeyUp(interaction.KeyEvent{Key: in.Key, InTextInput: in.InTextInput})
	case InputBlur:
		m.Blur()
	case InputMode:
		return m.SetMode(in.Mode)
	case InputText:
		if _, ok := s.editor.Editing(); !ok {
			return errs.New(errs.ErrCodeInvalidOperation, "no label edit open")
		}
		s.editor.SetText(in.Text)
		s.dirty = true
	case InputCommit:
		if _, ok := s.editor.Editing(); !ok {
			return errs.New(errs.ErrCodeInvalidOperation, "no label edit open")
		}
		if err := s.editor.Commit(); err != nil {
			return err
		}
		s.dirty = true
	case InputViewport:
		vp := m.Viewport()
		vp.Scale = in.Scale
		vp.PanX = in.PanX
		vp.PanY = in.PanY
	case InputChrome:
		m.SetChrome(in.Chrome)
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown input type %q", in.Type)
	}
	return nil
}
