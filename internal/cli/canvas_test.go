package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/interaction"
)

func TestCanvasBox(t *testing.T) {
	cv := newCanvas(5, 3)
	cv.box(cell{0, 0}, cell{4, 2}, clsNode)
	cv.text(1, 1, "ab", clsNode)

	want := "┌───┐\n│ab │\n└───┘"
	if got := cv.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestCanvasSegment(t *testing.T) {
	tests := []struct {
		name string
		a, b cell
		want string
	}{
		{"horizontal", cell{0, 1}, cell{3, 1}, "    \n────\n    "},
		{"vertical", cell{1, 0}, cell{1, 2}, " │  \n │  \n │  "},
		{"diagonal", cell{0, 0}, cell{2, 2}, "·   \n ·  \n  · "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := newCanvas(4, 3)
			cv.segment(tt.a, tt.b, clsEdge)
			if got := cv.String(); got != tt.want {
				t.Errorf("got\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestCanvasClipsOutOfBounds(t *testing.T) {
	cv := newCanvas(3, 2)
	cv.set(-1, 0, 'x', clsNode)
	cv.set(3, 0, 'x', clsNode)
	cv.set(0, 5, 'x', clsNode)
	cv.text(2, 1, "long", clsNode)

	if got := cv.String(); got != "   \n  l" {
		t.Errorf("got %q", got)
	}
}

func TestCanvasPath(t *testing.T) {
	cv := newCanvas(6, 3)
	vp := interaction.NewViewport()
	cv.path(vp, []diagram.Point{{X: 5, Y: 10}, {X: 35, Y: 10}, {X: 35, Y: 50}}, clsEdge)

	want := []string{"───│  ", "   │  ", "   ●  "}
	lines := strings.Split(cv.String(), "\n")
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestProject(t *testing.T) {
	vp := &interaction.Viewport{Scale: 2, PanX: 10}
	if got := project(vp, diagram.Point{X: 50, Y: 25}); got != (cell{11, 2}) {
		t.Errorf("project = %+v, want {11 2}", got)
	}
	x, y := screenOf(11, 2)
	if x != 115 || y != 50 {
		t.Errorf("screenOf = (%v, %v)", x, y)
	}
}

func TestFitLabel(t *testing.T) {
	tests := []struct {
		label string
		n     int
		want  string
	}{
		{"Build", 9, "Build"},
		{"Deployment", 6, "Depl.."},
		{"Deploy", 2, "De"},
		{"Deploy", 0, ""},
	}
	for _, tt := range tests {
		if got := fitLabel(tt.label, tt.n); got != tt.want {
			t.Errorf("fitLabel(%q, %d) = %q, want %q", tt.label, tt.n, got, tt.want)
		}
	}
}
