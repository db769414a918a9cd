package route

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/swimlane/pkg/diagram"
)

func pt(x, y float64) diagram.Point { return diagram.Point{X: x, Y: y} }

func TestCalcManhattanPath(t *testing.T) {
	tests := []struct {
		name       string
		start, end diagram.Point
		src, dst   diagram.Direction
		want       Path
	}{
		{
			name:  "right to left",
			start: pt(100, 50), end: pt(300, 150),
			src: diagram.DirRight, dst: diagram.DirLeft,
			want: Path{pt(100, 50), pt(200, 50), pt(200, 150), pt(300, 150)},
		},
		{
			name:  "bottom to top",
			start: pt(50, 100), end: pt(150, 300),
			src: diagram.DirBottom, dst: diagram.DirTop,
			want: Path{pt(50, 100), pt(50, 200), pt(150, 200), pt(150, 300)},
		},
		{
			name:  "right to top",
			start: pt(100, 50), end: pt(300, 150),
			src: diagram.DirRight, dst: diagram.DirTop,
			want: Path{pt(100, 50), pt(300, 50), pt(300, 150)},
		},
		{
			name:  "bottom to left",
			start: pt(50, 100), end: pt(300, 200),
			src: diagram.DirBottom, dst: diagram.DirLeft,
			want: Path{pt(50, 100), pt(50, 200), pt(300, 200)},
		},
		{
			name:  "crossed stubs detour",
			start: pt(100, 50), end: pt(50, 150),
			src: diagram.DirRight, dst: diagram.DirLeft,
			want: Path{pt(100, 50), pt(120, 50), pt(120, 100), pt(30, 100), pt(30, 150), pt(50, 150)},
		},
		{
			name:  "straight line",
			start: pt(0, 0), end: pt(200, 0),
			src: diagram.DirRight, dst: diagram.DirLeft,
			want: Path{pt(0, 0), pt(200, 0)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcManhattanPath(tt.start, tt.end, tt.src, tt.dst)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("path mismatch (-want +got):\n%s", diff)
			}
			for i := 1; i < len(got); i++ {
				if got[i].X != got[i-1].X && got[i].Y != got[i-1].Y {
					t.Errorf("segment %d is not orthogonal: %v -> %v", i, got[i-1], got[i])
				}
			}
		})
	}
}

func TestInferTargetDir(t *testing.T) {
	tests := []struct {
		end  diagram.Point
		want diagram.Direction
	}{
		{pt(100, 10), diagram.DirLeft},
		{pt(-100, 10), diagram.DirRight},
		{pt(10, 100), diagram.DirTop},
		{pt(10, -100), diagram.DirBottom},
	}
	for _, tt := range tests {
		if got := InferTargetDir(pt(0, 0), tt.end); got != tt.want {
			t.Errorf("InferTargetDir(%v) = %s, want %s", tt.end, got, tt.want)
		}
	}
}

func TestUnsnappedPreviewInfersDirection(t *testing.T) {
	p := CalcManhattanPath(pt(0, 0), pt(200, 80), diagram.DirRight, "")
	if p[0] != pt(0, 0) || p[len(p)-1] != pt(200, 80) {
		t.Errorf("endpoints = %v .. %v", p[0], p[len(p)-1])
	}
}

func TestClosestPoint(t *testing.T) {
	p := Path{pt(100, 50), pt(200, 50), pt(200, 150), pt(300, 150)}

	proj, ok := p.ClosestPoint(pt(205, 100))
	if !ok {
		t.Fatal("ClosestPoint on non-empty path returned !ok")
	}
	if proj.Point != pt(200, 100) {
		t.Errorf("Point = %v, want {200 100}", proj.Point)
	}
	if math.Abs(proj.Dist-5) > 1e-9 {
		t.Errorf("Dist = %v, want 5", proj.Dist)
	}
	if math.Abs(proj.T-0.5) > 1e-9 {
		t.Errorf("T = %v, want 0.5", proj.T)
	}

	if _, ok := Path(nil).ClosestPoint(pt(0, 0)); ok {
		t.Error("ClosestPoint on empty path should report !ok")
	}
}

func TestPointAtInvertsT(t *testing.T) {
	p := Path{pt(0, 0), pt(100, 0), pt(100, 100)}
	if got := p.PointAt(0.75); got != pt(100, 50) {
		t.Errorf("PointAt(0.75) = %v, want {100 50}", got)
	}
	if got := p.PointAt(2); got != pt(100, 100) {
		t.Errorf("PointAt clamps: got %v", got)
	}
}

func TestSVG(t *testing.T) {
	p := Path{pt(0, 0), pt(10, 0), pt(10, 5)}
	if got, want := p.SVG(), "M 0.0 0.0 L 10.0 0.0 L 10.0 5.0"; got != want {
		t.Errorf("SVG() = %q, want %q", got, want)
	}
	if b := p.Bounds(); b != (diagram.Rect{X: 0, Y: 0, W: 10, H: 5}) {
		t.Errorf("Bounds() = %+v", b)
	}
}
