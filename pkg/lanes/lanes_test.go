package lanes

import (
	"testing"

	"github.com/matzehuels/swimlane/pkg/diagram"
)

func twoLanes() []*diagram.Lane {
	// Deliberately out of order in the slice.
	return []*diagram.Lane{
		{ID: "b", Order: 1, H: 150},
		{ID: "a", Order: 0, H: 100},
	}
}

func TestLaneTop(t *testing.T) {
	cfg := Config{Gap: 10, DefaultHeight: 120}
	tests := []struct {
		id   string
		want float64
	}{
		{"a", 0},
		{"b", 110},
		{"missing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := cfg.LaneTop(twoLanes(), tt.id); got != tt.want {
				t.Errorf("LaneTop(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestLaneTopWithStartAndDefaultHeight(t *testing.T) {
	cfg := Config{StartY: 50, Gap: 5, DefaultHeight: 80}
	ls := []*diagram.Lane{{ID: "x", Order: 0}, {ID: "y", Order: 1}}
	if got := cfg.LaneTop(ls, "y"); got != 135 {
		t.Errorf("LaneTop(y) = %v, want 135", got)
	}
}

func TestDetectLane(t *testing.T) {
	cfg := Config{StartX: 20, Gap: 10, DefaultHeight: 120}
	tests := []struct {
		name   string
		x, y   float64
		want   string
		wantOK bool
	}{
		{"top of a", 30, 0, "a", true},
		{"inside a", 30, 99, "a", true},
		{"gap between lanes", 30, 105, "", false},
		{"top of b", 30, 110, "b", true},
		{"inside b", 500, 259, "b", true},
		{"below every lane", 30, 400, "", false},
		{"above every lane", 30, -1, "", false},
		{"left of column", 19, 50, "", false},
		{"at column start", 20, 50, "a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cfg.DetectLane(twoLanes(), tt.x, tt.y)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DetectLane(%v, %v) = (%q, %v), want (%q, %v)", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestToRelativeRoundTrip(t *testing.T) {
	cfg := Config{StartX: 40, Gap: 10, DefaultHeight: 120}
	ls := twoLanes()

	rel := cfg.ToRelative(140, 130, "b", ls)
	if rel != (diagram.Point{X: 100, Y: 20}) {
		t.Errorf("ToRelative = %v, want {100 20}", rel)
	}
	if w := cfg.ToWorld(rel, "b", ls); w != (diagram.Point{X: 140, Y: 130}) {
		t.Errorf("ToWorld = %v, want {140 130}", w)
	}

	rel = cfg.ToRelative(140, 130, "", ls)
	if rel != (diagram.Point{X: 100, Y: 130}) {
		t.Errorf("ToRelative without lane = %v, want {100 130}", rel)
	}
}

func TestBandAndHeader(t *testing.T) {
	cfg := Config{StartX: 0, Gap: 10, DefaultHeight: 120, HeaderWidth: 40, Width: 1000}
	band, ok := cfg.Band(twoLanes(), "b")
	if !ok {
		t.Fatal("Band(b) not found")
	}
	if band != (diagram.Rect{X: 0, Y: 110, W: 1000, H: 150}) {
		t.Errorf("Band(b) = %+v", band)
	}
	hdr, _ := cfg.Header(twoLanes(), "b")
	if hdr.W != 40 || hdr.Y != 110 {
		t.Errorf("Header(b) = %+v", hdr)
	}
	if _, ok := cfg.Band(twoLanes(), "zz"); ok {
		t.Error("Band of unknown lane should not be found")
	}
	if got := cfg.Extent(twoLanes()); got != 260 {
		t.Errorf("Extent = %v, want 260", got)
	}
}
