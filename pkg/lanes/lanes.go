// Package lanes converts between world (graph-space) coordinates and
// lane-relative coordinates.
//
// Lanes are stacked vertically starting at (StartX, StartY), separated by
// Gap, in ascending Order. Every function here is pure and DOM-free; the
// traversal order is always derived from [diagram.Lane.Order], never from the
// slice position.
//
//	cfg := lanes.Config{StartY: 0, Gap: 10, DefaultHeight: 120}
//	top := cfg.LaneTop(g.Lanes, "billing")      // 0 when unknown
//	id, ok := cfg.DetectLane(g.Lanes, x, y)      // "", false outside every band
//	rel := cfg.ToRelative(x, y, id, g.Lanes)
package lanes

import (
	"github.com/matzehuels/swimlane/pkg/diagram"
)

// Config is the lane layout configuration.
type Config struct {
	StartX        float64 `toml:"start_x"`
	StartY        float64 `toml:"start_y"`
	Gap           float64 `toml:"gap"`
	DefaultHeight float64 `toml:"default_height"`
	HeaderWidth   float64 `toml:"header_width"`
	Width         float64 `toml:"width"`
}

// Default layout values.
const (
	DefaultGap         = 10.0
	DefaultLaneHeight  = 160.0
	DefaultHeaderWidth = 40.0
	DefaultLaneWidth   = 1600.0
)

// DefaultConfig returns the layout used when no configuration is given.
func DefaultConfig() Config {
	return Config{
		Gap:           DefaultGap,
		DefaultHeight: DefaultLaneHeight,
		HeaderWidth:   DefaultHeaderWidth,
		Width:         DefaultLaneWidth,
	}
}

// Height returns the lane's height, falling back to DefaultHeight.
func (c Config) Height(l *diagram.Lane) float64 {
	if l.H > 0 {
		return l.H
	}
	return c.DefaultHeight
}

// LaneTop returns the world y of the top of lane id. Lanes are walked in
// Order, accumulating height plus gap. An unknown id yields 0, not an error.
func (c Config) LaneTop(lanes []*diagram.Lane, id string) float64 {
	y := c.StartY
	for _, l := range diagram.SortLanes(lanes) {
		if l.ID == id {
			return y
		}
		y += c.Height(l) + c.Gap
	}
	return 0
}

// DetectLane returns the first lane, in Order, whose vertical band contains y
// while x is at or right of the column start.
func (c Config) DetectLane(lanes []*diagram.Lane, x, y float64) (string, bool) {
	if x < c.StartX {
		return "", false
	}
	top := c.StartY
	for _, l := range diagram.SortLanes(lanes) {
		h := c.Height(l)
		if y >= top && y < top+h {
			return l.ID, true
		}
		top += h + c.Gap
	}
	return "", false
}

// ToRelative converts world coordinates to coordinates relative to laneID.
// An empty laneID subtracts no lane top.
func (c Config) ToRelative(x, y float64, laneID string, lanes []*diagram.Lane) diagram.Point {
	var top float64
	if laneID != "" {
		top = c.LaneTop(lanes, laneID)
	}
	return diagram.Point{X: x - c.StartX, Y: y - top}
}

// ToWorld is the inverse of [Config.ToRelative].
func (c Config) ToWorld(rel diagram.Point, laneID string, lanes []*diagram.Lane) diagram.Point {
	var top float64
	if laneID != "" {
		top = c.LaneTop(lanes, laneID)
	}
	return diagram.Point{X: rel.X + c.StartX, Y: rel.Y + top}
}

// Band returns the world rectangle covered by lane id, header included.
func (c Config) Band(lanes []*diagram.Lane, id string) (diagram.Rect, bool) {
	top := c.StartY
	for _, l := range diagram.SortLanes(lanes) {
		h := c.Height(l)
		if l.ID == id {
			return diagram.Rect{X: c.StartX, Y: top, W: c.Width, H: h}, true
		}
		top += h + c.Gap
	}
	return diagram.Rect{}, false
}

// Header returns the world rectangle of lane id's header strip.
func (c Config) Header(lanes []*diagram.Lane, id string) (diagram.Rect, bool) {
	band, ok := c.Band(lanes, id)
	if !ok {
		return diagram.Rect{}, false
	}
	band.W = c.HeaderWidth
	return band, true
}

// Extent returns the total height of the lane stack, gaps between lanes
// included.
func (c Config) Extent(lanes []*diagram.Lane) float64 {
	var h float64
	for i, l := range lanes {
		if i > 0 {
			h += c.Gap
		}
		h += c.Height(l)
	}
	return h
}
