package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/interaction"
)

// Terminal cells are cellW by cellH screen units.
const (
	cellW = 10.0
	cellH = 20.0
)

type cellClass uint8

const (
	clsBlank cellClass = iota
	clsLane
	clsHeader
	clsEdge
	clsNode
	clsDragging
	clsSelected
	clsHandle
	clsValid
	clsInvalid
	clsUnsnapped
)

var canvasStyles = map[cellClass]lipgloss.Style{
	clsBlank:     lipgloss.NewStyle(),
	clsLane:      lipgloss.NewStyle().Foreground(colorDim),
	clsHeader:    lipgloss.NewStyle().Foreground(colorGray).Bold(true),
	clsEdge:      lipgloss.NewStyle().Foreground(colorBlue),
	clsNode:      lipgloss.NewStyle().Foreground(colorWhite),
	clsDragging:  lipgloss.NewStyle().Foreground(colorGray),
	clsSelected:  lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
	clsHandle:    lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	clsValid:     lipgloss.NewStyle().Foreground(colorGreen),
	clsInvalid:   lipgloss.NewStyle().Foreground(colorRed),
	clsUnsnapped: lipgloss.NewStyle().Foreground(colorYellow),
}

type cell struct{ col, row int }

// project maps a graph point to the terminal cell under it.
func project(vp *interaction.Viewport, p diagram.Point) cell {
	s := vp.ToScreen(p)
	return cell{col: int(math.Floor(s.X / cellW)), row: int(math.Floor(s.Y / cellH))}
}

// screenOf returns the screen point at the center of a canvas cell.
func screenOf(col, row int) (float64, float64) {
	return float64(col)*cellW + cellW/2, float64(row)*cellH + cellH/2
}

// canvas is a grid of styled runes.
type canvas struct {
	w, h  int
	runes [][]rune
	class [][]cellClass
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.runes = make([][]rune, c.h)
	c.class = make([][]cellClass, c.h)
	for row := range c.h {
		c.runes[row] = []rune(strings.Repeat(" ", c.w))
		c.class[row] = make([]cellClass, c.w)
	}
	return c
}

func (c *canvas) set(col, row int, r rune, cl cellClass) {
	if col < 0 || row < 0 || col >= c.w || row >= c.h {
		return
	}
	c.runes[row][col] = r
	c.class[row][col] = cl
}

func (c *canvas) text(col, row int, s string, cl cellClass) {
	for i, r := range []rune(s) {
		c.set(col+i, row, r, cl)
	}
}

func (c *canvas) fill(a, b cell, r rune, cl cellClass) {
	for row := a.row; row <= b.row; row++ {
		for col := a.col; col <= b.col; col++ {
			c.set(col, row, r, cl)
		}
	}
}

// box draws a rectangle outline from a to b inclusive.
func (c *canvas) box(a, b cell, cl cellClass) {
	if b.col <= a.col || b.row <= a.row {
		c.fill(a, b, '▪', cl)
		return
	}
	for col := a.col + 1; col < b.col; col++ {
		c.set(col, a.row, '─', cl)
		c.set(col, b.row, '─', cl)
	}
	for row := a.row + 1; row < b.row; row++ {
		c.set(a.col, row, '│', cl)
		c.set(b.col, row, '│', cl)
	}
	c.set(a.col, a.row, '┌', cl)
	c.set(b.col, a.row, '┐', cl)
	c.set(a.col, b.row, '└', cl)
	c.set(b.col, b.row, '┘', cl)
}

// segment draws a straight run between two cells. Diagonal runs are dotted.
func (c *canvas) segment(a, b cell, cl cellClass) {
	switch {
	case a.row == b.row:
		for col := min(a.col, b.col); col <= max(a.col, b.col); col++ {
			c.set(col, a.row, '─', cl)
		}
	case a.col == b.col:
		for row := min(a.row, b.row); row <= max(a.row, b.row); row++ {
			c.set(a.col, row, '│', cl)
		}
	default:
		steps := max(abs(b.col-a.col), abs(b.row-a.row))
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			col := a.col + int(math.Round(t*float64(b.col-a.col)))
			row := a.row + int(math.Round(t*float64(b.row-a.row)))
			c.set(col, row, '·', cl)
		}
	}
}

// path draws a polyline and marks its end.
func (c *canvas) path(vp *interaction.Viewport, pts []diagram.Point, cl cellClass) {
	if len(pts) == 0 {
		return
	}
	prev := project(vp, pts[0])
	for _, p := range pts[1:] {
		next := project(vp, p)
		c.segment(prev, next, cl)
		prev = next
	}
	c.set(prev.col, prev.row, '●', cl)
}

// String renders the grid, one styled run per class change.
func (c *canvas) String() string {
	var sb strings.Builder
	for row := range c.h {
		start := 0
		for col := 1; col <= c.w; col++ {
			if col < c.w && c.class[row][col] == c.class[row][start] {
				continue
			}
			run := string(c.runes[row][start:col])
			sb.WriteString(canvasStyles[c.class[row][start]].Render(run))
			start = col
		}
		if row < c.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
