package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/gizmo"
	"github.com/matzehuels/swimlane/pkg/interaction"
	"github.com/matzehuels/swimlane/pkg/scene"
)

const framePadding = 20.0

const diagramCSS = `
    .lane { fill: #f7f7f9; stroke: #d0d0d8; }
    .lane-header { fill: #e8e8ef; stroke: #d0d0d8; }
    .lane-label { font: 13px sans-serif; fill: #333; }
    .node rect { fill: white; stroke: #333; stroke-width: 1.5; rx: 6; }
    .node.selected rect { stroke: #2f6fde; stroke-width: 2.5; }
    .node.dragging { opacity: 0.85; }
    .node text { font: 13px sans-serif; fill: #222; }
    .edge { fill: none; stroke: #555; stroke-width: 1.5; marker-end: url(#arrow); }
    .edge.selected { stroke: #2f6fde; stroke-width: 2.5; }
    .edge.animated { stroke-dasharray: 6 4; }
    .edge-label { font: 11px sans-serif; fill: #555; }
    .port { fill: white; stroke: #2f6fde; stroke-width: 1.5; }
    .preview { fill: none; stroke-width: 2; stroke-dasharray: 5 3; pointer-events: none; }
    .preview.unsnapped { stroke: #888; }
    .preview.valid { stroke: #2f9e44; }
    .preview.invalid { stroke: #e03131; }
    .gizmo { fill: none; stroke: #2f6fde; stroke-dasharray: 4 2; pointer-events: none; }
    .gizmo-delete { fill: #e03131; cursor: pointer; }
    .gizmo-delete text { fill: white; font: bold 11px sans-serif; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	ctx      interaction.RenderContext
	preview  *interaction.Preview
	overlays []gizmo.Overlay
	selected map[string]bool
	dragging string
}

// WithContext sets the render context; ports are drawn when ShowPorts is set.
func WithContext(ctx interaction.RenderContext) SVGOption {
	return func(r *svgRenderer) { r.ctx = ctx }
}

// WithPreview draws an in-flight connection draft.
func WithPreview(p *interaction.Preview) SVGOption {
	return func(r *svgRenderer) { r.preview = p }
}

// WithOverlays draws selection gizmos.
func WithOverlays(overlays []gizmo.Overlay) SVGOption {
	return func(r *svgRenderer) { r.overlays = overlays }
}

// WithSelection marks ids as selected.
func WithSelection(ids []string) SVGOption {
	return func(r *svgRenderer) {
		r.selected = make(map[string]bool, len(ids))
		for _, id := range ids {
			r.selected[id] = true
		}
	}
}

// WithDragging marks the node being dragged.
func WithDragging(id string) SVGOption {
	return func(r *svgRenderer) { r.dragging = id }
}

// FromManager collects the options describing m's current visual state.
// gz may be nil.
func FromManager(m *interaction.Manager, gz *gizmo.Renderer) []SVGOption {
	opts := []SVGOption{
		WithContext(m.RenderContext()),
		WithPreview(m.Preview()),
		WithSelection(m.Selection().IDs()),
	}
	if id, ok := m.Dragging(); ok {
		opts = append(opts, WithDragging(id))
	}
	if gz != nil {
		opts = append(opts, WithOverlays(gz.Overlays()))
	}
	return opts
}

// RenderSVG draws the scene in paint order: lanes, edges, nodes, ports,
// the connection preview and gizmos. Geometry is read through the scene, so
// in-flight overrides are drawn rather than the committed model.
func RenderSVG(sc *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{ctx: interaction.RenderContext{Mode: interaction.ModeView}}
	for _, opt := range opts {
		opt(&r)
	}

	frame := Frame(sc)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f" data-mode="%s">`+"\n",
		frame.X, frame.Y, frame.W, frame.H, frame.W, frame.H, r.ctx.Mode)
	renderDefs(&buf)

	renderLanes(&buf, sc)
	renderEdges(&buf, sc, &r)
	renderNodes(&buf, sc, &r)
	if r.ctx.ShowPorts {
		renderPorts(&buf, sc)
	}
	if r.preview != nil {
		renderPreview(&buf, r.preview)
	}
	renderOverlays(&buf, r.overlays)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="#555"/></marker></defs>` + "\n")
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", diagramCSS)
}

func renderLanes(buf *bytes.Buffer, sc *scene.Scene) {
	for _, l := range sc.Graph.SortedLanes() {
		band, ok := sc.LaneBand(l.ID)
		if !ok {
			continue
		}
		hdr, _ := sc.LaneHeader(l.ID)
		fmt.Fprintf(buf, `  <g class="lane-group" data-lane-id="%s">`, EscapeXML(l.ID))
		fmt.Fprintf(buf, `<rect class="lane" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`, band.X, band.Y, band.W, band.H)
		fmt.Fprintf(buf, `<rect class="lane-header" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`, hdr.X, hdr.Y, hdr.W, hdr.H)
		c := hdr.Center()
		fmt.Fprintf(buf, `<text class="lane-label" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" transform="rotate(-90 %.1f %.1f)">%s</text>`,
			c.X, c.Y, c.X, c.Y, EscapeXML(TruncateLabel(l.DisplayLabel(), hdr.H)))
		buf.WriteString("</g>\n")
	}
}

func renderEdges(buf *bytes.Buffer, sc *scene.Scene, r *svgRenderer) {
	for _, e := range sc.Graph.Edges {
		path := sc.EdgePath(e)
		if len(path) < 2 {
			continue
		}
		class := "edge"
		if r.selected[e.ID] {
			class += " selected"
		}
		if e.Animated {
			class += " animated"
		}
		fmt.Fprintf(buf, `  <path class="%s" data-edge-id="%s" d="%s"/>`+"\n", class, EscapeXML(e.ID), path.SVG())
		if e.Label != "" {
			mid := path.PointAt(0.5)
			fmt.Fprintf(buf, `  <text class="edge-label" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
				mid.X, mid.Y-4, EscapeXML(e.Label))
		}
	}
}

func renderNodes(buf *bytes.Buffer, sc *scene.Scene, r *svgRenderer) {
	for _, n := range sc.Graph.Nodes {
		box, ok := sc.NodeBox(n.ID)
		if !ok {
			continue
		}
		class := "node"
		if r.selected[n.ID] {
			class += " selected"
		}
		if r.dragging == n.ID {
			class += " dragging"
		}
		c := box.Center()
		fmt.Fprintf(buf, `  <g class="%s" data-node-id="%s">`, class, EscapeXML(n.ID))
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`, box.X, box.Y, box.W, box.H)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`,
			c.X, c.Y, EscapeXML(TruncateLabel(n.DisplayLabel(), box.W)))
		buf.WriteString("</g>\n")
	}
}

func renderPorts(buf *bytes.Buffer, sc *scene.Scene) {
	radius := sc.Geometry.PortRadius / 2
	for _, a := range sc.Ports() {
		fmt.Fprintf(buf, `  <circle class="port" data-node-id="%s" data-port="%s" cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
			EscapeXML(a.NodeID), a.Dir, a.Point.X, a.Point.Y, radius)
	}
}

func renderPreview(buf *bytes.Buffer, p *interaction.Preview) {
	if len(p.Path) < 2 {
		return
	}
	fmt.Fprintf(buf, `  <path class="preview %s" d="%s"/>`+"\n", p.State, p.Path.SVG())
}

func renderOverlays(buf *bytes.Buffer, overlays []gizmo.Overlay) {
	for _, o := range overlays {
		b, h := o.Box, o.Handle
		fmt.Fprintf(buf, `  <g class="gizmo-group" data-gizmo-id="%s">`, EscapeXML(o.ID))
		fmt.Fprintf(buf, `<rect class="gizmo" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`, b.X, b.Y, b.W, b.H)
		c := h.Center()
		fmt.Fprintf(buf, `<g class="gizmo-delete"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3"/><text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle">×</text></g>`,
			h.X, h.Y, h.W, h.H, c.X, c.Y)
		buf.WriteString("</g>\n")
	}
}

// Frame returns the viewBox rectangle [RenderSVG] uses for sc.
func Frame(sc *scene.Scene) diagram.Rect {
	return sc.Bounds().Inflate(framePadding)
}
