// Package render draws lane diagrams.
//
// # Overview
//
// [RenderSVG] draws a [scene.Scene] as a standalone SVG document. Because it
// reads every position through the scene, a node in the middle of a drag is
// drawn at its override position and its edges along their live paths,
// while the model still holds the last committed geometry.
//
// The interaction layer's visual state is passed in as options:
//
//	svg := render.RenderSVG(sc, render.FromManager(mgr, gizmos)...)
//
// which draws ports when the render context asks for them, the connection
// preview with its validity class, selection styling and gizmo overlays.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Graphviz Export
//
// The [dot] subpackage exports a diagram as Graphviz DOT, one cluster per
// lane, and lays it out with Graphviz for an automatic arrangement.
//
// [dot]: github.com/matzehuels/swimlane/pkg/render/dot
package render
