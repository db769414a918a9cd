package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swimlane/pkg/diagram"
	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/render"
	"github.com/matzehuels/swimlane/pkg/render/dot"
	"github.com/matzehuels/swimlane/pkg/scene"
)

// Output formats.
const (
	formatSVG    = "svg"     // lane scene, native renderer
	formatPNG    = "png"     // lane scene via rsvg-convert
	formatPDF    = "pdf"     // lane scene via rsvg-convert
	formatDOT    = "dot"     // Graphviz source
	formatDOTSVG = "dot-svg" // Graphviz layout as SVG
	formatDOTPNG = "dot-png" // Graphviz layout as PNG
)

var formats = []string{formatSVG, formatPNG, formatPDF, formatDOT, formatDOTSVG, formatDOTPNG}

// formatExt maps a format to its file extension.
func formatExt(format string) string {
	switch format {
	case formatDOTSVG:
		return "dot.svg"
	case formatDOTPNG:
		return "dot.png"
	}
	return format
}

type renderOpts struct {
	output   string
	formats  []string
	scale    float64
	lr       bool
	detailed bool
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	return strings.Split(s, ",")
}

func validateFormats(fs []string) error {
	for _, f := range fs {
		if !slices.Contains(formats, f) {
			return errs.New(errs.ErrCodeInvalidInput, "unknown format %q (want one of %s)", f, strings.Join(formats, ", "))
		}
	}
	return nil
}

// renderCommand exports a diagram file.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "render <diagram.json>",
		Short: "Render a diagram to SVG, PNG, PDF or Graphviz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, dot-svg, dot-png (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster scale for png output")
	cmd.Flags().BoolVar(&opts.lr, "lr", false, "lay Graphviz output out left to right")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node metadata in Graphviz labels")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	doc, err := readDocument(input)
	if err != nil {
		return err
	}

	base := input
	if opts.output != "" {
		base = opts.output
	}

	var written []string
	for _, f := range opts.formats {
		data, err := c.renderFormat(ctx, doc.Graph, f, opts)
		if err != nil {
			return err
		}
		path := outputPath(base, formatExt(f))
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := writeOutput(path, data); err != nil {
			return err
		}
		logger.Debug("rendered", "format", f, "path", path, "bytes", len(data))
		written = append(written, path)
	}
	prog.done("Rendered " + doc.ID)

	printSuccess("Rendered %s", StyleTitle.Render(doc.ID))
	for _, p := range written {
		printFile(p)
	}
	return nil
}

func (c *CLI) renderFormat(ctx context.Context, g *diagram.Graph, format string, opts renderOpts) ([]byte, error) {
	switch format {
	case formatSVG, formatPNG, formatPDF:
		cfg := c.Config()
		sc := scene.New(g, cfg.Lanes, cfg.Nodes)
		sc.RerouteAll()
		svg := render.RenderSVG(sc)
		switch format {
		case formatPNG:
			return render.ToPNG(svg, opts.scale)
		case formatPDF:
			return render.ToPDF(svg)
		}
		return svg, nil
	}

	src := dot.ToDOT(g, dot.Options{LeftToRight: opts.lr, Detailed: opts.detailed})
	switch format {
	case formatDOTSVG:
		return dot.RenderSVG(ctx, src)
	case formatDOTPNG:
		return dot.RenderPNG(ctx, src, opts.scale)
	}
	return []byte(src), nil
}
