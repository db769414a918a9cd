package cli

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/interaction"
	"github.com/matzehuels/swimlane/pkg/session"
)

// script is a recorded input sequence:
//
//	mode = "EDIT"
//
//	[[events]]
//	type = "pointerdown"
//	x = 160
//	y = 45
//
//	[[events]]
//	type = "pointerup"
//	x = 260
//	y = 45
type script struct {
	Mode   interaction.Mode `toml:"mode"`
	Events []session.Input  `toml:"events"`
}

func loadScript(path string) (*script, error) {
	var s script
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "script %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidInput, "script %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if s.Mode != "" && !s.Mode.Valid() {
		return nil, errs.New(errs.ErrCodeInvalidMode, "script %s: mode %q", path, s.Mode)
	}
	if len(s.Events) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "script %s has no events", path)
	}
	return &s, nil
}

type replayOpts struct {
	output string
	svg    string
}

// replayCommand applies a TOML input script to a diagram file.
func (c *CLI) replayCommand() *cobra.Command {
	var opts replayOpts

	cmd := &cobra.Command{
		Use:   "replay <diagram.json> <script.toml>",
		Short: "Apply a recorded input script to a diagram",
		Long: `Replay feeds a scripted sequence of pointer, keyboard and mode inputs to an
editing session on the diagram, exactly as a live host would, and writes the
resulting diagram. Without --output the diagram is written to stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output diagram file (default stdout)")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "also write the final scene as SVG")

	return cmd
}

func (c *CLI) runReplay(cmd *cobra.Command, diagramPath, scriptPath string, opts replayOpts) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	doc, err := readDocument(diagramPath)
	if err != nil {
		return err
	}
	sc, err := loadScript(scriptPath)
	if err != nil {
		return err
	}

	sopts := c.sessionOptions()
	sopts.Mode = sc.Mode
	sess, err := session.New(doc, sopts)
	if err != nil {
		return err
	}

	snap, err := sess.Apply(sc.Events...)
	for _, ev := range snap.Events {
		logger.Debug("event", "name", ev.Name, "detail", describeEvent(ev))
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Replayed %d inputs", len(sc.Events)))

	out := sess.Document()
	if err := writeGraph(opts.output, out.Graph); err != nil {
		return err
	}
	if opts.svg != "" {
		if err := writeOutput(opts.svg, sess.SVG()); err != nil {
			return err
		}
	}

	if opts.output == "" {
		return nil
	}
	printSuccess("Replayed %d inputs, %d events", len(sc.Events), len(snap.Events))
	printStats(len(out.Graph.Lanes), len(out.Graph.Nodes), len(out.Graph.Edges), snap.Dirty)
	for _, ev := range snap.Events {
		printDetail("%s %s", ev.Name, describeEvent(ev))
	}
	printFile(opts.output)
	if opts.svg != "" {
		printFile(opts.svg)
	}
	return nil
}

// describeEvent summarizes an event's payload for display.
func describeEvent(ev interaction.Event) string {
	switch ev.Name {
	case interaction.EventModeChange:
		return string(ev.Mode)
	case interaction.EventEdgeCreate:
		if ev.Edge != nil {
			return ev.Edge.SourceID + " " + iconArrow + " " + ev.Edge.TargetID
		}
	case interaction.EventGestureStart:
		return ev.Gesture
	case interaction.EventGestureEnd:
		if ev.Committed {
			return ev.Gesture + " committed"
		}
		return ev.Gesture + " discarded (" + string(ev.Reason) + ")"
	case interaction.EventEditBegin:
		if ev.Edit != nil {
			return string(ev.Edit.Kind) + " " + ev.Edit.ID
		}
	}
	if len(ev.IDs) > 0 {
		return strings.Join(ev.IDs, ", ")
	}
	return ev.ID
}
