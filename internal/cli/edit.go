package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swimlane/pkg/interaction"
	"github.com/matzehuels/swimlane/pkg/session"
	"github.com/matzehuels/swimlane/pkg/store"
)

// editCommand opens a diagram file in the terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	var view bool

	cmd := &cobra.Command{
		Use:   "edit <diagram.json>",
		Short: "Edit a diagram in the terminal with the mouse",
		Long: `Edit opens the diagram in a full-screen terminal editor. Drag nodes to move
them between lanes, drag from a port to another node's port to connect them,
and double click a node, edge or lane header to rename it. ctrl+s writes the
diagram back to the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd, args[0], view)
		},
	}

	cmd.Flags().BoolVar(&view, "view", false, "start in view mode")
	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, path string, view bool) error {
	ctx := cmd.Context()

	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	opts := c.sessionOptions()
	// The alternate screen owns the terminal; log lines would tear it.
	opts.Logger = log.New(io.Discard)
	if view {
		opts.Mode = interaction.ModeView
	}
	sess, err := session.New(doc, opts)
	if err != nil {
		return err
	}

	model := NewEditorModel(sess, path, func(d *store.Document) error {
		return writeGraph(path, d.Graph)
	})
	final, err := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	).Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return err
	}

	if m, ok := final.(*EditorModel); ok && m.Dirty() {
		printWarning("Discarded unsaved changes to %s", path)
		return nil
	}
	printSuccess("Closed %s", path)
	return nil
}
