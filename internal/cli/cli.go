package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swimlane/pkg/buildinfo"
	"github.com/matzehuels/swimlane/pkg/config"
	"github.com/matzehuels/swimlane/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "swimlane"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration, or the defaults before the root
// command has run.
func (c *CLI) Config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
// Its PersistentPreRunE loads the config file and applies its log level.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Swimlane edits lane diagrams by direct manipulation",
		Long:         `Swimlane hosts interactive lane diagram editing: drag nodes between lanes, draw connections port to port, edit labels in place, and save the result to a file, Redis or MongoDB.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.configCommand())

	return root
}

func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		c.SetLogLevel(level)
	} else {
		c.Logger.Warn("ignoring log level", "level", cfg.Log.Level)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// sessionOptions derives session options from the loaded config.
func (c *CLI) sessionOptions() session.Options {
	cfg := c.Config()
	return session.Options{
		TTL:        cfg.Server.SessionTTL,
		Lanes:      cfg.Lanes,
		Geometry:   cfg.Nodes,
		Thresholds: cfg.Interaction,
		Logger:     c.Logger,
	}
}
