package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swimlane/internal/server"
	"github.com/matzehuels/swimlane/pkg/observability"
	"github.com/matzehuels/swimlane/pkg/observability/prom"
	"github.com/matzehuels/swimlane/pkg/session"
	"github.com/matzehuels/swimlane/pkg/store"
)

type serveOpts struct {
	addr      string
	backend   string
	noMetrics bool
}

// serveCommand runs the HTTP host until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve diagrams and editing sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&opts.backend, "store", "", "store backend: memory, file, redis, mongo (overrides store.backend)")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg := *c.Config()
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.backend != "" {
		cfg.Store.Backend = opts.backend
	}
	if opts.noMetrics {
		cfg.Server.Metrics = false
	}

	var gatherer prometheus.Gatherer
	if cfg.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom.New(reg).Install()
		defer observability.Reset()
		gatherer = reg
	}

	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions := session.NewRegistry(c.sessionOptions())

	printInfo("Serving %s", StyleTitle.Render(appName))
	printKeyValue("addr", cfg.Server.Addr)
	printKeyValue("store", cfg.Store.Backend)
	printKeyValue("session ttl", cfg.Server.SessionTTL.String())
	if gatherer != nil {
		printKeyValue("metrics", "/metrics")
	}

	srv := server.New(server.Options{
		Store:    st,
		Sessions: sessions,
		Gatherer: gatherer,
		Logger:   logger,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}
