package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brickwall/pkg/config"
	"github.com/matzehuels/brickwall/pkg/server"
	"github.com/matzehuels/brickwall/pkg/store"
)

// serveCommand creates the serve command for the HTTP session API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		storeKind string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout API",
		Long: `Run the HTTP layout API.

Each session owns one grid. Clients post items to lay them out, post container
sizes to /resize, and fetch stored layouts by ID. Layouts are kept in memory or
in MongoDB (server.store in brickwall.toml).`,
		Example: `  brickwall serve --addr :9090
  brickwall serve --store mongo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				cfg.Server.Store = storeKind
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := c.openStore(ctx, cfg.Server)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(runner, st, c.Logger, pipelineOptions(cfg, c.Logger))
			printInfo("Serving on %s (%s store)", StyleHighlight.Render(cfg.Server.Addr), cfg.Server.Store)
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr or :8080)")
	cmd.Flags().StringVar(&storeKind, "store", "", "layout store: memory or mongo")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

// openStore connects the configured layout store.
func (c *CLI) openStore(ctx context.Context, cfg config.ServerConfig) (store.Store, error) {
	if cfg.Store == config.StoreMongo {
		c.Logger.Debug("connecting to mongo", "database", cfg.MongoDatabase)
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	return store.NewMemoryStore(), nil
}
