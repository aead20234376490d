package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/laidout/impose/internal/server"
	"github.com/laidout/impose/pkg/cache"
	"github.com/laidout/impose/pkg/pipeline"
	"github.com/laidout/impose/pkg/store"
)

const defaultAddr = ":8080"

type serveOpts struct {
	addr          string
	redisAddr     string
	redisPassword string
	redisDB       int
	mongoURI      string
	noCache       bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the imposition HTTP API",
		Long: `Run the imposition HTTP API.

Results are cached in Redis when --redis (or ` + envRedisAddr + `) is set and in
the local cache directory otherwise. Presets are kept in MongoDB when
--mongo-uri (or ` + envMongoURI + `) is set and in memory otherwise; the built-in
presets are added on startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", envOr(envRedisAddr, ""), "Redis address for the shared cache")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", envOr(envMongoURI, ""), "MongoDB URI for presets")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	ch, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, nil, c.Logger)
	defer runner.Close()

	var st store.Store = store.NewMemoryStore()
	if opts.mongoURI != "" {
		if st, err = store.NewMongoStore(ctx, store.MongoConfig{URI: opts.mongoURI}); err != nil {
			return err
		}
		c.Logger.Info("using mongo preset store")
	}
	defer st.Close()

	n, err := store.Seed(ctx, st)
	if err != nil {
		return fmt.Errorf("seed presets: %w", err)
	}
	c.Logger.Debug("seeded presets", "added", n)

	printInfo("Serving on %s", StyleHighlight.Render(opts.addr))
	return server.New(runner, st, c.Logger).ListenAndServe(ctx, opts.addr)
}

func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.noCache || opts.redisAddr == "" {
		return newCache(opts.noCache)
	}
	ch, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     opts.redisAddr,
		Password: opts.redisPassword,
		DB:       opts.redisDB,
		Prefix:   appName + ":",
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", opts.redisAddr, err)
	}
	c.Logger.Info("using redis cache", "addr", opts.redisAddr)
	return ch, nil
}
