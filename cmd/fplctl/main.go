package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/subarna007/fpl-helper/internal/services"
	"github.com/subarna007/fpl-helper/pkg/config"
	"github.com/subarna007/fpl-helper/pkg/logger"
)

type options struct {
	entry   int
	horizon int
	timeout time.Duration
	pretty  bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "fplctl",
		Short:        "Fantasy Premier League squad and transfer planner",
		Long:         "fplctl reads the public FPL API and prints squad views, transfer plans and upgrade suggestions as JSON.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "Overall command timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", true, "Indent JSON output")
	rootCmd.SetOut(out)

	entryCmd := func(use, short string, run func(ctx context.Context, p *services.Planner) (interface{}, error)) *cobra.Command {
		cmd := &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if opts.entry <= 0 {
					return fmt.Errorf("--entry must be a positive integer, got %d", opts.entry)
				}
				return execute(cmd, opts, run)
			},
		}
		cmd.Flags().IntVar(&opts.entry, "entry", 0, "FPL entry (team) id")
		_ = cmd.MarkFlagRequired("entry")
		return cmd
	}

	squadCmd := entryCmd("squad", "Show the current squad with risk tags and captaincy picks",
		func(ctx context.Context, p *services.Planner) (interface{}, error) {
			return p.Squad(ctx, opts.entry)
		})

	planCmd := entryCmd("plan", "Recommend roll, a free transfer or a -4 hit",
		func(ctx context.Context, p *services.Planner) (interface{}, error) {
			return p.Plan(ctx, opts.entry, opts.horizon)
		})

	recsCmd := entryCmd("recommendations", "Rank single transfers by XI gain using market odds",
		func(ctx context.Context, p *services.Planner) (interface{}, error) {
			return p.Recommendations(ctx, opts.entry, opts.horizon)
		})

	upgradesCmd := entryCmd("upgrades", "Suggest like-for-like upgrades",
		func(ctx context.Context, p *services.Planner) (interface{}, error) {
			return p.Upgrades(ctx, opts.entry, opts.horizon)
		})

	teamCmd := &cobra.Command{
		Use:   "team",
		Short: "Build a squad from scratch within budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, opts, func(ctx context.Context, p *services.Planner) (interface{}, error) {
				return p.AITeam(ctx, opts.horizon)
			})
		},
	}

	for _, cmd := range []*cobra.Command{planCmd, recsCmd, upgradesCmd, teamCmd} {
		cmd.Flags().IntVar(&opts.horizon, "horizon", 0, "Gameweeks to plan over (default from DEFAULT_HORIZON)")
	}

	rootCmd.AddCommand(squadCmd, planCmd, teamCmd, recsCmd, upgradesCmd, newCacheCmd(opts))
	return rootCmd
}

func newCacheCmd(opts *options) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the redis payload cache",
	}
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached bootstrap, fixtures and odds payloads (and one entry with --entry)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCache(cmd, opts, func(ctx context.Context, cache *services.CacheService) error {
				keys := cacheKeys(opts.entry)
				if err := cache.Delete(ctx, keys...); err != nil {
					return err
				}
				logger.WithService("fplctl").WithField("keys", len(keys)).Info("Cache purged")
				return nil
			})
		},
	}
	purgeCmd.Flags().IntVar(&opts.entry, "entry", 0, "Also purge this entry's payloads")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Report which shared payloads (and one entry with --entry) are cached",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCache(cmd, opts, func(ctx context.Context, cache *services.CacheService) error {
				cached := make(map[string]bool)
				for _, key := range cacheKeys(opts.entry) {
					ok, err := cache.Exists(ctx, key)
					if err != nil {
						return err
					}
					cached[key] = ok
				}
				return writeJSON(cmd.OutOrStdout(), cached, opts.pretty)
			})
		},
	}
	statusCmd.Flags().IntVar(&opts.entry, "entry", 0, "Also report this entry's payloads")

	cacheCmd.AddCommand(purgeCmd, statusCmd)
	return cacheCmd
}

// cacheKeys lists the shared payload keys plus, for entry > 0, that entry's
// account and every gameweek's picks.
func cacheKeys(entry int) []string {
	keys := services.SharedCacheKeys()
	if entry > 0 {
		keys = append(keys, services.EntryCacheKey(entry))
		for gw := 1; gw <= 38; gw++ {
			keys = append(keys, services.PicksCacheKey(entry, gw))
		}
	}
	return keys
}

func withCache(cmd *cobra.Command, opts *options, fn func(ctx context.Context, cache *services.CacheService) error) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	client, err := services.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	cache := services.NewCacheService(client, "fpl-helper")
	defer cache.Close()
	return fn(ctx, cache)
}

func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := logger.InitLogger(cfg.LogLevel, cfg.LogFormat, cfg.IsDevelopment())
	// stdout carries the JSON result
	log.SetOutput(os.Stderr)
	return cfg, log, nil
}

func execute(cmd *cobra.Command, opts *options, run func(ctx context.Context, p *services.Planner) (interface{}, error)) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	rt := services.NewRuntime(ctx, cfg, log)
	defer rt.Close()

	result, err := run(ctx, rt.Planner)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	return writeJSON(cmd.OutOrStdout(), result, opts.pretty)
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
