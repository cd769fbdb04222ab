// Package cli implements the opsmapctl command-line interface.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/opsmap"
	"github.com/kailas-cloud/opsmap/internal/config"
	logpkg "github.com/kailas-cloud/opsmap/internal/logger"
	"github.com/kailas-cloud/opsmap/internal/version"
)

var (
	// Global flags
	envFlag string
	orgFlag string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "opsmapctl",
	Short: "Seed and search opsmap workspace catalogs",
	Long: `opsmapctl loads workspace catalogs (processes, roles, systems and
actions) into the configured database and runs searches against them.

Configuration is read from config/<env>.yaml, the same file the API server uses.`,
	Version:      version.String(),
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", config.GetEnv(), "Config environment (config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&orgFlag, "org", "", "Organization id")
}

// clientOptions translates the loaded config into library options.
func clientOptions(cfg config.Config, logger *zap.Logger) []opsmap.Option {
	opts := []opsmap.Option{
		opsmap.WithLogger(logger),
		opsmap.WithSnippetLength(cfg.Search.SnippetLength),
	}
	switch cfg.Database.Driver {
	case "sqlite":
		opts = append(opts, opsmap.WithSQLite(cfg.Database.DSN))
	default:
		opts = append(opts, opsmap.WithPostgres(cfg.Database.DSN))
	}
	if cfg.Cache.Enabled() {
		opts = append(opts, opsmap.WithCacheConfig(cacheConfig(cfg.Cache)))
	}
	return opts
}

// cacheConfig points the CLI at the same keyspace the API server uses.
func cacheConfig(c config.CacheConfig) opsmap.CacheConfig {
	return opsmap.CacheConfig{
		Addrs:    c.Addrs,
		Username: c.Username,
		Password: c.Password,
		DB:       c.DB,
		TTL:      time.Duration(c.TTLSec) * time.Second,
	}
}

// openClient loads config for --env and connects.
func openClient(ctx context.Context) (*opsmap.Client, error) {
	cfg, err := config.Load(envFlag)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(envFlag, logpkg.WithLevel(cfg.Logging.Level), logpkg.WithName("opsmapctl"))
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	client, err := opsmap.New(ctx, clientOptions(cfg, logger)...)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return client, nil
}

func requireOrg() error {
	if orgFlag == "" {
		return fmt.Errorf("--org is required")
	}
	return nil
}
