package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/lazyvar/cliffhanger-club/internal/config"
	pgrepo "github.com/lazyvar/cliffhanger-club/internal/repo/postgres"
)

var cfgPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "clubctl",
		Short:         "Operational tooling for the Cliffhanger Club site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "configs/config.yaml", "Path to the config file")

	rootCmd.AddCommand(
		dbCmd(),
		userCmd(),
		passhashCmd(),
		sessionsCmd(),
		revealCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func openPool(ctx context.Context) (*pgxpool.Pool, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("connect to postgres: %w", err)
	}
	return pool, cfg, nil
}
