package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pgrepo "github.com/lazyvar/cliffhanger-club/internal/repo/postgres"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Session maintenance",
	}
	cmd.AddCommand(sessionsSweepCmd())
	return cmd
}

func sessionsSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired sessions now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, _, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			deleted, err := pgrepo.NewSessionRepo(pool).DeleteExpired(cmd.Context())
			if err != nil {
				return fmt.Errorf("sweep sessions: %w", err)
			}

			fmt.Printf("deleted %d expired sessions\n", deleted)
			return nil
		},
	}
}
