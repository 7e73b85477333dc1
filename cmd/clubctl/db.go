package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}
	cmd.AddCommand(dbInitCmd())
	return cmd
}

func dbInitCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Apply schema migrations in order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, _, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("read migrations dir: %w", err)
			}

			var files []string
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
					continue
				}
				files = append(files, entry.Name())
			}
			sort.Strings(files)

			for _, name := range files {
				sql, err := os.ReadFile(filepath.Join(dir, name))
				if err != nil {
					return fmt.Errorf("read migration %s: %w", name, err)
				}
				if _, err := pool.Exec(cmd.Context(), string(sql)); err != nil {
					return fmt.Errorf("apply migration %s: %w", name, err)
				}
				fmt.Printf("applied %s\n", name)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "migrations", "Directory holding .sql migration files")
	return cmd
}
