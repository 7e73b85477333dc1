package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pgrepo "github.com/lazyvar/cliffhanger-club/internal/repo/postgres"
	redrepo "github.com/lazyvar/cliffhanger-club/internal/repo/redis"
	reviewsvc "github.com/lazyvar/cliffhanger-club/internal/services/review"
)

func revealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reveal",
		Short: "Control wrapped visibility",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "on",
			Short: "Make the wrapped summary visible to members",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return setReveal(cmd.Context(), true)
			},
		},
		&cobra.Command{
			Use:   "off",
			Short: "Hide the wrapped summary from members",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return setReveal(cmd.Context(), false)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the current wrapped visibility",
			RunE: func(cmd *cobra.Command, _ []string) error {
				service, cleanup, err := revealService(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				visible, err := service.RevealVisible(cmd.Context())
				if err != nil {
					return err
				}
				if visible {
					fmt.Println("wrapped is visible")
				} else {
					fmt.Println("wrapped is hidden")
				}
				return nil
			},
		},
	)

	return cmd
}

func setReveal(ctx context.Context, visible bool) error {
	service, cleanup, err := revealService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := service.SetReveal(ctx, visible); err != nil {
		return err
	}
	if visible {
		fmt.Println("wrapped is now visible")
	} else {
		fmt.Println("wrapped is now hidden")
	}
	return nil
}

func revealService(ctx context.Context) (*reviewsvc.Service, func(), error) {
	pool, cfg, err := openPool(ctx)
	if err != nil {
		return nil, nil, err
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	cache := redrepo.NewRevealCacheRepo(redisClient, 0)
	service := reviewsvc.NewService(nil, nil, pgrepo.NewSettingRepo(pool), cache, nil)

	cleanup := func() {
		pool.Close()
		_ = redisClient.Close()
	}
	return service, cleanup, nil
}
