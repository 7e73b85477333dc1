package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	"github.com/lazyvar/cliffhanger-club/internal/pkg/validate"
	pgrepo "github.com/lazyvar/cliffhanger-club/internal/repo/postgres"
	authsvc "github.com/lazyvar/cliffhanger-club/internal/services/auth"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Member management",
	}
	cmd.AddCommand(userAddCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	var (
		username    string
		displayName string
		avatarURL   string
		role        string
		password    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Provision a member account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username = validate.Username(username)
			if !validate.Required(username) {
				return fmt.Errorf("--username is required")
			}
			if role != model.RoleMember && role != model.RoleAdmin {
				return fmt.Errorf("role must be %q or %q", model.RoleMember, model.RoleAdmin)
			}
			if displayName == "" {
				displayName = username
			}

			generated := false
			if password == "" {
				password = uuid.NewString()
				generated = true
			}

			pool, _, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			digest := authsvc.HashPassword(username, password)
			id, err := pgrepo.NewUserRepo(pool).Create(cmd.Context(), username, displayName, avatarURL, digest, role)
			if err != nil {
				return fmt.Errorf("create member: %w", err)
			}

			fmt.Printf("created member %s (id %d)\n", username, id)
			if generated {
				fmt.Printf("generated password: %s\n", password)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login username (lowercased)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name shown on the site")
	cmd.Flags().StringVar(&avatarURL, "avatar", "", "Avatar image URL")
	cmd.Flags().StringVar(&role, "role", model.RoleMember, "Account role (member or admin)")
	cmd.Flags().StringVar(&password, "password", "", "Initial password (generated when omitted)")
	return cmd
}
