package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazyvar/cliffhanger-club/internal/pkg/validate"
	authsvc "github.com/lazyvar/cliffhanger-club/internal/services/auth"
)

func passhashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passhash <username> <password>",
		Short: "Print the credential digest for a username and password",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			username := validate.Username(args[0])
			if !validate.Required(username) {
				return fmt.Errorf("username is required")
			}
			fmt.Println(authsvc.HashPassword(username, args[1]))
			return nil
		},
	}
}
