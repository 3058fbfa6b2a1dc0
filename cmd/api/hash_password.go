package main

import (
	"fmt"

	"github.com/birlikkoshan/todo-tracker/internal/service"

	"github.com/spf13/cobra"
)

// hashPasswordCmd prints a bcrypt hash, handy for seeding users by hand.
func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash the API would store for a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := service.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
