package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the profile behind the API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client().R().Get("/api/users/me"))
		},
	}
	rootCmd.AddCommand(whoamiCmd)

	userCmd := &cobra.Command{
		Use:   "user USER_ID",
		Short: "Show a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client().R().Get(fmt.Sprintf("/api/users/%s", args[0])))
		},
	}
	rootCmd.AddCommand(userCmd)

	followCmd := &cobra.Command{
		Use:   "follow USER_ID",
		Short: "Follow a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client().R().Post(fmt.Sprintf("/api/users/%s/follow", args[0])))
		},
	}
	rootCmd.AddCommand(followCmd)

	unfollowCmd := &cobra.Command{
		Use:   "unfollow USER_ID",
		Short: "Unfollow a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client().R().Delete(fmt.Sprintf("/api/users/%s/follow", args[0])))
		},
	}
	rootCmd.AddCommand(unfollowCmd)

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client().R().Get("/api/health"))
		},
	}
	rootCmd.AddCommand(healthCmd)
}
