package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{Use: "users", Short: "User operations"}

	var email, name string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user; prints the generated API key once",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email required")
			}
			payload := map[string]interface{}{"email": email}
			if name != "" {
				payload["displayName"] = name
			}
			resp, err := client().R().SetBody(payload).Post("/api/users")
			return printResult(resp, err)
		},
	}
	createCmd.Flags().StringVarP(&email, "email", "e", "", "User email (required)")
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	_ = createCmd.MarkFlagRequired("email")
	usersCmd.AddCommand(createCmd)

	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().Get("/api/users/me")
			return printResult(resp, err)
		},
	}
	usersCmd.AddCommand(meCmd)

	rootCmd.AddCommand(usersCmd)
}
