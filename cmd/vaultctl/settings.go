package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	settingsCmd := &cobra.Command{Use: "settings", Short: "Provider credential operations"}

	var provider, apiKey string
	setKeyCmd := &cobra.Command{
		Use:   "set-key",
		Short: "Store a provider API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" || apiKey == "" {
				return fmt.Errorf("--provider and --api-key required")
			}
			resp, err := client().R().
				SetBody(map[string]string{"provider": provider, "apiKey": apiKey}).
				Post("/api/settings/api-key")
			return printResult(resp, err)
		},
	}
	setKeyCmd.Flags().StringVarP(&provider, "provider", "p", "", "claude or openrouter (required)")
	setKeyCmd.Flags().StringVar(&apiKey, "api-key", "", "Provider API key (required)")
	_ = setKeyCmd.MarkFlagRequired("provider")
	_ = setKeyCmd.MarkFlagRequired("api-key")
	settingsCmd.AddCommand(setKeyCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show which provider keys are configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().Get("/api/settings")
			return printResult(resp, err)
		},
	}
	settingsCmd.AddCommand(showCmd)

	rootCmd.AddCommand(settingsCmd)
}
