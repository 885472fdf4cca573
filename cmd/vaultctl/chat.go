package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	var projectID string
	chatCmd := &cobra.Command{
		Use:   "chat MESSAGE...",
		Short: "Send a chat message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"message": strings.Join(args, " ")}
			if projectID != "" {
				payload["projectId"] = projectID
			}
			resp, err := client().R().SetBody(payload).Post("/api/chat")
			return printResult(resp, err)
		},
	}
	chatCmd.Flags().StringVarP(&projectID, "project", "p", "", "Project ID for PRD context")
	rootCmd.AddCommand(chatCmd)

	var convProject string
	var limit int
	convCmd := &cobra.Command{
		Use:   "conversations",
		Short: "Show the conversation log",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client().R().SetQueryParam("limit", strconv.Itoa(limit))
			if convProject != "" {
				req.SetQueryParam("project_id", convProject)
			}
			resp, err := req.Get("/api/conversations")
			return printResult(resp, err)
		},
	}
	convCmd.Flags().StringVarP(&convProject, "project", "p", "", "Filter by project ID")
	convCmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum turns to return")
	rootCmd.AddCommand(convCmd)
}
