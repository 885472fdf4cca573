package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	memoriesCmd := &cobra.Command{Use: "memories", Short: "Memory operations"}

	var content, memoryType, projectID string
	var tags []string
	var global bool
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if content == "" {
				return fmt.Errorf("--content required")
			}
			payload := map[string]interface{}{
				"content":     content,
				"memory_type": memoryType,
				"tags":        tags,
				"is_global":   global,
			}
			if projectID != "" {
				payload["project_id"] = projectID
			}
			resp, err := client().R().SetBody(payload).Post("/api/memories")
			return printResult(resp, err)
		},
	}
	addCmd.Flags().StringVarP(&content, "content", "c", "", "Memory content (required)")
	addCmd.Flags().StringVarP(&memoryType, "type", "t", "note", "Memory type (note, instruction, preference, technical, prd, decision)")
	addCmd.Flags().StringSliceVar(&tags, "tags", nil, "Tags")
	addCmd.Flags().StringVarP(&projectID, "project", "p", "", "Project ID")
	addCmd.Flags().BoolVarP(&global, "global", "g", false, "Visible across all projects")
	_ = addCmd.MarkFlagRequired("content")
	memoriesCmd.AddCommand(addCmd)

	var filterProject, filterType, search string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List memories",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client().R()
			if filterProject != "" {
				req.SetQueryParam("project_id", filterProject)
			}
			if filterType != "" {
				req.SetQueryParam("type", filterType)
			}
			if search != "" {
				req.SetQueryParam("search", search)
			}
			resp, err := req.Get("/api/memories")
			return printResult(resp, err)
		},
	}
	listCmd.Flags().StringVarP(&filterProject, "project", "p", "", "Filter by project ID")
	listCmd.Flags().StringVarP(&filterType, "type", "t", "", "Filter by memory type")
	listCmd.Flags().StringVarP(&search, "search", "s", "", "Substring search")
	memoriesCmd.AddCommand(listCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete MEMORY_ID",
		Short: "Delete a memory permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().Delete("/api/memories/" + args[0])
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
			}
			fmt.Println("deleted")
			return nil
		},
	}
	memoriesCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(memoriesCmd)
}
