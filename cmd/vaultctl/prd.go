package main

import (
	"github.com/spf13/cobra"
)

func init() {
	prdCmd := &cobra.Command{Use: "prd", Short: "PRD document operations"}

	var name, description string
	uploadCmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a PRD document and create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client().R().SetFile("file", args[0])
			if name != "" {
				req.SetFormData(map[string]string{"projectName": name})
			}
			if description != "" {
				req.SetFormData(map[string]string{"projectDescription": description})
			}
			resp, err := req.Post("/api/prd/upload")
			return printResult(resp, err)
		},
	}
	uploadCmd.Flags().StringVarP(&name, "name", "n", "", "Project name (defaults to file name)")
	uploadCmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	prdCmd.AddCommand(uploadCmd)

	rootCmd.AddCommand(prdCmd)

	projectsCmd := &cobra.Command{Use: "projects", Short: "Project operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().Get("/api/projects")
			return printResult(resp, err)
		},
	}
	projectsCmd.AddCommand(listCmd)

	sectionsCmd := &cobra.Command{
		Use:   "sections PROJECT_ID",
		Short: "List a project's PRD sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().Get("/api/projects/" + args[0] + "/sections")
			return printResult(resp, err)
		},
	}
	projectsCmd.AddCommand(sectionsCmd)

	rootCmd.AddCommand(projectsCmd)
}
