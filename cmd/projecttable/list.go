package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"projecttable/internal/project"
	"projecttable/internal/ui/textutil"
)

func newListCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the projects held by the store",
		Long: `Print the projects held by the store.

Examples:
  # Table output
  projecttable list

  # JSON, one array
  projecttable list --json --base-url http://localhost:3001`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), cmd, *flags)
			if err != nil {
				return err
			}
			defer rt.close()

			client, err := rt.storeClient()
			if err != nil {
				return err
			}
			list, err := client.List(cmd.Context())
			if err != nil {
				return describe("list projects", err)
			}
			return printProjects(cmd.OutOrStdout(), list, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printProjects(w io.Writer, list []project.Project, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if list == nil {
			list = []project.Project{}
		}
		return enc.Encode(list)
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No projects")
		return err
	}

	rows := make([][]string, len(list))
	for i, p := range list {
		rows[i] = []string{
			strconv.Itoa(p.ID),
			textutil.Truncate(p.Name, 24),
			textutil.Truncate(textutil.SingleLine(p.Description), 40),
			p.AssignedDate,
			p.DueDate,
			p.Status,
		}
	}
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "DESCRIPTION", "ASSIGNED", "DUE", "STATUS").
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
