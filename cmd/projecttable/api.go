package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"projecttable/internal/project"
	"projecttable/internal/store"
)

// projectFields are the record fields settable from the command line.
type projectFields struct {
	name, description, logo, teamImage, assigned, due, status string
}

func (f *projectFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "project name")
	cmd.Flags().StringVar(&f.description, "description", "", "project description")
	cmd.Flags().StringVar(&f.logo, "logo", "", "logo URL")
	cmd.Flags().StringVar(&f.teamImage, "team-image", "", "team image URL")
	cmd.Flags().StringVar(&f.assigned, "assigned", "", "assigned date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.status, "status", "", "project status")
}

// apply copies the flags the user actually set onto p.
func (f *projectFields) apply(cmd *cobra.Command, p *project.Project) {
	set := func(flag string, dst *string, v string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	set("name", &p.Name, f.name)
	set("description", &p.Description, f.description)
	set("logo", &p.Logo, f.logo)
	set("team-image", &p.TeamImage, f.teamImage)
	set("assigned", &p.AssignedDate, f.assigned)
	set("due", &p.DueDate, f.due)
	set("status", &p.Status, f.status)
}

func newAPICmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Manage projects through the JSON /api/projects collection",
		Long: `Manage projects through the JSON /api/projects collection.

Every change is followed by a reload of the whole collection, and the
reloaded list is printed.`,
	}
	cmd.AddCommand(
		newAPIListCmd(flags),
		newAPICreateCmd(flags),
		newAPIUpdateCmd(flags),
		newAPIDeleteCmd(flags),
	)
	return cmd
}

// withCollection runs fn against a collection built from the loaded config.
func withCollection(cmd *cobra.Command, flags *rootFlags, fn func(context.Context, *env, *store.Collection) error) error {
	rt, err := setup(cmd.Context(), cmd, *flags)
	if err != nil {
		return err
	}
	defer rt.close()

	coll, err := rt.collection()
	if err != nil {
		return err
	}
	return fn(cmd.Context(), rt, coll)
}

func newAPIListCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCollection(cmd, flags, func(ctx context.Context, _ *env, coll *store.Collection) error {
				if err := coll.Revalidate(ctx); err != nil {
					return describe("load collection", err)
				}
				return printProjects(cmd.OutOrStdout(), coll.Projects(), asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newAPICreateCmd(flags *rootFlags) *cobra.Command {
	var fields projectFields
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Long: `Create a project.

Examples:
  projecttable api create --name Apollo --status active --due 2025-06-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p project.Project
			fields.apply(cmd, &p)
			if err := p.ValidateDates(); err != nil {
				return err
			}
			return withCollection(cmd, flags, func(ctx context.Context, rt *env, coll *store.Collection) error {
				if err := coll.Create(ctx, p); err != nil {
					return describe("create project", err)
				}
				rt.logger.Info("project created", zap.String("name", p.Name))
				return printProjects(cmd.OutOrStdout(), coll.Projects(), false)
			})
		},
	}
	fields.register(cmd)
	return cmd
}

func newAPIUpdateCmd(flags *rootFlags) *cobra.Command {
	var fields projectFields
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a project",
		Long: `Change fields of a project. Fields without a flag keep their
current value.

Examples:
  projecttable api update 3 --status done`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withCollection(cmd, flags, func(ctx context.Context, rt *env, coll *store.Collection) error {
				if err := coll.Revalidate(ctx); err != nil {
					return describe("load collection", err)
				}
				list := coll.Projects()
				i := project.Index(list, id)
				if i < 0 {
					return fmt.Errorf("project %d not found", id)
				}
				p := list[i].Clone()
				fields.apply(cmd, &p)
				if err := p.ValidateDates(); err != nil {
					return err
				}
				if err := coll.Update(ctx, p); err != nil {
					return describe("update project", err)
				}
				rt.logger.Info("project updated", zap.Int("id", id))
				return printProjects(cmd.OutOrStdout(), coll.Projects(), false)
			})
		},
	}
	fields.register(cmd)
	return cmd
}

func newAPIDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withCollection(cmd, flags, func(ctx context.Context, rt *env, coll *store.Collection) error {
				if err := coll.Delete(ctx, id); err != nil {
					return describe("delete project", err)
				}
				rt.logger.Info("project deleted", zap.Int("id", id))
				return printProjects(cmd.OutOrStdout(), coll.Projects(), false)
			})
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid project id %q", s)
	}
	return id, nil
}

// describe adds a hint to store failures so the CLI user knows which side
// to look at.
func describe(action string, err error) error {
	if store.IsNetwork(err) {
		return fmt.Errorf("%s: store request failed: %w", action, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
