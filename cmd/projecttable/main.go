// Package main is the projecttable command: a terminal table for the remote
// projects store, plus non-interactive commands for scripting.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"projecttable/internal/table"
	"projecttable/internal/ui"
)

var version = "dev"

// flags shared by every command
type rootFlags struct {
	configPath string
	baseURL    string
	apiURL     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:   "projecttable",
		Short: "Browse and edit projects held by a remote store",
		Long: `projecttable shows the projects of a remote store as a table.

Select a row and press enter to view it, e to edit it or d to delete it.
Edits are sent to the store first; the table only changes once the store
accepts them.`,
		Version:       version,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/projecttable/config.yaml)")
	root.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "projects store URL (overrides store.base_url)")
	root.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "projects API URL (overrides api.base_url)")

	root.AddCommand(newListCmd(&flags))
	root.AddCommand(newAPICmd(&flags))
	return root
}

func runTUI(cmd *cobra.Command, flags rootFlags) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := setup(ctx, cmd, flags)
	if err != nil {
		return err
	}
	defer rt.close()

	client, err := rt.storeClient()
	if err != nil {
		return err
	}
	rt.logger.Info("starting", zap.String("version", version), zap.String("store", rt.cfg.Store.BaseURL))

	model := ui.NewAppModel(ctx, table.New(client, rt.logger), rt.logger).AsTeaModel()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
