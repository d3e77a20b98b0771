package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"projecttable/internal/table"
)

// loadProjectsCmd fetches the full collection off the update loop.
func loadProjectsCmd(ctx context.Context, s table.Store) tea.Cmd {
	return func() tea.Msg {
		list, err := s.List(ctx)
		return ProjectsLoadedMsg{Projects: list, Err: err}
	}
}

// saveProjectCmd sends one update request.
func saveProjectCmd(ctx context.Context, s table.Store, req table.SaveRequest) tea.Cmd {
	return func() tea.Msg {
		err := s.Update(ctx, req.Draft, req.File)
		return ProjectSavedMsg{Request: req, Err: err}
	}
}

// deleteProjectCmd sends one delete request.
func deleteProjectCmd(ctx context.Context, s table.Store, id int) tea.Cmd {
	return func() tea.Msg {
		return ProjectDeletedMsg{ID: id, Err: s.Delete(ctx, id)}
	}
}

// derivePreviewCmd reads the chosen file into a data URL. The result is
// tagged with the request token so a late result can be dropped.
func derivePreviewCmd(ctx context.Context, req table.PreviewRequest) tea.Cmd {
	return func() tea.Msg {
		url, err := table.DerivePreview(ctx, req.File)
		return PreviewDerivedMsg{Token: req.Token, DataURL: url, Err: err}
	}
}
