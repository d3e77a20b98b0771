package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"projecttable/internal/table"
)

// AppModel is the root model: the project table with dialogs stacked on top.
// All table state lives in Table; the views only render it.
type AppModel struct {
	Table      *table.Table
	Ctx        context.Context
	TableView  *TableView
	Overlays   OverlayStack
	KeyHandler *KeyHandler
	Logger     *zap.Logger

	width, height int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model around tbl.
func NewAppModel(ctx context.Context, tbl *table.Table, logger *zap.Logger) *AppModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := NewKeybindRegistry()
	registerBindings(reg)
	return &AppModel{
		Table:      tbl,
		Ctx:        ctx,
		TableView:  NewTableView(),
		KeyHandler: NewKeyHandler(reg),
		Logger:     logger.Named("ui"),
	}
}

func registerBindings(reg *KeybindRegistry) {
	view := func() tea.Msg { return ShowViewProjectMsg{} }
	edit := func() tea.Msg { return ShowEditProjectMsg{} }
	del := func() tea.Msg { return ShowDeleteProjectMsg{} }
	refresh := func() tea.Msg { return RefreshMsg{} }

	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")

	reg.Bind("enter", view)
	reg.Bind("v", view)
	reg.Bind("e", edit)
	reg.Bind("d", del)
	reg.Bind("r", refresh)

	tableOnly := []AppMode{ModeTable}
	reg.BindWithDescForMode("SPC p v", view, "View", tableOnly)
	reg.BindWithDescForMode("SPC p e", edit, "Edit", tableOnly)
	reg.BindWithDescForMode("SPC p d", del, "Delete", tableOnly)
	reg.BindWithDescForMode("SPC r", refresh, "Reload", tableOnly)
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(a.TableView.SetBusy(true), a.loadCmd())
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProjectsLoadedMsg:
		return a.handleProjectsLoaded(msg)
	case RefreshMsg:
		return a.handleRefresh()
	case ShowViewProjectMsg:
		return a.handleShowViewProject()
	case ShowEditProjectMsg:
		return a.handleShowEditProject()
	case ShowDeleteProjectMsg:
		return a.handleShowDeleteProject()
	case DeleteProjectMsg:
		return a.handleDeleteProject(msg)
	case ProjectDeletedMsg:
		return a.handleProjectDeleted(msg)
	case ChangeImageMsg:
		return a.handleChangeImage(msg)
	case PreviewDerivedMsg:
		return a.handlePreviewDerived(msg)
	case SaveEditMsg:
		return a.handleSaveEdit(msg)
	case ProjectSavedMsg:
		return a.handleProjectSaved(msg)
	case DismissModalMsg:
		return a.handleDismissModal()
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Everything else (spinner ticks, cursor blinks, resizes) goes to the
	// table and the top dialog.
	_, tableCmd := a.TableView.Update(msg)
	overlayCmd, _ := a.Overlays.UpdateTop(msg)
	return a, tea.Batch(tableCmd, overlayCmd)
}

func (a *appModelAdapter) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(msg.String()) {
			return a, func() tea.Msg { return DismissModalMsg{} }
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return a, cmd
	}
	if a.KeyHandler != nil {
		if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
			return a, cmd
		}
	}
	_, cmd := a.TableView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	base := a.TableView.View()
	if top, ok := a.Overlays.Peek(); ok {
		dialog := top.View.View()
		if a.width > 0 && a.height > 0 {
			return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, dialog)
		}
		return base + "\n\n" + dialog
	}
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		base += "\n" + RenderKeybindHelp(a.KeyHandler, a.mode())
	}
	return base
}

// mode derives the current input surface from the top dialog.
func (a *AppModel) mode() AppMode {
	top, ok := a.Overlays.Peek()
	if !ok {
		return ModeTable
	}
	switch top.View.(type) {
	case *ViewProjectModal:
		return ModeDetail
	case *EditProjectModal:
		return ModeEdit
	case *ConfirmModal:
		return ModeConfirm
	}
	return ModeTable
}

func (a *AppModel) loadCmd() tea.Cmd {
	return loadProjectsCmd(a.Ctx, a.Table.Store())
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}
