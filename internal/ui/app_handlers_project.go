package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"projecttable/internal/project"
)

// handleProjectsLoaded applies a list result. A failed load leaves the table
// empty; the error is logged by the table.
func (a *appModelAdapter) handleProjectsLoaded(msg ProjectsLoadedMsg) (tea.Model, tea.Cmd) {
	a.Table.FinishLoad(msg.Projects, msg.Err)
	a.TableView.SetProjects(a.Table.State().Projects())
	return a, a.TableView.SetBusy(false)
}

// handleRefresh reloads the list from the store.
func (a *appModelAdapter) handleRefresh() (tea.Model, tea.Cmd) {
	return a, tea.Batch(a.TableView.SetBusy(true), a.loadCmd())
}

func (a *appModelAdapter) handleShowViewProject() (tea.Model, tea.Cmd) {
	p, ok := a.TableView.Selected()
	if !ok {
		return a, nil
	}
	a.Table.View(p)
	a.Overlays.Push(Overlay{View: NewViewProjectModal(p), Dismiss: "esc"})
	return a, nil
}

func (a *appModelAdapter) handleShowEditProject() (tea.Model, tea.Cmd) {
	p, ok := a.TableView.Selected()
	if !ok {
		return a, nil
	}
	a.Table.BeginEdit(p)
	draft, _ := a.Table.State().Draft()
	modal := NewEditProjectModal(draft)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

func (a *appModelAdapter) handleShowDeleteProject() (tea.Model, tea.Cmd) {
	p, ok := a.TableView.Selected()
	if !ok {
		return a, nil
	}
	a.Overlays.Push(Overlay{View: NewDeleteProjectConfirmModal(p), Dismiss: "esc"})
	return a, nil
}

// handleDeleteProject runs a confirmed delete. The row stays until the store
// confirms.
func (a *appModelAdapter) handleDeleteProject(msg DeleteProjectMsg) (tea.Model, tea.Cmd) {
	if top, ok := a.Overlays.Peek(); ok {
		if _, isConfirm := top.View.(*ConfirmModal); isConfirm {
			a.Overlays.Pop()
		}
	}
	if err := a.Table.BeginDelete(msg.ID); err != nil {
		return a, nil
	}
	return a, tea.Batch(a.TableView.SetBusy(true), deleteProjectCmd(a.Ctx, a.Table.Store(), msg.ID))
}

func (a *appModelAdapter) handleProjectDeleted(msg ProjectDeletedMsg) (tea.Model, tea.Cmd) {
	a.Table.FinishDelete(msg.ID, msg.Err)
	a.TableView.SetProjects(a.Table.State().Projects())
	return a, a.TableView.SetBusy(false)
}

// handleChangeImage records the chosen file and starts deriving its preview.
func (a *appModelAdapter) handleChangeImage(msg ChangeImageMsg) (tea.Model, tea.Cmd) {
	req, ok := a.Table.ChangeImage(project.NewPendingFile(msg.Path))
	if !ok {
		return a, nil
	}
	if modal, ok := a.editModal(); ok {
		modal.SetImageError(nil)
	}
	a.syncEditModal()
	return a, derivePreviewCmd(a.Ctx, req)
}

// handlePreviewDerived applies a preview result. A file that cannot be read
// is dropped from the draft and reported in the dialog.
func (a *appModelAdapter) handlePreviewDerived(msg PreviewDerivedMsg) (tea.Model, tea.Cmd) {
	current := msg.Token == a.Table.State().Token()
	applied := a.Table.FinishPreview(msg.Token, msg.DataURL, msg.Err)
	if !applied && !current {
		return a, nil
	}
	if modal, ok := a.editModal(); ok && msg.Err != nil {
		modal.SetImageError(msg.Err)
	}
	a.syncEditModal()
	return a, nil
}

// handleSaveEdit copies the dialog fields onto the draft and submits it.
func (a *appModelAdapter) handleSaveEdit(msg SaveEditMsg) (tea.Model, tea.Cmd) {
	a.Table.EditDraft(msg.Fields.Apply)
	req, err := a.Table.BeginSave()
	if err != nil {
		// An earlier save may still be running for another dialog.
		a.syncEditModal()
		return a, nil
	}
	a.syncEditModal()
	return a, tea.Batch(a.TableView.SetBusy(true), saveProjectCmd(a.Ctx, a.Table.Store(), req))
}

// handleProjectSaved applies an update result. On success the dialog the
// save came from is closed; on failure it stays open with the draft intact.
func (a *appModelAdapter) handleProjectSaved(msg ProjectSavedMsg) (tea.Model, tea.Cmd) {
	a.Table.FinishSave(msg.Request, msg.Err)
	a.TableView.SetProjects(a.Table.State().Projects())
	if top, ok := a.Overlays.Peek(); ok {
		if _, isEdit := top.View.(*EditProjectModal); isEdit && !a.Table.State().Editing() {
			a.Overlays.Pop()
		}
	}
	a.syncEditModal()
	return a, a.TableView.SetBusy(false)
}

// handleDismissModal closes every dialog and clears the selection state.
func (a *appModelAdapter) handleDismissModal() (tea.Model, tea.Cmd) {
	a.Table.Close()
	a.Overlays.Clear()
	a.Logger.Debug("dialog closed", zap.Uint64("token", a.Table.State().Token()))
	return a, nil
}

// syncEditModal pushes preview, pending file and saving flag into the open
// edit dialog.
func (a *AppModel) syncEditModal() {
	modal, ok := a.editModal()
	if !ok {
		return
	}
	st := a.Table.State()
	var pendingName string
	if f, ok := st.Pending(); ok {
		pendingName = f.Name
	}
	modal.SetPreview(st.Preview(), pendingName)
	modal.SetSaving(st.Saving())
}

// editModal returns the edit dialog when it is the top overlay.
func (a *AppModel) editModal() (*EditProjectModal, bool) {
	top, ok := a.Overlays.Peek()
	if !ok {
		return nil, false
	}
	modal, ok := top.View.(*EditProjectModal)
	return modal, ok
}
