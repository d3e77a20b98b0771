package ui

import (
	"projecttable/internal/project"
	"projecttable/internal/table"
)

// ProjectsLoadedMsg carries the result of the initial (or refreshed) list call.
type ProjectsLoadedMsg struct {
	Projects []project.Project
	Err      error
}

// ShowViewProjectMsg opens the detail dialog for the selected row.
type ShowViewProjectMsg struct{}

// ShowEditProjectMsg opens the edit dialog for the selected row.
type ShowEditProjectMsg struct{}

// ShowDeleteProjectMsg asks for confirmation before deleting the selected row.
type ShowDeleteProjectMsg struct{}

// DeleteProjectMsg is sent when the user confirms deletion.
type DeleteProjectMsg struct {
	ID int
}

// ProjectDeletedMsg carries the result of a delete call.
type ProjectDeletedMsg struct {
	ID  int
	Err error
}

// ChangeImageMsg is sent when the user picks a replacement logo file.
type ChangeImageMsg struct {
	Path string
}

// PreviewDerivedMsg carries a derived preview for the choice identified by Token.
type PreviewDerivedMsg struct {
	Token   uint64
	DataURL string
	Err     error
}

// SaveEditMsg is sent from the edit dialog with the field values to submit.
type SaveEditMsg struct {
	Fields DraftFields
}

// ProjectSavedMsg carries the result of an update call.
type ProjectSavedMsg struct {
	Request table.SaveRequest
	Err     error
}

// RefreshMsg reloads the list from the store.
type RefreshMsg struct{}

// DismissModalMsg closes whatever dialog is open.
type DismissModalMsg struct{}

// DraftFields are the editable text fields of a project.
type DraftFields struct {
	Name         string
	Description  string
	AssignedDate string
	DueDate      string
	Status       string
}

// Apply copies the fields onto p.
func (f DraftFields) Apply(p *project.Project) {
	p.Name = f.Name
	p.Description = f.Description
	p.AssignedDate = f.AssignedDate
	p.DueDate = f.DueDate
	p.Status = f.Status
}
