// Package table holds the state behind the project table: the canonical list,
// the viewed selection and the edit dialog (draft, pending file, preview).
//
// State is a value. Every transition returns a new State and never mutates
// the receiver's list in place, so a failed remote call can always fall back
// to the state it started from.
package table

import (
	"errors"
	"slices"

	"projecttable/internal/project"
)

var (
	// ErrNoDraft is returned when saving without an open edit dialog.
	ErrNoDraft = errors.New("no edit in progress")
	// ErrSaveInFlight is returned when a save is requested while another is pending.
	ErrSaveInFlight = errors.New("save already in flight")
	// ErrDeleteInFlight is returned when the same id is deleted twice concurrently.
	ErrDeleteInFlight = errors.New("delete already in flight")
)

// State is the table's complete in-memory state.
type State struct {
	projects []project.Project

	viewed  *project.Project
	draft   *project.Project
	pending *project.PendingFile
	preview string

	// token identifies the current dialog and image choice. It changes on
	// every open, close and image change so late preview results can be
	// recognised and dropped.
	token uint64

	saving   bool
	deleting map[int]bool
	loaded   bool
}

// Projects returns a copy of the list.
func (s State) Projects() []project.Project {
	return slices.Clone(s.projects)
}

// Loaded reports whether an initial load has completed (successfully or not).
func (s State) Loaded() bool { return s.loaded }

// Viewed returns the record selected for viewing.
func (s State) Viewed() (project.Project, bool) {
	if s.viewed == nil {
		return project.Project{}, false
	}
	return *s.viewed, true
}

// Draft returns the edit draft.
func (s State) Draft() (project.Project, bool) {
	if s.draft == nil {
		return project.Project{}, false
	}
	return *s.draft, true
}

// Pending returns the pending replacement logo.
func (s State) Pending() (project.PendingFile, bool) {
	if s.pending == nil {
		return project.PendingFile{}, false
	}
	return *s.pending, true
}

// Preview returns the image preview shown in the edit dialog.
func (s State) Preview() string { return s.preview }

// Token returns the current dialog token.
func (s State) Token() uint64 { return s.token }

// Saving reports whether a save is in flight.
func (s State) Saving() bool { return s.saving }

// Deleting reports whether a delete for id is in flight.
func (s State) Deleting(id int) bool { return s.deleting[id] }

// Editing reports whether the edit dialog is open.
func (s State) Editing() bool { return s.draft != nil }

// Viewing reports whether the detail dialog is open.
func (s State) Viewing() bool { return s.viewed != nil }

// WithProjects replaces the list after a successful load.
func (s State) WithProjects(list []project.Project) State {
	s.projects = slices.Clone(list)
	s.loaded = true
	return s
}

// WithLoadFailed records a failed load. The list keeps whatever it held
// before the call, which is empty on the first load.
func (s State) WithLoadFailed() State {
	s.loaded = true
	return s
}

// View selects p for the read-only detail dialog.
func (s State) View(p project.Project) State {
	c := p.Clone()
	s.viewed = &c
	return s
}

// BeginEdit opens the edit dialog with a clone of p. Any previous unsaved
// draft and pending file are discarded.
func (s State) BeginEdit(p project.Project) State {
	c := p.Clone()
	s.draft = &c
	s.pending = nil
	s.preview = p.Logo
	s.token++
	return s
}

// EditDraft applies fn to a copy of the draft. No-op without a draft.
func (s State) EditDraft(fn func(*project.Project)) State {
	if s.draft == nil {
		return s
	}
	c := s.draft.Clone()
	id := c.ID
	fn(&c)
	c.ID = id
	s.draft = &c
	return s
}

// PreviewRequest asks for a preview of File; the result is only applied
// while Token is still current.
type PreviewRequest struct {
	Token uint64
	File  project.PendingFile
}

// ChangeImage replaces the pending file and clears the preview until the new
// one is derived. Returns false when no edit dialog is open.
func (s State) ChangeImage(f project.PendingFile) (State, PreviewRequest, bool) {
	if s.draft == nil {
		return s, PreviewRequest{}, false
	}
	s.pending = &f
	s.preview = ""
	s.token++
	return s, PreviewRequest{Token: s.token, File: f}, true
}

// ApplyPreview stores a derived preview. Results for a closed dialog or a
// superseded image choice are ignored.
func (s State) ApplyPreview(token uint64, dataURL string) (State, bool) {
	if s.draft == nil || token != s.token {
		return s, false
	}
	s.preview = dataURL
	return s, true
}

// RejectImage drops the pending file of the current choice when its preview
// could not be derived, and shows the draft's own logo again. Returns false
// when token is stale.
func (s State) RejectImage(token uint64) (State, bool) {
	if s.draft == nil || s.pending == nil || token != s.token {
		return s, false
	}
	s.pending = nil
	s.preview = s.draft.Logo
	return s, true
}

// SaveRequest is the snapshot sent to the store for one save.
type SaveRequest struct {
	Token uint64
	Draft project.Project
	File  *project.PendingFile
}

// BeginSave validates that a draft exists and marks a save in flight.
func (s State) BeginSave() (State, SaveRequest, error) {
	if s.draft == nil {
		return s, SaveRequest{}, ErrNoDraft
	}
	if s.saving {
		return s, SaveRequest{}, ErrSaveInFlight
	}
	req := SaveRequest{Token: s.token, Draft: s.draft.Clone()}
	if s.pending != nil {
		f := *s.pending
		req.File = &f
	}
	s.saving = true
	return s, req, nil
}

// SaveSucceeded reconciles the list with the saved draft and closes the
// dialog the save was issued from. A dialog opened after the save started is
// left alone, and so is one whose draft was edited again while the save was
// in flight; the saved logo is carried into that draft.
func (s State) SaveSucceeded(req SaveRequest) State {
	saved := req.Draft.Clone()
	if req.File != nil {
		saved.Logo = req.File.LocalURL()
	}
	s.projects = project.Replace(s.projects, saved)
	s.saving = false
	if s.draft == nil || s.token != req.Token {
		return s
	}
	if *s.draft == req.Draft {
		return s.Close()
	}
	if req.File != nil {
		d := s.draft.Clone()
		d.Logo = saved.Logo
		s.draft = &d
		s.pending = nil
	}
	return s
}

// SaveFailed clears the in-flight flag and leaves everything else untouched.
func (s State) SaveFailed() State {
	s.saving = false
	return s
}

// BeginDelete marks id as being deleted.
func (s State) BeginDelete(id int) (State, error) {
	if s.deleting[id] {
		return s, ErrDeleteInFlight
	}
	s.deleting = cloneFlags(s.deleting)
	s.deleting[id] = true
	return s, nil
}

// DeleteSucceeded removes id from the list.
func (s State) DeleteSucceeded(id int) State {
	s.projects = project.Remove(s.projects, id)
	s.deleting = cloneFlags(s.deleting)
	delete(s.deleting, id)
	return s
}

// DeleteFailed clears the in-flight mark; the list is unchanged.
func (s State) DeleteFailed(id int) State {
	s.deleting = cloneFlags(s.deleting)
	delete(s.deleting, id)
	return s
}

// Close clears the viewed selection, draft, pending file and preview.
func (s State) Close() State {
	s.viewed = nil
	s.draft = nil
	s.pending = nil
	s.preview = ""
	s.token++
	return s
}

func cloneFlags(m map[int]bool) map[int]bool {
	out := make(map[int]bool, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
