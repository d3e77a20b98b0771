package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"projecttable/internal/project"
	"projecttable/internal/table"
)

// fakeStore is an in-memory table.Store.
type fakeStore struct {
	mu        sync.Mutex
	list      []project.Project
	listErr   error
	updateErr error
	deleteErr error
	updates   []project.Project
	deletes   []int
}

func (s *fakeStore) List(context.Context) ([]project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]project.Project, len(s.list))
	copy(out, s.list)
	return out, nil
}

func (s *fakeStore) Update(_ context.Context, draft project.Project, _ *project.PendingFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, draft)
	return s.updateErr
}

func (s *fakeStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	return s.deleteErr
}

var errOffline = errors.New("offline")

func sampleProjects() []project.Project {
	return []project.Project{
		{ID: 1, Name: "Apollo", Description: "moon", AssignedDate: "2024-01-01", DueDate: "2024-06-01", Status: "active"},
		{ID: 2, Name: "Gemini", Description: "orbit", Status: "done"},
	}
}

// newTestApp returns an adapter whose table is already loaded from store.
func newTestApp(t *testing.T, store *fakeStore) *appModelAdapter {
	t.Helper()
	m := NewAppModel(context.Background(), table.New(store, nil), nil)
	a := &appModelAdapter{AppModel: m}
	run(a, a.loadCmd())
	return a
}

// collect runs cmd and flattens batches into the app messages they produce.
// Spinner ticks and cursor blinks are dropped so nothing reschedules itself.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case ProjectsLoadedMsg, RefreshMsg, ShowViewProjectMsg, ShowEditProjectMsg,
		ShowDeleteProjectMsg, DeleteProjectMsg, ProjectDeletedMsg, ChangeImageMsg,
		PreviewDerivedMsg, SaveEditMsg, ProjectSavedMsg, DismissModalMsg:
		return []tea.Msg{msg}
	default:
		return nil
	}
}

// run feeds every message produced by cmd back into the app, following the
// resulting commands until none are left.
func run(a *appModelAdapter, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		_, next := a.Update(msg)
		run(a, next)
	}
}

func topView(t *testing.T, a *appModelAdapter) View {
	t.Helper()
	top, ok := a.Overlays.Peek()
	if !ok {
		t.Fatal("expected an open dialog")
	}
	return top.View
}

func editModal(t *testing.T, a *appModelAdapter) *EditProjectModal {
	t.Helper()
	m, ok := topView(t, a).(*EditProjectModal)
	if !ok {
		t.Fatalf("expected EditProjectModal on top, got %T", topView(t, a))
	}
	return m
}

func TestApp_InitLoadsProjects(t *testing.T) {
	store := &fakeStore{list: sampleProjects()}
	a := newTestApp(t, store)

	if len(a.TableView.Projects) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(a.TableView.Projects))
	}
	if !strings.Contains(a.View(), "Apollo") {
		t.Error("expected Apollo in the rendered table")
	}
}

func TestApp_LoadFailureLeavesTableEmpty(t *testing.T) {
	store := &fakeStore{listErr: errOffline}
	a := newTestApp(t, store)

	if len(a.TableView.Projects) != 0 {
		t.Errorf("expected no rows, got %d", len(a.TableView.Projects))
	}
	if a.Overlays.Len() != 0 {
		t.Error("a failed load must not open a dialog")
	}
	if !strings.Contains(a.View(), "No projects") {
		t.Error("expected empty-table text")
	}
}

func TestApp_ViewThenEscCloses(t *testing.T) {
	a := newTestApp(t, &fakeStore{list: sampleProjects()})

	_, cmd := a.Update(keyMsg("enter"))
	run(a, cmd)
	if _, ok := topView(t, a).(*ViewProjectModal); !ok {
		t.Fatalf("expected ViewProjectModal, got %T", topView(t, a))
	}
	if a.mode() != ModeDetail {
		t.Errorf("mode = %v, want Detail", a.mode())
	}
	if p, ok := a.Table.State().Viewed(); !ok || p.ID != 1 {
		t.Errorf("viewed = %+v, %v", p, ok)
	}

	_, cmd = a.Update(keyMsg("esc"))
	run(a, cmd)
	if a.Overlays.Len() != 0 {
		t.Errorf("expected no dialogs after esc, got %d", a.Overlays.Len())
	}
	if a.Table.State().Viewing() {
		t.Error("esc should clear the viewed selection")
	}
}

func TestApp_EditSaveUpdatesRowAndCloses(t *testing.T) {
	store := &fakeStore{list: sampleProjects()}
	a := newTestApp(t, store)

	_, cmd := a.Update(keyMsg("e"))
	run(a, cmd)
	m := editModal(t, a)
	m.inputs[fieldName].SetValue("Apollo II")
	m.inputs[fieldStatus].SetValue("paused")

	_, cmd = a.Update(keyMsg("ctrl+s"))
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("ctrl+s produced %d messages", len(msgs))
	}
	_, cmd = a.Update(msgs[0])

	// No optimistic update: the row changes only after the store answers.
	if a.TableView.Projects[0].Name != "Apollo" {
		t.Errorf("row changed before the save resolved: %q", a.TableView.Projects[0].Name)
	}
	if !a.Table.State().Saving() {
		t.Error("expected a save in flight")
	}

	run(a, cmd)
	if a.Overlays.Len() != 0 {
		t.Errorf("expected dialog closed after save, got %d", a.Overlays.Len())
	}
	got := a.TableView.Projects[0]
	if got.Name != "Apollo II" || got.Status != "paused" || got.ID != 1 {
		t.Errorf("row after save = %+v", got)
	}
	if len(store.updates) != 1 || store.updates[0].Name != "Apollo II" {
		t.Errorf("store updates = %+v", store.updates)
	}
}

func TestApp_SaveFailureKeepsDialogOpen(t *testing.T) {
	store := &fakeStore{list: sampleProjects(), updateErr: errOffline}
	a := newTestApp(t, store)

	_, cmd := a.Update(keyMsg("e"))
	run(a, cmd)
	editModal(t, a).inputs[fieldName].SetValue("Renamed")

	_, cmd = a.Update(keyMsg("ctrl+s"))
	run(a, cmd)

	m := editModal(t, a)
	if m.saving {
		t.Error("saving indicator should clear after failure")
	}
	draft, ok := a.Table.State().Draft()
	if !ok || draft.Name != "Renamed" {
		t.Errorf("draft = %+v, %v", draft, ok)
	}
	if a.TableView.Projects[0].Name != "Apollo" {
		t.Errorf("row must be unchanged, got %q", a.TableView.Projects[0].Name)
	}
}

func TestApp_InvalidDatesKeepDialogOpen(t *testing.T) {
	store := &fakeStore{list: sampleProjects()}
	a := newTestApp(t, store)

	_, cmd := a.Update(keyMsg("e"))
	run(a, cmd)
	m := editModal(t, a)
	m.inputs[fieldDue].SetValue("June 1st")

	_, cmd = a.Update(keyMsg("ctrl+s"))
	if cmd != nil {
		t.Error("invalid dates should not submit")
	}
	if m.invalid == "" {
		t.Error("expected a validation message")
	}
	if !strings.Contains(m.invalid, "dueDate") {
		t.Errorf("validation message = %q", m.invalid)
	}
	if len(store.updates) != 0 {
		t.Errorf("store should not be called, got %d updates", len(store.updates))
	}
}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("\x89PNG fake"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApp_ChangeImageShowsPreview(t *testing.T) {
	a := newTestApp(t, &fakeStore{list: sampleProjects()})
	path := writeImage(t, "logo.png")

	_, cmd := a.Update(keyMsg("e"))
	run(a, cmd)
	m := editModal(t, a)
	m.inputs[fieldLogo].SetValue(path)
	m.setFocus(fieldLogo)

	_, cmd = a.Update(keyMsg("ctrl+o"))
	run(a, cmd)

	if !strings.HasPrefix(m.preview, "data:image/png;base64,") {
		t.Errorf("preview = %q", m.preview)
	}
	if m.pendingName != "logo.png" {
		t.Errorf("pending name = %q", m.pendingName)
	}
}

func TestApp_StalePreviewIsDropped(t *testing.T) {
	a := newTestApp(t, &fakeStore{list: sampleProjects()})
	first := writeImage(t, "first.png")
	second := writeImage(t, "second.gif")

	_, cmd := a.Update(keyMsg("e"))
	run(a, cmd)
	m := editModal(t, a)

	_, slow := a.Update(ChangeImageMsg{Path: first})
	_, fast := a.Update(ChangeImageMsg{Path: second})

	run(a, fast)
	if !strings.HasPrefix(m.preview, "data:image/gif;base64,") {
		t.Fatalf("preview after latest choice = %q", m.preview)
	}
	run(a, slow)
	if !strings.HasPrefix(m.preview, "data:image/gif;base64,") {
		t.Errorf("stale preview replaced the latest: %q", m.preview)
	}
	if f, _ := a.Table.State().Pending(); f.Name != "second.gif" {
		t.Errorf("pending = %q", f.Name)
	}
}

func TestApp_PreviewAfterCloseIsDropped(t *testing.T) {
	a := newTestApp(t, &fakeStore{list: sampleProjects()})
	path := writeImage(t, "logo.png")

	_, cmd := a.Update(keyMsg("e"))
	run(a, cmd)
	_, derive := a.Update(ChangeImageMsg{Path: path})

	_, cmd = a.Update(keyMsg("esc"))
	run(a, cmd)
	run(a, derive)

	if a.Table.State().Preview() != "" {
		t.Errorf("preview applied to a closed dialog: %q", a.Table.State().Preview())
	}
}

func TestApp_SaveDoesNotCloseNewerDialog(t *testing.T) {
	store := &fakeStore{list: sampleProjects()}
	a := newTestApp(t, store)

	_, cmd := a.Update(keyMsg("e"))
	run(a, cmd)
	editModal(t, a).inputs[fieldName].SetValue("Apollo II")
	_, cmd = a.Update(keyMsg("ctrl+s"))
	msgs := collect(cmd)
	_, pending := a.Update(msgs[0])

	// Close the edit dialog and open the detail view before the save lands.
	_, cmd = a.Update(keyMsg("esc"))
	run(a, cmd)
	_, cmd = a.Update(keyMsg("v"))
	run(a, cmd)

	run(a, pending)

	if _, ok := topView(t, a).(*ViewProjectModal); !ok {
		t.Errorf("detail dialog should stay open, got %T", topView(t, a))
	}
	if a.TableView.Projects[0].Name != "Apollo II" {
		t.Errorf("row should still reconcile, got %q", a.TableView.Projects[0].Name)
	}
}

func TestApp_DeleteConfirmRemovesRow(t *testing.T) {
	store := &fakeStore{list: sampleProjects()}
	a := newTestApp(t, store)

	_, cmd := a.Update(keyMsg("d"))
	run(a, cmd)
	if _, ok := topView(t, a).(*ConfirmModal); !ok {
		t.Fatalf("expected ConfirmModal, got %T", topView(t, a))
	}

	_, cmd = a.Update(keyMsg("enter"))
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("confirm produced %d messages", len(msgs))
	}
	if _, ok := msgs[0].(DeleteProjectMsg); !ok {
		t.Fatalf("expected DeleteProjectMsg, got %T", msgs[0])
	}
	_, cmd = a.Update(msgs[0])
	if a.Overlays.Len() != 0 {
		t.Error("confirm dialog should close once confirmed")
	}
	if len(a.TableView.Projects) != 2 {
		t.Error("row removed before the store answered")
	}

	run(a, cmd)
	if len(a.TableView.Projects) != 1 || a.TableView.Projects[0].ID != 2 {
		t.Errorf("rows after delete = %+v", a.TableView.Projects)
	}
	if len(store.deletes) != 1 || store.deletes[0] != 1 {
		t.Errorf("store deletes = %v", store.deletes)
	}
}

func TestApp_DeleteCancelWithEsc(t *testing.T) {
	store := &fakeStore{list: sampleProjects()}
	a := newTestApp(t, store)

	_, cmd := a.Update(keyMsg("d"))
	run(a, cmd)
	_, cmd = a.Update(keyMsg("esc"))
	run(a, cmd)

	if a.Overlays.Len() != 0 {
		t.Errorf("expected 0 overlays after esc, got %d", a.Overlays.Len())
	}
	if len(store.deletes) != 0 || len(a.TableView.Projects) != 2 {
		t.Error("cancel must not delete")
	}
}

func TestApp_DeleteFailureKeepsRow(t *testing.T) {
	store := &fakeStore{list: sampleProjects(), deleteErr: errOffline}
	a := newTestApp(t, store)

	_, cmd := a.Update(DeleteProjectMsg{ID: 2})
	run(a, cmd)

	if len(a.TableView.Projects) != 2 {
		t.Errorf("rows after failed delete = %d", len(a.TableView.Projects))
	}
	if a.Table.State().Deleting(2) {
		t.Error("in-flight mark should clear after failure")
	}
}

func TestApp_RefreshReloads(t *testing.T) {
	store := &fakeStore{list: sampleProjects()}
	a := newTestApp(t, store)

	store.mu.Lock()
	store.list = store.list[:1]
	store.mu.Unlock()

	_, cmd := a.Update(keyMsg("r"))
	run(a, cmd)
	if len(a.TableView.Projects) != 1 {
		t.Errorf("rows after refresh = %d", len(a.TableView.Projects))
	}
}

func TestApp_LeaderShowsHints(t *testing.T) {
	a := newTestApp(t, &fakeStore{list: sampleProjects()})

	a.Update(keyMsg(" "))
	if !strings.Contains(a.View(), "Project") {
		t.Errorf("expected leader hints in view:\n%s", a.View())
	}
	a.Update(keyMsg("esc"))
	if a.KeyHandler.LeaderWaiting {
		t.Error("esc should cancel the leader")
	}
}

func TestApp_KeysGoToDialogFirst(t *testing.T) {
	a := newTestApp(t, &fakeStore{list: sampleProjects()})

	_, cmd := a.Update(keyMsg("e"))
	run(a, cmd)
	m := editModal(t, a)

	// q types into the focused input instead of quitting.
	a.Update(keyMsg("q"))
	if !strings.HasSuffix(m.inputs[fieldName].Value(), "q") {
		t.Errorf("name = %q, expected typed q", m.inputs[fieldName].Value())
	}
}

func TestApp_RefreshFailureKeepsRows(t *testing.T) {
	store := &fakeStore{list: sampleProjects()}
	a := newTestApp(t, store)

	store.mu.Lock()
	store.listErr = errOffline
	store.mu.Unlock()

	_, cmd := a.Update(keyMsg("r"))
	run(a, cmd)
	if len(a.TableView.Projects) != 2 {
		t.Errorf("failed reload changed the rows: %+v", a.TableView.Projects)
	}
}

func TestApp_UnreadableLogoIsDroppedAndSaveWorks(t *testing.T) {
	store := &fakeStore{list: sampleProjects()}
	a := newTestApp(t, store)

	_, cmd := a.Update(keyMsg("e"))
	run(a, cmd)
	m := editModal(t, a)
	m.inputs[fieldLogo].SetValue(filepath.Join(t.TempDir(), "typo.png"))

	_, cmd = a.Update(keyMsg("ctrl+o"))
	run(a, cmd)

	if _, ok := a.Table.State().Pending(); ok {
		t.Fatal("unreadable file should not stay pending")
	}
	if !strings.Contains(m.invalid, "typo.png") {
		t.Errorf("expected the file error in the dialog, got %q", m.invalid)
	}
	if m.pendingName != "" {
		t.Errorf("pending name = %q", m.pendingName)
	}

	_, cmd = a.Update(keyMsg("ctrl+s"))
	run(a, cmd)
	if a.Overlays.Len() != 0 {
		t.Errorf("save should succeed and close the dialog, got %d overlays", a.Overlays.Len())
	}
	if len(store.updates) != 1 {
		t.Errorf("store updates = %d", len(store.updates))
	}
}

func TestApp_SaveWhileEarlierSaveRunsShowsSaving(t *testing.T) {
	a := newTestApp(t, &fakeStore{list: sampleProjects()})

	_, cmd := a.Update(keyMsg("e"))
	run(a, cmd)
	_, cmd = a.Update(keyMsg("ctrl+s"))
	msgs := collect(cmd)
	_, pending := a.Update(msgs[0])

	// Leave the first dialog while it saves and edit the second row.
	_, cmd = a.Update(keyMsg("esc"))
	run(a, cmd)
	a.TableView.Select(1)
	_, cmd = a.Update(keyMsg("e"))
	run(a, cmd)
	m := editModal(t, a)

	_, cmd = a.Update(keyMsg("ctrl+s"))
	run(a, cmd)
	if !m.saving {
		t.Error("second dialog should show the running save")
	}
	if !strings.Contains(m.View(), "saving") {
		t.Error("expected the saving hint")
	}

	run(a, pending)
	if m.saving {
		t.Error("saving hint should clear once the earlier save lands")
	}
	if a.Overlays.Len() != 1 {
		t.Error("second dialog should stay open")
	}
}
