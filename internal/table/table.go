package table

import (
	"context"

	"go.uber.org/zap"

	"projecttable/internal/project"
)

// Store is the remote projects collection the table reconciles against.
type Store interface {
	List(ctx context.Context) ([]project.Project, error)
	Update(ctx context.Context, draft project.Project, file *project.PendingFile) error
	Delete(ctx context.Context, id int) error
}

// Table owns the current State and applies transitions to it. Remote calls
// are split into Begin/Finish halves so an event loop can run the call
// elsewhere and hand the result back; Load, SaveEdit and Delete run both
// halves inline.
//
// Table is not safe for concurrent use. All Begin/Finish calls must come
// from the goroutine that owns it.
type Table struct {
	store  Store
	logger *zap.Logger
	state  State
}

// New returns an empty table backed by store.
func New(store Store, logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Table{store: store, logger: logger.Named("table")}
}

// State returns the current state.
func (t *Table) State() State { return t.state }

// Store returns the backing store.
func (t *Table) Store() Store { return t.store }

// Load fetches the full collection.
func (t *Table) Load(ctx context.Context) {
	list, err := t.store.List(ctx)
	t.FinishLoad(list, err)
}

// FinishLoad applies the result of a list call. On failure the list stays empty.
func (t *Table) FinishLoad(list []project.Project, err error) {
	if err != nil {
		t.logger.Error("load projects failed", zap.Error(err))
		t.state = t.state.WithLoadFailed()
		return
	}
	t.logger.Debug("projects loaded", zap.Int("count", len(list)))
	t.state = t.state.WithProjects(list)
}

// View opens the read-only detail dialog for p.
func (t *Table) View(p project.Project) {
	t.state = t.state.View(p)
}

// BeginEdit opens the edit dialog on a clone of p.
func (t *Table) BeginEdit(p project.Project) {
	t.state = t.state.BeginEdit(p)
}

// EditDraft applies fn to the draft.
func (t *Table) EditDraft(fn func(*project.Project)) {
	t.state = t.state.EditDraft(fn)
}

// ChangeImage replaces the pending file and returns the preview work to run.
func (t *Table) ChangeImage(f project.PendingFile) (PreviewRequest, bool) {
	var (
		req PreviewRequest
		ok  bool
	)
	t.state, req, ok = t.state.ChangeImage(f)
	return req, ok
}

// FinishPreview applies a derived preview. Returns false when the result was
// stale or the derivation failed. A failed derivation for the current choice
// also drops the pending file, so an unreadable path is never uploaded.
func (t *Table) FinishPreview(token uint64, dataURL string, err error) bool {
	if err != nil {
		t.logger.Warn("derive preview failed", zap.Uint64("token", token), zap.Error(err))
		var rejected bool
		t.state, rejected = t.state.RejectImage(token)
		if rejected {
			t.logger.Info("dropped unreadable logo file", zap.Uint64("token", token))
		}
		return false
	}
	var applied bool
	t.state, applied = t.state.ApplyPreview(token, dataURL)
	if !applied {
		t.logger.Debug("dropped stale preview", zap.Uint64("token", token))
	}
	return applied
}

// BeginSave snapshots the draft for submission.
func (t *Table) BeginSave() (SaveRequest, error) {
	var (
		req SaveRequest
		err error
	)
	t.state, req, err = t.state.BeginSave()
	if err != nil {
		t.logger.Debug("save ignored", zap.Error(err))
	}
	return req, err
}

// FinishSave applies the result of an update call.
func (t *Table) FinishSave(req SaveRequest, err error) {
	if err != nil {
		t.logger.Error("update project failed", zap.Int("id", req.Draft.ID), zap.Error(err))
		t.state = t.state.SaveFailed()
		return
	}
	t.logger.Info("project updated", zap.Int("id", req.Draft.ID), zap.Bool("logo_uploaded", req.File != nil))
	t.state = t.state.SaveSucceeded(req)
}

// SaveEdit submits the draft and reconciles the list on success.
// Failures are logged; the dialog stays open with the draft intact.
func (t *Table) SaveEdit(ctx context.Context) {
	req, err := t.BeginSave()
	if err != nil {
		return
	}
	t.FinishSave(req, t.store.Update(ctx, req.Draft, req.File))
}

// BeginDelete marks id as being deleted.
func (t *Table) BeginDelete(id int) error {
	var err error
	t.state, err = t.state.BeginDelete(id)
	if err != nil {
		t.logger.Debug("delete ignored", zap.Int("id", id), zap.Error(err))
	}
	return err
}

// FinishDelete applies the result of a delete call.
func (t *Table) FinishDelete(id int, err error) {
	if err != nil {
		t.logger.Error("delete project failed", zap.Int("id", id), zap.Error(err))
		t.state = t.state.DeleteFailed(id)
		return
	}
	t.logger.Info("project deleted", zap.Int("id", id))
	t.state = t.state.DeleteSucceeded(id)
}

// Delete removes id remotely, then locally.
func (t *Table) Delete(ctx context.Context, id int) {
	if err := t.BeginDelete(id); err != nil {
		return
	}
	t.FinishDelete(id, t.store.Delete(ctx, id))
}

// Close clears every transient dialog field.
func (t *Table) Close() {
	t.state = t.state.Close()
}
