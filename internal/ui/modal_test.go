package ui

import (
	"strings"
	"testing"

	"projecttable/internal/project"
)

func TestEditProjectModal_FocusCycles(t *testing.T) {
	m := NewEditProjectModal(project.Project{ID: 3, Name: "Mercury"})
	if m.focus != fieldName {
		t.Fatalf("initial focus = %d, want name", m.focus)
	}

	m.Update(keyMsg("tab"))
	if m.focus != fieldDescription || !m.description.Focused() {
		t.Errorf("tab should move to the description, focus = %d", m.focus)
	}
	m.Update(keyMsg("shift+tab"))
	m.Update(keyMsg("shift+tab"))
	if m.focus != fieldLogo {
		t.Errorf("shift+tab twice should reach the logo field, focus = %d", m.focus)
	}
	m.Update(keyMsg("shift+tab"))
	if m.focus != fieldStatus {
		t.Errorf("focus should wrap to status, got %d", m.focus)
	}
}

func TestEditProjectModal_EnterAdvancesExceptInDescription(t *testing.T) {
	m := NewEditProjectModal(project.Project{ID: 3})
	m.Update(keyMsg("enter"))
	if m.focus != fieldDescription {
		t.Fatalf("enter on name should advance, focus = %d", m.focus)
	}
	m.Update(keyMsg("enter"))
	if m.focus != fieldDescription {
		t.Errorf("enter in the description should stay, focus = %d", m.focus)
	}
}

func TestEditProjectModal_SubmitCarriesFields(t *testing.T) {
	m := NewEditProjectModal(project.Project{ID: 3, Name: "Mercury", Description: "first", Status: "new"})
	m.inputs[fieldAssigned].SetValue(" 2025-02-01 ")

	_, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	msg, ok := cmd().(SaveEditMsg)
	if !ok {
		t.Fatal("expected SaveEditMsg")
	}
	want := DraftFields{Name: "Mercury", Description: "first", AssignedDate: "2025-02-01", Status: "new"}
	if msg.Fields != want {
		t.Errorf("fields = %+v, want %+v", msg.Fields, want)
	}
}

func TestEditProjectModal_ChooseImageNeedsPath(t *testing.T) {
	m := NewEditProjectModal(project.Project{ID: 3})
	if _, cmd := m.Update(keyMsg("ctrl+o")); cmd != nil {
		t.Error("empty logo path should not change the image")
	}

	m.inputs[fieldLogo].SetValue("/tmp/logo.png")
	_, cmd := m.Update(keyMsg("ctrl+o"))
	if cmd == nil {
		t.Fatal("expected ChangeImageMsg command")
	}
	if got := cmd().(ChangeImageMsg); got.Path != "/tmp/logo.png" {
		t.Errorf("path = %q", got.Path)
	}
}

func TestEditProjectModal_ViewShowsPreviewState(t *testing.T) {
	m := NewEditProjectModal(project.Project{ID: 3, Logo: "https://cdn.example/logo.png"})
	if !strings.Contains(m.View(), "logo.png") {
		t.Error("expected the current logo as preview")
	}

	m.SetPreview("", "new.png")
	out := m.View()
	if !strings.Contains(out, "reading new.png") {
		t.Errorf("expected pending-preview text:\n%s", out)
	}

	m.SetSaving(true)
	if !strings.Contains(m.View(), "saving") {
		t.Error("expected saving indicator")
	}
}

func TestViewProjectModal(t *testing.T) {
	m := NewViewProjectModal(project.Project{ID: 1, Name: "Apollo", Status: "active"})
	out := m.View()
	for _, s := range []string{"Apollo", "active", "none"} {
		if !strings.Contains(out, s) {
			t.Errorf("view missing %q:\n%s", s, out)
		}
	}
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should close the dialog")
	}
	if _, ok := cmd().(DismissModalMsg); !ok {
		t.Error("expected DismissModalMsg")
	}
}

func TestDeleteProjectConfirmModal(t *testing.T) {
	m := NewDeleteProjectConfirmModal(project.Project{ID: 7, Name: "Vostok"})
	if !strings.Contains(m.View(), "Vostok (#7)") {
		t.Errorf("view = %q", m.View())
	}
	if _, cmd := m.Update(keyMsg("n")); cmd != nil {
		t.Error("n should not confirm")
	}
	_, cmd := m.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatal("y should confirm")
	}
	if got := cmd().(DeleteProjectMsg); got.ID != 7 {
		t.Errorf("id = %d", got.ID)
	}
}
