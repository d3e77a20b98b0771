package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"projecttable/internal/project"
	"projecttable/internal/ui/textutil"
)

// ViewProjectModal shows one project read-only.
type ViewProjectModal struct {
	Project project.Project
}

// Ensure ViewProjectModal implements View.
var _ View = (*ViewProjectModal)(nil)

// NewViewProjectModal creates a detail dialog for p.
func NewViewProjectModal(p project.Project) *ViewProjectModal {
	return &ViewProjectModal{Project: p}
}

// Init implements View.
func (m *ViewProjectModal) Init() tea.Cmd {
	return nil
}

// Update implements View. Enter and q close like Esc.
func (m *ViewProjectModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "q":
			return m, func() tea.Msg { return DismissModalMsg{} }
		}
	}
	return m, nil
}

// View implements View.
func (m *ViewProjectModal) View() string {
	p := m.Project
	var b strings.Builder
	b.WriteString(Styles.Title.Render(p.Name) + "\n\n")
	field(&b, "Logo", textutil.TruncateMiddle(p.Logo, 60))
	if p.Description != "" {
		b.WriteString(p.Description + "\n")
	}
	field(&b, "Team", textutil.TruncateMiddle(p.TeamImage, 60))
	field(&b, "Assigned Date", p.AssignedDate)
	field(&b, "Due Date", p.DueDate)
	b.WriteString(Styles.Label.Render("Status") + Styles.Status.Render(p.Status) + "\n\n")
	b.WriteString(Styles.Hint.Render("Esc/Enter: close"))
	return Styles.Box.Render(b.String())
}

func field(b *strings.Builder, label, value string) {
	if value == "" {
		value = Styles.Empty.Render("none")
	}
	b.WriteString(Styles.Label.Render(label) + value + "\n")
}
