package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"projecttable/internal/project"
	"projecttable/internal/ui/textutil"
)

type editField int

const (
	fieldLogo editField = iota
	fieldName
	fieldDescription
	fieldAssigned
	fieldDue
	fieldStatus
	fieldCount
)

var editFieldLabels = [fieldCount]string{
	fieldLogo:        "Logo file",
	fieldName:        "Name",
	fieldDescription: "Description",
	fieldAssigned:    "Assigned Date",
	fieldDue:         "Due Date",
	fieldStatus:      "Status",
}

// EditProjectModal edits a draft. It owns only the input widgets; the draft,
// pending file and preview live in the table state and are pushed in with
// SetPreview and SetSaving.
type EditProjectModal struct {
	ID          int
	inputs      [fieldCount]textinput.Model // fieldDescription unused
	description textarea.Model
	focus       editField

	preview     string
	pendingName string
	saving      bool
	invalid     string
}

// Ensure EditProjectModal implements View.
var _ View = (*EditProjectModal)(nil)

// NewEditProjectModal creates an edit dialog seeded from draft.
func NewEditProjectModal(draft project.Project) *EditProjectModal {
	m := &EditProjectModal{ID: draft.ID, preview: draft.Logo}

	values := [fieldCount]string{
		fieldName:     draft.Name,
		fieldAssigned: draft.AssignedDate,
		fieldDue:      draft.DueDate,
		fieldStatus:   draft.Status,
	}
	placeholders := [fieldCount]string{
		fieldLogo:     "path/to/logo.png (ctrl+o to choose)",
		fieldName:     "project name",
		fieldAssigned: project.DateLayout,
		fieldDue:      project.DateLayout,
		fieldStatus:   "status",
	}
	for f := range fieldCount {
		if f == fieldDescription {
			continue
		}
		ti := textinput.New()
		ti.Placeholder = placeholders[f]
		ti.Width = 40
		ti.SetValue(values[f])
		m.inputs[f] = ti
	}

	ta := textarea.New()
	ta.Placeholder = "description"
	ta.ShowLineNumbers = false
	ta.SetWidth(42)
	ta.SetHeight(3)
	ta.SetValue(draft.Description)
	m.description = ta

	m.setFocus(fieldName)
	return m
}

// Fields returns the current text field values.
func (m *EditProjectModal) Fields() DraftFields {
	return DraftFields{
		Name:         strings.TrimSpace(m.inputs[fieldName].Value()),
		Description:  m.description.Value(),
		AssignedDate: strings.TrimSpace(m.inputs[fieldAssigned].Value()),
		DueDate:      strings.TrimSpace(m.inputs[fieldDue].Value()),
		Status:       strings.TrimSpace(m.inputs[fieldStatus].Value()),
	}
}

// SetPreview shows preview and the name of the pending file, if any.
func (m *EditProjectModal) SetPreview(preview, pendingName string) {
	m.preview = preview
	m.pendingName = pendingName
}

// SetImageError reports a logo file that could not be read; nil clears it.
func (m *EditProjectModal) SetImageError(err error) {
	if err == nil {
		m.invalid = ""
		return
	}
	m.invalid = "logo not used: " + err.Error()
}

// SetSaving toggles the saving indicator.
func (m *EditProjectModal) SetSaving(saving bool) {
	m.saving = saving
}

// Init implements View.
func (m *EditProjectModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *EditProjectModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "ctrl+o":
			return m, m.chooseImage()
		case "ctrl+s":
			return m, m.submit()
		case "enter":
			switch m.focus {
			case fieldDescription:
				// newline in the textarea
			case fieldLogo:
				cmd := m.chooseImage()
				m.setFocus(fieldName)
				return m, cmd
			default:
				m.setFocus((m.focus + 1) % fieldCount)
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.focus == fieldDescription {
		m.description, cmd = m.description.Update(msg)
	} else {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m *EditProjectModal) chooseImage() tea.Cmd {
	path := strings.TrimSpace(m.inputs[fieldLogo].Value())
	if path == "" {
		return nil
	}
	return func() tea.Msg { return ChangeImageMsg{Path: path} }
}

func (m *EditProjectModal) submit() tea.Cmd {
	fields := m.Fields()
	probe := project.Project{AssignedDate: fields.AssignedDate, DueDate: fields.DueDate}
	if err := probe.ValidateDates(); err != nil {
		m.invalid = err.Error()
		return nil
	}
	m.invalid = ""
	return func() tea.Msg { return SaveEditMsg{Fields: fields} }
}

func (m *EditProjectModal) setFocus(f editField) {
	m.focus = f
	for i := range m.inputs {
		if editField(i) == fieldDescription {
			continue
		}
		if editField(i) == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	if f == fieldDescription {
		m.description.Focus()
	} else {
		m.description.Blur()
	}
}

// View implements View.
func (m *EditProjectModal) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(fmt.Sprintf("Edit Project #%d", m.ID)) + "\n\n")

	switch {
	case m.preview != "":
		b.WriteString(Styles.Label.Render("Preview") + textutil.TruncateMiddle(m.preview, 48) + "\n")
	case m.pendingName != "":
		b.WriteString(Styles.Label.Render("Preview") + Styles.Empty.Render("reading "+m.pendingName+"…") + "\n")
	}
	if m.pendingName != "" {
		b.WriteString(Styles.Label.Render("New logo") + m.pendingName + "\n")
	}
	b.WriteString("\n")

	for f := range fieldCount {
		label := Styles.Label
		if f == m.focus {
			label = Styles.Focused
		}
		b.WriteString(label.Render(editFieldLabels[f]))
		if f == fieldDescription {
			b.WriteString("\n" + m.description.View() + "\n")
			continue
		}
		b.WriteString(m.inputs[f].View() + "\n")
	}

	if m.invalid != "" {
		b.WriteString("\n" + Styles.Details.Render(m.invalid) + "\n")
	}
	hint := "ctrl+s: save  ctrl+o: choose logo  tab: next field  Esc: cancel"
	if m.saving {
		hint = "saving…"
	}
	b.WriteString("\n" + Styles.Hint.Render(hint))
	return Styles.Box.Render(b.String())
}
