package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"projecttable/internal/project"
	"projecttable/internal/ui/textutil"
)

// column widths before the terminal size is known
var defaultColumns = []table.Column{
	{Title: "Project Name", Width: 20},
	{Title: "Description", Width: 30},
	{Title: "Team", Width: 16},
	{Title: "Assigned Date", Width: 13},
	{Title: "Due Date", Width: 10},
	{Title: "Status", Width: 10},
}

// TableView lists projects, one row per record.
type TableView struct {
	table    table.Model
	Projects []project.Project
	spinner  spinner.Model
	busy     bool
	loaded   bool
}

// Ensure TableView implements View.
var _ View = (*TableView)(nil)

// NewTableView creates an empty table. Rows arrive via SetProjects.
func NewTableView() *TableView {
	t := table.New(
		table.WithColumns(defaultColumns),
		table.WithFocused(true),
		table.WithHeight(20),
		table.WithStyles(tableStyles()),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))

	return &TableView{table: t, spinner: s}
}

// SetProjects replaces the rows, keeping the cursor in range.
func (v *TableView) SetProjects(list []project.Project) {
	v.Projects = list
	v.loaded = true
	cursor := v.table.Cursor()
	v.table.SetRows(projectRows(list, v.table.Columns()))
	switch {
	case len(list) == 0:
		v.table.SetCursor(0)
	case cursor >= len(list):
		v.table.SetCursor(len(list) - 1)
	}
}

// Selected returns the project under the cursor.
func (v *TableView) Selected() (project.Project, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.Projects) {
		return project.Project{}, false
	}
	return v.Projects[i], true
}

// Select moves the cursor to row i.
func (v *TableView) Select(i int) {
	v.table.SetCursor(i)
}

// SetBusy toggles the spinner and returns the command that drives it.
func (v *TableView) SetBusy(busy bool) tea.Cmd {
	wasBusy := v.busy
	v.busy = busy
	if busy && !wasBusy {
		return v.spinner.Tick
	}
	return nil
}

// Init implements View.
func (v *TableView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (v *TableView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize(msg.Width, msg.Height)
		return v, nil
	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	// j/k, arrows and paging are handled by table.Model.
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// View implements View.
func (v *TableView) View() string {
	var b strings.Builder
	title := Styles.Title.Render(fmt.Sprintf("Projects (%d)", len(v.Projects)))
	if v.busy {
		title += " " + v.spinner.View()
	}
	b.WriteString(title + "\n")
	b.WriteString(Styles.Hint.Render("enter/v view  e edit  d delete  r reload  [SPC] commands") + "\n\n")
	if v.loaded && len(v.Projects) == 0 {
		b.WriteString(Styles.Empty.Render("No projects"))
		return b.String()
	}
	b.WriteString(v.table.View())
	return b.String()
}

// resize spreads the terminal width over the columns, giving the
// description column whatever the fixed ones leave.
func (v *TableView) resize(width, height int) {
	cols := make([]table.Column, len(defaultColumns))
	copy(cols, defaultColumns)
	fixed := 0
	for i, c := range cols {
		if i != 1 {
			fixed += c.Width + 2
		}
	}
	if desc := width - fixed - 2; desc > 10 {
		cols[1].Width = desc
	}
	v.table.SetColumns(cols)
	v.table.SetRows(projectRows(v.Projects, cols))
	v.table.SetWidth(width)
	if h := height - 5; h > 3 {
		v.table.SetHeight(h)
	}
}

// projectRows converts the list into table rows truncated to the columns.
func projectRows(list []project.Project, cols []table.Column) []table.Row {
	rows := make([]table.Row, len(list))
	for i, p := range list {
		cells := []string{p.Name, p.Description, p.TeamImage, p.AssignedDate, p.DueDate, p.Status}
		for j := range cells {
			if j < len(cols) {
				cells[j] = textutil.Truncate(textutil.SingleLine(cells[j]), cols[j].Width)
			}
		}
		rows[i] = cells
	}
	return rows
}
