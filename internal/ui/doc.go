// Package ui is the Bubble Tea front end for the project table.
//
// The root AppModel renders a TableView and stacks dialogs on an
// OverlayStack:
//   - ViewProjectModal: read-only detail
//   - EditProjectModal: draft fields, logo file and preview
//   - ConfirmModal: delete confirmation
//
// Remote calls and preview derivation run as tea.Cmds (app_commands.go) and
// report back as messages (app_messages.go); handlers apply the results
// through table.Table so stale or failed results never reach the views.
package ui
