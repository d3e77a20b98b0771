package ui

import tea "github.com/charmbracelet/bubbletea"

// View is the unit of composition: Bubble Tea's Init/Update/View with an
// Update that can swap itself for another View.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}

// Overlay is a modal dialog with a dismiss key.
type Overlay struct {
	View    View
	Dismiss string // e.g. "esc"
}

// IsDismissKey reports whether key dismisses the overlay.
func (o *Overlay) IsDismissKey(key string) bool {
	return key == o.Dismiss
}

// OverlayStack holds open dialogs; the topmost receives input.
type OverlayStack struct {
	Stack []Overlay
}

// Push adds an overlay on top.
func (s *OverlayStack) Push(o Overlay) {
	s.Stack = append(s.Stack, o)
}

// Pop removes and returns the top overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

// Peek returns the top overlay without removing it.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// Clear drops every overlay.
func (s *OverlayStack) Clear() {
	s.Stack = nil
}

// Len returns the number of overlays.
func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// UpdateTop forwards msg to the top overlay and stores the returned View.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := &s.Stack[len(s.Stack)-1]
	newView, cmd := top.View.Update(msg)
	top.View = newView
	return cmd, true
}
