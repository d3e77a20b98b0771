package ui

// AppMode is which surface currently receives input. It is derived from the
// table state and the overlay stack, never stored.
type AppMode int

const (
	ModeTable AppMode = iota
	ModeDetail
	ModeEdit
	ModeConfirm
)

func (m AppMode) String() string {
	switch m {
	case ModeTable:
		return "Table"
	case ModeDetail:
		return "Detail"
	case ModeEdit:
		return "Edit"
	case ModeConfirm:
		return "Confirm"
	default:
		return "Unknown"
	}
}
