// Package textutil provides width-aware text helpers for table cells and
// dialog fields.
package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateEllipsis marks truncated text.
const TruncateEllipsis = "…"

// VisualWidth returns the number of terminal columns s occupies.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate cuts s to at most maxWidth columns, ending in an ellipsis when cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxWidth {
		return s
	}
	avail := maxWidth - VisualWidth(TruncateEllipsis)
	if avail <= 0 {
		return TruncateEllipsis
	}
	return takeWidth(s, avail) + TruncateEllipsis
}

// TruncateMiddle keeps the head and tail of s, which suits long URLs whose
// scheme and extension are the informative parts.
func TruncateMiddle(s string, maxWidth int) string {
	if VisualWidth(s) <= maxWidth {
		return s
	}
	avail := maxWidth - VisualWidth(TruncateEllipsis)
	if avail < 2 {
		return Truncate(s, maxWidth)
	}
	head := takeWidth(s, avail-avail/2)
	tail := reverse(takeWidth(reverse(s), avail/2))
	return head + TruncateEllipsis + tail
}

// SingleLine collapses newlines and tabs so text fits in one table cell.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func takeWidth(s string, width int) string {
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String()
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
