// Package project defines the project record shared by the table, the store
// client and the TUI.
package project

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for assigned and due dates.
const DateLayout = "2006-01-02"

// Project is a single record of the remote projects collection.
// ID is assigned by the store and never changes once set.
type Project struct {
	ID           int    `json:"id"`
	Logo         string `json:"logo"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	TeamImage    string `json:"teamImage"`
	AssignedDate string `json:"assignedDate"`
	DueDate      string `json:"dueDate"`
	Status       string `json:"status"`
}

// Clone returns an independent copy of p.
// Project holds only value fields, so a struct copy is already deep; Clone
// exists so callers never rely on that.
func (p Project) Clone() Project {
	return p
}

// ValidateDates reports a non-empty date that does not parse as YYYY-MM-DD.
func (p Project) ValidateDates() error {
	for _, d := range []struct {
		field, value string
	}{
		{"assignedDate", p.AssignedDate},
		{"dueDate", p.DueDate},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d.value); err != nil {
			return fmt.Errorf("%s %q: want YYYY-MM-DD", d.field, d.value)
		}
	}
	return nil
}

// Index returns the position of the project with the given id, or -1.
func Index(list []Project, id int) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// Replace returns a new slice with the entry matching p.ID replaced by p.
// The input slice is not modified. Missing ids leave the list as is.
func Replace(list []Project, p Project) []Project {
	out := make([]Project, len(list))
	copy(out, list)
	if i := Index(out, p.ID); i >= 0 {
		out[i] = p
	}
	return out
}

// Remove returns a new slice without the entry matching id.
func Remove(list []Project, id int) []Project {
	out := make([]Project, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// PendingFile is a locally chosen replacement logo that has not been uploaded.
type PendingFile struct {
	Path string
	Name string
}

// NewPendingFile builds a PendingFile from a filesystem path.
func NewPendingFile(path string) PendingFile {
	path = strings.TrimSpace(path)
	return PendingFile{Path: path, Name: filepath.Base(path)}
}

// ContentType guesses the MIME type from the file extension.
func (f PendingFile) ContentType() string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// LocalURL is the local reference shown as the logo after a successful upload.
func (f PendingFile) LocalURL() string {
	abs, err := filepath.Abs(f.Path)
	if err != nil {
		abs = f.Path
	}
	return "file://" + filepath.ToSlash(abs)
}
