// Package store talks to the remote projects collection over HTTP.
//
// Client implements the contract the table reconciles against:
//
//	GET    /projects       -> []Project
//	PUT    /projects/{id}  multipart name, description, assignedDate, dueDate, status, logo
//	DELETE /projects/{id}
//
// Collection is the alternate JSON strategy on /api/projects that refreshes
// its cached list after every mutation.
package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"

	"projecttable/internal/project"
)

// DefaultBaseURL is the project store used when none is configured.
const DefaultBaseURL = "http://localhost:3001"

// CollectionPath is the resource name of the projects collection.
const CollectionPath = "projects"

// Client is the multipart REST client for the projects collection.
type Client struct {
	transport
}

// NewClient returns a client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	t, err := newTransport(baseURL, opts)
	if err != nil {
		return nil, err
	}
	return &Client{transport: t}, nil
}

// List fetches the full collection.
func (c *Client) List(ctx context.Context) ([]project.Project, error) {
	req, err := http.NewRequest(http.MethodGet, c.endpoint(CollectionPath), nil)
	if err != nil {
		return nil, &NetworkError{Op: "list", Err: err}
	}
	var out []project.Project
	if err := c.do(ctx, "list", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update sends the draft as a multipart form. The logo part is the pending
// file when one is given, otherwise the draft's current logo reference.
// The response body is not interpreted. A pending file that cannot be read
// fails before any request and is not a NetworkError.
func (c *Client) Update(ctx context.Context, draft project.Project, file *project.PendingFile) error {
	body, contentType, err := encodeUpdate(draft, file)
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}
	req, err := http.NewRequest(http.MethodPut, c.endpoint(CollectionPath, idSegment(draft.ID)), body)
	if err != nil {
		return &NetworkError{Op: "update", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(ctx, "update", req, nil)
}

// Delete removes the record with id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id int) error {
	req, err := http.NewRequest(http.MethodDelete, c.endpoint(CollectionPath, idSegment(id)), nil)
	if err != nil {
		return &NetworkError{Op: "delete", Err: err}
	}
	return c.do(ctx, "delete", req, nil)
}

// encodeUpdate builds the multipart body for Update.
func encodeUpdate(draft project.Project, file *project.PendingFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", draft.Name},
		{"description", draft.Description},
		{"assignedDate", draft.AssignedDate},
		{"dueDate", draft.DueDate},
		{"status", draft.Status},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	if file != nil {
		if err := writeFilePart(w, *file); err != nil {
			return nil, "", err
		}
	} else if err := w.WriteField("logo", draft.Logo); err != nil {
		return nil, "", fmt.Errorf("write field logo: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, f project.PendingFile) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("open logo %s: %w", f.Path, err)
	}
	defer src.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="logo"; filename=%q`, f.Name))
	h.Set("Content-Type", f.ContentType())
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create logo part: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy logo %s: %w", f.Path, err)
	}
	return nil
}
