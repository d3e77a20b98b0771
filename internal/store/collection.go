package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"go.uber.org/zap"

	"projecttable/internal/project"
)

// DefaultAPIBaseURL is the host serving /api/projects when none is configured.
const DefaultAPIBaseURL = "http://localhost:3000"

// APICollectionPath is the JSON collection endpoint, relative to the base URL.
var APICollectionPath = []string{"api", "projects"}

// Collection caches the /api/projects list and refreshes it after every
// mutation instead of reconciling locally. It is safe for concurrent use.
type Collection struct {
	transport

	mu       sync.RWMutex
	projects []project.Project
	hasData  bool
	err      error
	issued   uint64 // revalidations started
	applied  uint64 // newest revalidation whose result is cached
}

// NewCollection returns an empty collection rooted at baseURL. Call
// Revalidate to populate it.
func NewCollection(baseURL string, opts ...Option) (*Collection, error) {
	t, err := newTransport(baseURL, opts)
	if err != nil {
		return nil, err
	}
	return &Collection{transport: t}, nil
}

// Projects returns the cached list, or nil before the first successful fetch.
func (c *Collection) Projects() []project.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.projects)
}

// IsLoading is true while there is neither data nor an error.
func (c *Collection) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.hasData && c.err == nil
}

// Err returns the error of the most recent fetch.
func (c *Collection) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Revalidate refetches the list. On failure the last good data is kept and
// the error recorded. When revalidations overlap, a response older than the
// one already cached is discarded.
func (c *Collection) Revalidate(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	req, err := http.NewRequest(http.MethodGet, c.endpoint(APICollectionPath...), nil)
	if err != nil {
		return &NetworkError{Op: "list", Err: err}
	}
	var out []project.Project
	err = c.do(ctx, "list", req, &out)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		c.logger.Debug("dropped stale revalidation", zap.Uint64("seq", seq), zap.Uint64("applied", c.applied))
		return err
	}
	c.applied = seq
	c.err = err
	if err == nil {
		c.projects = out
		c.hasData = true
	}
	return err
}

// Create posts p and revalidates.
func (c *Collection) Create(ctx context.Context, p project.Project) error {
	return c.mutate(ctx, "create", http.MethodPost, c.endpoint(APICollectionPath...), p)
}

// Update puts p to its id and revalidates.
func (c *Collection) Update(ctx context.Context, p project.Project) error {
	segs := append(slices.Clone(APICollectionPath), idSegment(p.ID))
	return c.mutate(ctx, "update", http.MethodPut, c.endpoint(segs...), p)
}

// Delete removes id and revalidates.
func (c *Collection) Delete(ctx context.Context, id int) error {
	segs := append(slices.Clone(APICollectionPath), idSegment(id))
	return c.mutate(ctx, "delete", http.MethodDelete, c.endpoint(segs...), nil)
}

// mutate sends one JSON mutation, then revalidates whatever its outcome.
// The mutation error wins over a revalidation error.
func (c *Collection) mutate(ctx context.Context, op, method, target string, body any) error {
	mutErr := c.send(ctx, op, method, target, body)
	if revErr := c.Revalidate(ctx); revErr != nil {
		c.logger.Warn("revalidate after mutation failed", zap.String("op", op), zap.Error(revErr))
		if mutErr == nil {
			return fmt.Errorf("revalidate after %s: %w", op, revErr)
		}
	}
	return mutErr
}

func (c *Collection) send(ctx context.Context, op, method, target string, body any) error {
	var req *http.Request
	var err error
	if body != nil {
		data, merr := json.Marshal(body)
		if merr != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("encode body: %w", merr)}
		}
		req, err = http.NewRequest(method, target, bytes.NewReader(data))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequest(method, target, nil)
	}
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	if err := c.do(ctx, op, req, nil); err != nil {
		c.logger.Error("collection mutation failed", zap.String("op", op), zap.Error(err))
		return err
	}
	return nil
}

// IsNetwork reports whether err is a store failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}
