package store

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"projecttable/internal/project"
)

// upload is what the fake store saw for one multipart PUT.
type upload struct {
	ID         int
	Fields     map[string]string
	FileName   string
	FileBytes  []byte
	RequestID  string
	HadLogoRef bool
}

// fakeStore is an in-memory projects collection served by chi.
type fakeStore struct {
	mu       sync.Mutex
	projects []project.Project
	nextID   int
	fail     map[string]int // "METHOD path-pattern" -> status
	uploads  []upload
	calls    []string
}

func newFakeStore(seed ...project.Project) *fakeStore {
	f := &fakeStore{projects: seed, nextID: len(seed) + 1, fail: map[string]int{}}
	return f
}

func (f *fakeStore) failWith(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[route] = status
}

func (f *fakeStore) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeStore) uploadLog() []upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upload(nil), f.uploads...)
}

func (f *fakeStore) stored() []project.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]project.Project(nil), f.projects...)
}

// serve mounts the collection under prefix ("" for /projects, "/api" for /api/projects).
func (f *fakeStore) serve(t *testing.T, prefix string) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Route(prefix+"/projects", func(r chi.Router) {
		r.Get("/", f.guard("GET /projects", f.list))
		r.Post("/", f.guard("POST /projects", f.create))
		r.Put("/{id}", f.guard("PUT /projects/{id}", f.update))
		r.Delete("/{id}", f.guard("DELETE /projects/{id}", f.delete))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeStore) guard(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls = append(f.calls, route)
		status := f.fail[route]
		f.mu.Unlock()
		if status != 0 {
			http.Error(w, "injected failure", status)
			return
		}
		next(w, r)
	}
}

func (f *fakeStore) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(f.projects)
}

func (f *fakeStore) create(w http.ResponseWriter, r *http.Request) {
	var p project.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	p.ID = f.nextID
	f.nextID++
	f.projects = append(f.projects, p)
	f.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

func (f *fakeStore) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	var p project.Project
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		up := upload{ID: id, Fields: map[string]string{}, RequestID: r.Header.Get(RequestIDHeader)}
		for k, v := range r.MultipartForm.Value {
			up.Fields[k] = v[0]
		}
		_, up.HadLogoRef = r.MultipartForm.Value["logo"]
		if fhs := r.MultipartForm.File["logo"]; len(fhs) > 0 {
			src, _ := fhs[0].Open()
			up.FileName = fhs[0].Filename
			up.FileBytes, _ = io.ReadAll(src)
			src.Close()
		}
		p = project.Project{
			Name:         up.Fields["name"],
			Description:  up.Fields["description"],
			AssignedDate: up.Fields["assignedDate"],
			DueDate:      up.Fields["dueDate"],
			Status:       up.Fields["status"],
			Logo:         up.Fields["logo"],
		}
		f.mu.Lock()
		f.uploads = append(f.uploads, up)
		f.mu.Unlock()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	i := project.Index(f.projects, id)
	if i < 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	p.ID = id
	f.projects[i] = p
	_ = json.NewEncoder(w).Encode(p)
}

func (f *fakeStore) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if project.Index(f.projects, id) < 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	f.projects = project.Remove(f.projects, id)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("{}"))
}
