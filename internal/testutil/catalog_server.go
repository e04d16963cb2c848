package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// CatalogCall records one request received by a CatalogServer
type CatalogCall struct {
	Path  string
	Query string // Value of the q parameter
}

// CatalogServer is a fake catalog API serving canned search and episode bodies
type CatalogServer struct {
	*httptest.Server

	mu       sync.Mutex
	calls    []CatalogCall
	search   string
	episodes map[string]string // show ID -> body
	status   int
}

// NewCatalogServer starts a fake catalog that is closed when the test ends.
func NewCatalogServer(t *testing.T) *CatalogServer {
	t.Helper()
	cs := &CatalogServer{
		search:   "[]",
		episodes: make(map[string]string),
	}
	cs.Server = httptest.NewServer(http.HandlerFunc(cs.handle))
	t.Cleanup(cs.Close)
	return cs
}

// SetSearch sets the body returned by /search/shows.
func (cs *CatalogServer) SetSearch(body string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.search = body
}

// SetEpisodes sets the body returned by /shows/{id}/episodes.
func (cs *CatalogServer) SetEpisodes(showID string, body string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.episodes[showID] = body
}

// FailWith makes every request answer with the given status code. Zero restores normal answers.
func (cs *CatalogServer) FailWith(status int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.status = status
}

// Calls returns a copy of the recorded requests.
func (cs *CatalogServer) Calls() []CatalogCall {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]CatalogCall(nil), cs.calls...)
}

func (cs *CatalogServer) handle(w http.ResponseWriter, r *http.Request) {
	cs.mu.Lock()
	cs.calls = append(cs.calls, CatalogCall{Path: r.URL.Path, Query: r.URL.Query().Get("q")})
	status := cs.status
	search := cs.search
	cs.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	path := r.URL.Path
	switch {
	case path == "/search/shows":
		writeJSON(w, search)
		return
	case strings.HasPrefix(path, "/shows/") && strings.HasSuffix(path, "/episodes"):
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/shows/"), "/episodes")
		cs.mu.Lock()
		body, ok := cs.episodes[id]
		cs.mu.Unlock()
		if ok {
			writeJSON(w, body)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"name":"Not Found","message":"","code":0,"status":404}`))
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
