package yourls

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeAPI is an httptest-backed YOURLS endpoint. Handlers are registered per
// action; a request for an unregistered action fails the test. Request counts
// are tracked per action so tests can assert how often the wire was hit.
type fakeAPI struct {
	t        *testing.T
	mu       sync.Mutex
	counts   map[string]int
	handlers map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{
		t:        t,
		counts:   make(map[string]int),
		handlers: make(map[string]http.HandlerFunc),
	}
}

func (f *fakeAPI) handle(action string, h http.HandlerFunc) {
	f.handlers[action] = h
}

// respond registers a fixed JSON response for an action.
func (f *fakeAPI) respond(action string, body map[string]any) {
	f.handle(action, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, body)
	})
}

// unknownAction makes the given actions answer like a server without the
// corresponding plugins.
func (f *fakeAPI) unknownAction(actions ...string) {
	for _, a := range actions {
		f.respond(a, map[string]any{
			"errorCode": "400",
			"message":   "Unknown or missing 'action' parameter",
		})
	}
}

func (f *fakeAPI) count(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[action]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	action := r.Form.Get("action")

	f.mu.Lock()
	f.counts[action]++
	h := f.handlers[action]
	f.mu.Unlock()

	if h == nil {
		f.t.Errorf("unexpected action %q", action)
		writeJSON(w, map[string]any{"status": "fail", "message": "unexpected action"})
		return
	}
	h(w, r)
}

// client starts the fake server and builds a Client against it.
func (f *fakeAPI) client(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		APIURL:   srv.URL,
		Username: "admin",
		Password: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func notFoundBody() map[string]any {
	return map[string]any{"errorCode": 404, "message": "Error: short URL not found"}
}
