package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
)

// fakeCaller hands every operation a client for the stub server and counts
// calls. It performs no 401 recovery.
type fakeCaller struct {
	c     *client.AuthenticatedClient
	mu    sync.Mutex
	calls int
}

func (f *fakeCaller) Call(ctx context.Context, op session.Operation) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return op(ctx, f.c)
}

type stubRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// apiStub answers requests from a route table keyed by "METHOD /path".
type apiStub struct {
	srv    *httptest.Server
	mu     sync.Mutex
	routes map[string]stubReply
	seen   []stubRequest
}

type stubReply struct {
	status int
	body   any
}

func newAPIStub(t *testing.T) *apiStub {
	t.Helper()
	s := &apiStub{routes: make(map[string]stubReply)}
	s.srv = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *apiStub) on(method, path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = stubReply{status: status, body: body}
}

func (s *apiStub) serve(w http.ResponseWriter, r *http.Request) {
	req := stubRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
	_ = json.NewDecoder(r.Body).Decode(&req.Body)

	s.mu.Lock()
	s.seen = append(s.seen, req)
	reply, ok := s.routes[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not found."})
		return
	}
	w.WriteHeader(reply.status)
	if reply.body != nil {
		_ = json.NewEncoder(w).Encode(reply.body)
	}
}

func (s *apiStub) requests() []stubRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stubRequest(nil), s.seen...)
}

func (s *apiStub) caller() *fakeCaller {
	return &fakeCaller{c: client.NewAuthenticated(s.srv.URL, "tok", time.Second, s.srv.Client())}
}
