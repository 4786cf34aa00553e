package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/config"
	"github.com/dmitrijs2005/physiokeeper/internal/client/credstore"
	"github.com/dmitrijs2005/physiokeeper/internal/client/services"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/logging"
)

// fakeServer is a scripted API. Protected routes demand the current access
// token; the refresh route rotates it.
type fakeServer struct {
	srv *httptest.Server

	mu       sync.Mutex
	access   string
	refresh  string
	replies  map[string]reply
	requests []recorded

	// refreshGate, when set, holds refresh requests until closed.
	// refreshSeen receives once per held request.
	refreshGate chan struct{}
	refreshSeen chan struct{}
}

type reply struct {
	status int
	body   any
}

type recorded struct {
	method, path, query string
	body                map[string]any
}

var publicPaths = map[string]bool{
	"/api/token/":         true,
	"/api/token/refresh/": true,
	"/users/register/":    true,
	"/injury-types/":      true,
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{access: "a1", refresh: "r1", replies: make(map[string]reply)}
	f.on("POST", "/api/token/", http.StatusOK, api.TokenPair{Access: "a1", Refresh: "r1"})
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServer) on(method, path string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[method+" "+path] = reply{status: status, body: body}
}

// expireAccess makes the server reject the current access token.
func (f *fakeServer) expireAccess(next string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = next
}

func (f *fakeServer) serve(w http.ResponseWriter, r *http.Request) {
	rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
	_ = json.NewDecoder(r.Body).Decode(&rec.body)

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	access, refresh := f.access, f.refresh
	rep, ok := f.replies[r.Method+" "+r.URL.Path]
	gate, seen := f.refreshGate, f.refreshSeen
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	write := func(status int, body any) {
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}

	if r.URL.Path == "/api/token/refresh/" {
		if gate != nil {
			seen <- struct{}{}
			<-gate
		}
		if rec.body["refresh"] != refresh {
			write(http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
			return
		}
		write(http.StatusOK, api.TokenPair{Access: access, Refresh: refresh + "'"})
		f.mu.Lock()
		f.refresh = refresh + "'"
		f.mu.Unlock()
		return
	}
	if !publicPaths[r.URL.Path] && r.Header.Get(common.AuthorizationHeaderName) != common.BearerPrefix+access {
		write(http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
		return
	}
	if !ok {
		write(http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	write(rep.status, rep.body)
}

// holdRefresh blocks refresh requests until the returned release is called.
func (f *fakeServer) holdRefresh(t *testing.T) (seen <-chan struct{}, release func()) {
	t.Helper()
	gate := make(chan struct{})
	ch := make(chan struct{}, 8)
	f.mu.Lock()
	f.refreshGate, f.refreshSeen = gate, ch
	f.mu.Unlock()

	var once sync.Once
	release = func() { once.Do(func() { close(gate) }) }
	t.Cleanup(release)
	return ch, release
}

func (f *fakeServer) calls(path string) []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recorded
	for _, r := range f.requests {
		if r.path == path {
			out = append(out, r)
		}
	}
	return out
}

type testApp struct {
	*App
	store *credstore.Memory
	out   *bytes.Buffer
}

// newTestApp builds an App on an in-memory store. Lines are fed to the
// prompt helpers in order.
func newTestApp(t *testing.T, f *fakeServer, lines ...string) *testApp {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = f.srv.URL
	cfg.RequestTimeout = time.Second
	cfg.LoginTimeout = time.Second

	store := credstore.NewMemory()
	out := &bytes.Buffer{}
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	app := newApp(cfg, store, logging.Discard(), in, out)
	app.now = func() time.Time { return time.Date(2025, time.February, 11, 9, 0, 0, 0, time.UTC) }
	app.week = services.CurrentWeek(app.now())
	return &testApp{App: app, store: store, out: out}
}

// loggedIn seeds the store with the server's current pair.
func (ta *testApp) loggedIn(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()
	if err := ta.store.SetPair(ctx, "a1", "r1"); err != nil {
		t.Fatal(err)
	}
	ta.mgr.Hydrate(ctx)
	return ta
}

func stubPasswords(t *testing.T, passwords ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	getPassword = func(string, io.Writer) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		pw := []byte(passwords[0])
		passwords = passwords[1:]
		return pw, nil
	}
}
