package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/msomdec/ekaksh/internal/handler"
	"github.com/msomdec/ekaksh/internal/metrics"
	"github.com/msomdec/ekaksh/internal/repository/memory"
	"github.com/msomdec/ekaksh/internal/repository/sqlite"
	"github.com/msomdec/ekaksh/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type fakeAssistant struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []string
}

func (f *fakeAssistant) Answer(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

func (f *fakeAssistant) Set(answer string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answer, f.err = answer, err
}

func (f *fakeAssistant) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

type testEnv struct {
	srv       *httptest.Server
	deps      handler.Deps
	auth      *service.AuthService
	sessions  *memory.SessionStore
	assistant *fakeAssistant
}

// newTestEnv starts a server backed by a temporary SQLite database, an
// in-memory session store and a fake assistant. limiter may be nil.
func newTestEnv(t *testing.T, limiter *service.TokenBucket) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := memory.NewSessionStore()
	fake := &fakeAssistant{answer: "42"}
	m := metrics.New()

	deps := handler.Deps{
		Auth:         service.NewAuthService(db.Users(), 4, m),
		Sessions:     service.NewSessionService(store, testJWTSecret, time.Hour),
		Assistant:    service.NewAssistantRouter(fake, 0, m),
		DB:           db,
		Limiter:      limiter,
		Metrics:      m,
		CookieSecure: false,
	}

	srv := httptest.NewServer(handler.NewHandler(deps))
	t.Cleanup(srv.Close)

	return &testEnv{
		srv:       srv,
		deps:      deps,
		auth:      deps.Auth,
		sessions:  store,
		assistant: fake,
	}
}

// newClient returns a client with a cookie jar that does not follow
// redirects.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (e *testEnv) cookie(t *testing.T, client *http.Client, name string) string {
	t.Helper()
	u, _ := url.Parse(e.srv.URL)
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func parseHTML(t *testing.T, r io.Reader) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		t.Fatalf("parse HTML: %v", err)
	}
	return doc
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}
