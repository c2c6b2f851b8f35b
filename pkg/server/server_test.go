package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"friendsofmonika/masvalidator/pkg/config"
	"friendsofmonika/masvalidator/pkg/nickname"
	"friendsofmonika/masvalidator/pkg/schema"
	"friendsofmonika/masvalidator/pkg/source"
	"friendsofmonika/masvalidator/pkg/telemetry/health"
	"friendsofmonika/masvalidator/pkg/telemetry/metrics"
	"friendsofmonika/masvalidator/pkg/tokenize"
)

const testScript = `
init 5 python:
    mas_bad_nickname_list = [
        "fuck",
        r"\bass\b",
    ]
    mas_good_nickname_list_base = ["sweet"]
    mas_good_nickname_list_player_modifiers = ["king"]
    mas_good_nickname_list_monika_modifiers = ["moni"]
    mas_awkward_nickname_list = ["mom", "(?<!s)hit", "[broken"]
`

const hairSchema = `{
  "type": "object",
  "required": ["type", "id"],
  "properties": {
    "type": {"const": 1},
    "id": {"type": "string"}
  }
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	scripts := source.FetcherFunc(func(ctx context.Context, repo source.Repo, path string) (string, error) {
		return testScript, nil
	})
	schemas := source.FetcherFunc(func(ctx context.Context, repo source.Repo, path string) (string, error) {
		if path == "hair.schema.json" {
			return hairSchema, nil
		}
		return "", &source.NotFoundError{Repo: repo, Path: path}
	})

	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "test"}, prometheus.NewRegistry())
	nicknames := nickname.NewService(nickname.ServiceConfig{Path: "script.rpy"}, scripts, tokenize.NewWorker(nil), collector, nil)
	registry := schema.NewRegistry(schema.RegistryConfig{}, schemas, collector, nil)

	checker := health.New(time.Second)
	checker.Register("nicknames", func(ctx context.Context) error {
		_, err := nicknames.Rules(ctx)
		return err
	})

	cfg := config.Default().Server
	cfg.MaxBodyBytes = 4096
	return NewServer(&cfg, Dependencies{
		Nicknames: nicknames,
		Documents: schema.NewValidator(registry, collector, nil),
		Health:    checker,
		Metrics:   collector.Handler(),
	}, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestClassify(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantCategory []string
	}{
		{
			name:         "single name",
			body:         `{"name": "Fucker"}`,
			wantStatus:   http.StatusOK,
			wantCategory: []string{"bad"},
		},
		{
			name:         "batch in request order",
			body:         `{"names": ["mom", "King Bob", "Yuri", "moni", "Hitman", "shit"]}`,
			wantStatus:   http.StatusOK,
			wantCategory: []string{"awkward", "playerGood", "", "monikaGood", "awkward", ""},
		},
		{
			name:         "caller priority",
			body:         `{"names": ["sweetmom"], "priority": ["playerGood", "awkward"]}`,
			wantStatus:   http.StatusOK,
			wantCategory: []string{"playerGood"},
		},
		{
			name:         "default priority puts awkward before good",
			body:         `{"names": ["sweetmom"]}`,
			wantStatus:   http.StatusOK,
			wantCategory: []string{"awkward"},
		},
		{name: "no names", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "unknown category", body: `{"name": "x", "priority": ["evil"]}`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"nick": "x"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{"name": `, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/v1/nicknames/classify", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				var resp ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Error.Type != errorTypeInvalidRequest {
					t.Errorf("error body = %s", w.Body.String())
				}
				return
			}

			var resp ClassifyResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if len(resp.Results) != len(tt.wantCategory) {
				t.Fatalf("results = %+v", resp.Results)
			}
			for i, want := range tt.wantCategory {
				if got := resp.Results[i].Category; got != want {
					t.Errorf("result %d (%s) category = %q, want %q", i, resp.Results[i].Name, got, want)
				}
				if want != "" && resp.Results[i].Pattern == "" {
					t.Errorf("result %d has no pattern", i)
				}
			}
			if resp.Revision == "" {
				t.Error("revision is empty")
			}
		})
	}
}

// snapshotNicknames counts rule loads and records the rule sets each name
// was classified with.
type snapshotNicknames struct {
	*nickname.Service

	mu    sync.Mutex
	loads int
	seen  []*nickname.RuleSets
}

func (n *snapshotNicknames) Rules(ctx context.Context) (*nickname.RuleSets, error) {
	n.mu.Lock()
	n.loads++
	n.mu.Unlock()
	return n.Service.Rules(ctx)
}

func (n *snapshotNicknames) ClassifyWith(rs *nickname.RuleSets, name string, order ...nickname.Category) *nickname.Match {
	n.mu.Lock()
	n.seen = append(n.seen, rs)
	n.mu.Unlock()
	return n.Service.ClassifyWith(rs, name, order...)
}

func TestClassify_SingleSnapshot(t *testing.T) {
	scripts := source.FetcherFunc(func(ctx context.Context, repo source.Repo, path string) (string, error) {
		return testScript, nil
	})
	nicknames := &snapshotNicknames{
		Service: nickname.NewService(nickname.ServiceConfig{Path: "script.rpy"}, scripts, tokenize.NewWorker(nil), nil, nil),
	}
	cfg := config.Default().Server
	h := NewServer(&cfg, Dependencies{Nicknames: nicknames}, nil).Handler()

	w := do(t, h, http.MethodPost, "/v1/nicknames/classify", `{"names": ["mom", "king", "moni"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp ClassifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if nicknames.loads != 1 {
		t.Errorf("rules loaded %d times, want 1", nicknames.loads)
	}
	if len(nicknames.seen) != 3 {
		t.Fatalf("classified %d names, want 3", len(nicknames.seen))
	}
	for i, rs := range nicknames.seen {
		if rs != nicknames.seen[0] || rs.Revision != resp.Revision {
			t.Errorf("name %d classified with revision %q, response reports %q", i, rs.Revision, resp.Revision)
		}
	}
}

func TestLists(t *testing.T) {
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodGet, "/v1/nicknames/lists", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp ListsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Lists.Bad) != 2 || resp.Lists.Bad[1] != `\bass\b` {
		t.Errorf("bad list = %q", resp.Lists.Bad)
	}
	if len(resp.Skipped) != 1 || resp.Skipped[0].Pattern != "[broken" || resp.Skipped[0].List != nickname.ListAwkward {
		t.Errorf("skipped = %+v", resp.Skipped)
	}
}

func TestValidate(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantOutcome string
	}{
		{name: "valid", body: `{"type": 1, "id": "bun"}`, wantStatus: http.StatusOK, wantOutcome: schema.OutcomeValid},
		{name: "violation", body: `{"type": 1}`, wantStatus: http.StatusUnprocessableEntity, wantOutcome: schema.OutcomeViolations},
		{name: "syntax", body: `{"type": 1,}`, wantStatus: http.StatusUnprocessableEntity, wantOutcome: schema.OutcomeSyntaxError},
		{name: "precondition", body: `[1]`, wantStatus: http.StatusUnprocessableEntity, wantOutcome: schema.OutcomePrecondition},
		{name: "schema unavailable", body: `{"type": 2}`, wantStatus: http.StatusBadGateway, wantOutcome: schema.OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/v1/documents/validate", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			var report schema.Report
			if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
				t.Fatal(err)
			}
			if report.Outcome != tt.wantOutcome {
				t.Errorf("outcome = %q, want %q", report.Outcome, tt.wantOutcome)
			}
		})
	}
}

func TestValidate_BodyTooLarge(t *testing.T) {
	h := newTestServer(t).Handler()

	body := `{"type": 1, "id": "` + strings.Repeat("a", 5000) + `"}`
	w := do(t, h, http.MethodPost, "/v1/documents/validate", body)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}

func TestHealthMetricsAndNotFound(t *testing.T) {
	h := newTestServer(t).Handler()

	if w := do(t, h, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("healthz status = %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/readyz", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"nicknames"`) {
		t.Errorf("readyz status = %d, body = %s", w.Code, w.Body.String())
	}

	do(t, h, http.MethodPost, "/v1/documents/validate", `{"type": 1, "id": "x"}`)
	w := do(t, h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "test_document_validations_total") {
		t.Errorf("metrics status = %d, body lacks validations counter", w.Code)
	}

	w = do(t, h, http.MethodGet, "/v2/unknown", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", w.Code)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("response lacks request ID")
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	s := newTestServer(t)
	s.cfg.ListenAddress = "127.0.0.1:0"
	s.cfg.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	var addr string
	for i := 0; i < 100 && addr == ""; i++ {
		if a := s.Addr(); a != nil {
			addr = a.String()
		} else {
			time.Sleep(10 * time.Millisecond)
		}
	}
	if addr == "" {
		t.Fatal("server did not bind")
	}

	resp, err := http.Post("http://"+addr+"/v1/documents/validate", "application/json", bytes.NewBufferString(`{"type": 1, "id": "x"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	if err := s.Start(ctx); err == nil {
		t.Error("second Start() succeeded")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
