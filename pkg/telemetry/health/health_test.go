package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		wantFailed []string
	}{
		{name: "no checks", wantStatus: StatusReady},
		{
			name: "all pass",
			checks: map[string]CheckFunc{
				"cache":     func(context.Context) error { return nil },
				"nicknames": func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "one fails",
			checks: map[string]CheckFunc{
				"cache":     func(context.Context) error { return errors.New("database is locked") },
				"nicknames": func(context.Context) error { return nil },
			},
			wantStatus: StatusDegraded,
			wantFailed: []string{"cache"},
		},
		{
			name: "timeout",
			checks: map[string]CheckFunc{
				"slow": func(ctx context.Context) error {
					<-ctx.Done()
					time.Sleep(50 * time.Millisecond)
					return nil
				},
			},
			wantStatus: StatusDegraded,
			wantFailed: []string{"slow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(20 * time.Millisecond)
			for name, check := range tt.checks {
				c.Register(name, check)
			}

			got := c.Readiness(context.Background())
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if len(got.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(got.Checks), len(tt.checks))
			}
			for _, name := range tt.wantFailed {
				if got.Checks[name].Status != StatusUnhealthy || got.Checks[name].Message == "" {
					t.Errorf("check %s = %+v, want unhealthy with message", name, got.Checks[name])
				}
			}
		})
	}
}

func TestRegisterReplaces(t *testing.T) {
	c := New(0)
	c.Register("b", func(context.Context) error { return errors.New("down") })
	c.Register("a", func(context.Context) error { return nil })
	c.Register("b", func(context.Context) error { return nil })

	if names := c.Names(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v", names)
	}
	if !c.Readiness(context.Background()).Ready() {
		t.Error("replaced check still failing")
	}
}

func TestHandlers(t *testing.T) {
	c := New(time.Second)
	c.Register("cache", func(context.Context) error { return errors.New("unreachable") })

	w := httptest.NewRecorder()
	c.LivenessHandler()(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("liveness = %d", w.Code)
	}

	w = httptest.NewRecorder()
	c.ReadinessHandler()(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness = %d, want 503", w.Code)
	}
	var status Status
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.Checks["cache"].Message != "unreachable" {
		t.Errorf("body = %+v", status)
	}

	w = httptest.NewRecorder()
	c.ReadinessHandler()(w, httptest.NewRequest(http.MethodHead, "/readyz", nil))
	if w.Body.Len() != 0 {
		t.Error("HEAD response has a body")
	}
}
