package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"friendsofmonika/masvalidator/pkg/config"
)

func testCollector(enabled bool) *Collector {
	return NewCollector(&config.MetricsConfig{Enabled: enabled, Namespace: "test"}, prometheus.NewRegistry())
}

func TestCollector_RecordClassification(t *testing.T) {
	c := testCollector(true)

	c.RecordClassification("bad")
	c.RecordClassification("bad")
	c.RecordClassification("none")

	if got := testutil.ToFloat64(c.classifications.WithLabelValues("bad")); got != 2 {
		t.Errorf("expected 2 bad classifications, got %v", got)
	}
	if got := testutil.ToFloat64(c.classifications.WithLabelValues("none")); got != 1 {
		t.Errorf("expected 1 none classification, got %v", got)
	}
}

func TestCollector_RecordRuleBuild(t *testing.T) {
	c := testCollector(true)

	c.RecordRuleBuild(nil, map[string]int{"bad": 12, "awkward": 3})
	c.RecordRuleBuild(errors.New("fetch failed"), nil)

	if got := testutil.ToFloat64(c.rulePatterns.WithLabelValues("bad")); got != 12 {
		t.Errorf("expected 12 bad patterns, got %v", got)
	}
	if got := testutil.ToFloat64(c.ruleBuilds.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed build, got %v", got)
	}
}

func TestCollector_RecordValidationAndCompile(t *testing.T) {
	c := testCollector(true)

	c.RecordValidation("violations", "hair", 3*time.Millisecond)
	c.RecordSchemaCompile("hair", nil)
	c.RecordSchemaCompile("hair", errors.New("bad schema"))

	if got := testutil.ToFloat64(c.validations.WithLabelValues("violations", "hair")); got != 1 {
		t.Errorf("expected 1 validation, got %v", got)
	}
	if got := testutil.ToFloat64(c.schemaCompiles.WithLabelValues("hair", "error")); got != 1 {
		t.Errorf("expected 1 failed compile, got %v", got)
	}
}

func TestCollector_FetchAndCache(t *testing.T) {
	c := testCollector(true)

	c.RecordFetch("http", nil)
	c.RecordCacheLookup("definitions", true)
	c.RecordCacheLookup("definitions", false)
	c.RecordCacheLookup("definitions", false)

	if got := testutil.ToFloat64(c.fetches.WithLabelValues("http", "success")); got != 1 {
		t.Errorf("expected 1 fetch, got %v", got)
	}
	if got := testutil.ToFloat64(c.cacheMisses.WithLabelValues("definitions")); got != 2 {
		t.Errorf("expected 2 misses, got %v", got)
	}
}

func TestCollector_DisabledAndNil(t *testing.T) {
	c := testCollector(false)
	c.RecordClassification("bad")
	if got := testutil.ToFloat64(c.classifications.WithLabelValues("bad")); got != 0 {
		t.Errorf("disabled collector should not record, got %v", got)
	}

	var nilCollector *Collector
	nilCollector.RecordClassification("bad")
	nilCollector.RecordValidation("valid", "hair", time.Millisecond)
}

func TestCollector_Handler(t *testing.T) {
	c := testCollector(true)
	c.RecordClassification("awkward")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_nickname_classifications_total") {
		t.Error("expected classification metric in exposition")
	}
}

func TestCollector_HandlerDisabled(t *testing.T) {
	if h := testCollector(false).Handler(); h != nil {
		t.Error("disabled collector returned a handler")
	}
	var nilCollector *Collector
	if h := nilCollector.Handler(); h != nil {
		t.Error("nil collector returned a handler")
	}
}
