package schema

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"friendsofmonika/masvalidator/pkg/config"
	"friendsofmonika/masvalidator/pkg/telemetry/metrics"
)

func TestParse_SyntaxErrorPosition(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantLine   int
		wantColumn int
	}{
		{
			name:       "trailing comma",
			raw:        "{\n  \"type\": 1,\n  \"id\": \"ponytail\",\n}",
			wantLine:   3,
			wantColumn: 0,
		},
		{
			name:       "trailing comma on one line",
			raw:        `{"type": 1,}`,
			wantLine:   0,
			wantColumn: 11,
		},
		{
			name:       "missing colon",
			raw:        "{\n\t\"type\" 1\n}",
			wantLine:   1,
			wantColumn: 8,
		},
		{
			name:       "truncated",
			raw:        `{"type": 1`,
			wantLine:   0,
			wantColumn: 10,
		},
		{
			name:       "empty",
			raw:        ``,
			wantLine:   0,
			wantColumn: 0,
		},
		{
			name:       "multibyte before defect",
			raw:        `{"id": "ëë" x}`,
			wantLine:   0,
			wantColumn: 12,
		},
		{
			name:       "trailing data",
			raw:        "{}\n]",
			wantLine:   1,
			wantColumn: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Parse() error = %v, want *SyntaxError", err)
			}
			if se.Line != tt.wantLine || se.Column != tt.wantColumn {
				t.Errorf("position = %d:%d, want %d:%d (%s)", se.Line, se.Column, tt.wantLine, tt.wantColumn, se.Message)
			}
			if se.Message == "" {
				t.Error("Message is empty")
			}
		})
	}
}

func TestSyntaxError_ErrorIsOneBased(t *testing.T) {
	err := &SyntaxError{Message: "bad", Line: 0, Column: 4}
	if got := err.Error(); !strings.HasSuffix(got, "line 1 column 5") {
		t.Errorf("Error() = %q", got)
	}
}

func TestParse_NumbersKeepPrecision(t *testing.T) {
	doc, err := Parse([]byte(`{"type": 1, "big": 12345678901234567890}`))
	if err != nil {
		t.Fatal(err)
	}
	big, ok := doc.(map[string]any)["big"].(json.Number)
	if !ok || big.String() != "12345678901234567890" {
		t.Errorf("big = %#v", doc.(map[string]any)["big"])
	}
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantVariant Variant
		check       func(t *testing.T, err error)
	}{
		{
			name:        "valid hair",
			raw:         `{"type": 1, "id": "ponytail", "unlock": true}`,
			wantVariant: VariantHair,
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Errorf("error = %v, want nil", err)
				}
			},
		},
		{
			name:        "valid split accessory",
			raw:         `{"type": 0, "id": "ribbon", "arm_split": "both"}`,
			wantVariant: VariantAccessorySplit,
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Errorf("error = %v, want nil", err)
				}
			},
		},
		{
			name:        "missing required field",
			raw:         `{"type": 1}`,
			wantVariant: VariantHair,
			check: func(t *testing.T, err error) {
				var ve *ViolationError
				if !errors.As(err, &ve) {
					t.Fatalf("error = %v, want *ViolationError", err)
				}
				if ve.Variant != VariantHair {
					t.Errorf("Variant = %q", ve.Variant)
				}
				if !hasKeyword(ve.Violations, "/required") {
					t.Errorf("no required violation in %+v", ve.Violations)
				}
			},
		},
		{
			name:        "referenced definition",
			raw:         `{"type": 2, "id": "Not-Valid"}`,
			wantVariant: VariantClothes,
			check: func(t *testing.T, err error) {
				var ve *ViolationError
				if !errors.As(err, &ve) {
					t.Fatalf("error = %v, want *ViolationError", err)
				}
				if !hasInstance(ve.Violations, "/id") {
					t.Errorf("no violation at /id in %+v", ve.Violations)
				}
			},
		},
		{
			name: "syntax error",
			raw:  `{"type": 1,}`,
			check: func(t *testing.T, err error) {
				var se *SyntaxError
				if !errors.As(err, &se) {
					t.Errorf("error = %v, want *SyntaxError", err)
				}
			},
		},
		{
			name: "precondition",
			raw:  `{"type": 7}`,
			check: func(t *testing.T, err error) {
				var pe *PreconditionError
				if !errors.As(err, &pe) || pe.Reason != ReasonUnknownType {
					t.Errorf("error = %v, want unknown_type precondition", err)
				}
			},
		},
		{
			name: "overflowing type is a number",
			raw:  `{"type": 1e400}`,
			check: func(t *testing.T, err error) {
				var pe *PreconditionError
				if !errors.As(err, &pe) || pe.Reason != ReasonUnknownType {
					t.Errorf("error = %v, want unknown_type precondition", err)
				}
			},
		},
	}

	v, _ := newTestValidator(newDirFetcher())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variant, err := v.Validate(context.Background(), []byte(tt.raw))
			if variant != tt.wantVariant {
				t.Errorf("variant = %q, want %q", variant, tt.wantVariant)
			}
			tt.check(t, err)
		})
	}
}

func TestValidator_PreconditionSkipsFetch(t *testing.T) {
	f := newDirFetcher()
	v, _ := newTestValidator(f)

	for _, raw := range []string{`[]`, `{}`, `{"type": "0"}`, `{"type": 3}`} {
		if _, err := v.Validate(context.Background(), []byte(raw)); err == nil {
			t.Errorf("Validate(%s) succeeded", raw)
		}
	}
	for _, name := range DefaultFiles() {
		if n := f.count(name); n != 0 {
			t.Errorf("%s fetched %d times", name, n)
		}
	}
}

func TestValidator_RecordsOutcomes(t *testing.T) {
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "test"}, prometheus.NewRegistry())

	r := newTestRegistry(newDirFetcher())
	v := NewValidator(r, collector, nil)
	ctx := context.Background()

	_, _ = v.Validate(ctx, []byte(`{"type": 1, "id": "a"}`))
	_, _ = v.Validate(ctx, []byte(`{"type": 1}`))
	_, _ = v.Validate(ctx, []byte(`{`))

	n, err := testutil.GatherAndCount(collector.Registry(), "test_document_validations_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("validation series = %d, want 3", n)
	}
}

func hasKeyword(vs []Violation, suffix string) bool {
	for _, v := range vs {
		if strings.HasSuffix(v.KeywordLocation, suffix) {
			return true
		}
	}
	return false
}

func hasInstance(vs []Violation, loc string) bool {
	for _, v := range vs {
		if v.InstanceLocation == loc {
			return true
		}
	}
	return false
}
