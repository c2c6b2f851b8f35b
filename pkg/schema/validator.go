package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"friendsofmonika/masvalidator/pkg/position"
	"friendsofmonika/masvalidator/pkg/telemetry/metrics"
)

// Validation outcomes, as recorded in metrics.
const (
	OutcomeValid        = "valid"
	OutcomeSyntaxError  = "syntax_error"
	OutcomePrecondition = "precondition_error"
	OutcomeViolations   = "violations"
	OutcomeError        = "error"
)

// Validator checks raw sprite documents against the schema their "type"
// selects.
type Validator struct {
	registry *Registry
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewValidator creates a validator backed by registry.
func NewValidator(registry *Registry, collector *metrics.Collector, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		registry: registry,
		metrics:  collector,
		logger:   logger.With("component", "schema.validator"),
	}
}

// Validate parses raw, picks the schema variant, and validates the
// document. It returns the variant once it is known, and:
//
//   - nil when the document is valid
//   - *SyntaxError when raw is not JSON
//   - *PreconditionError when the variant cannot be determined
//   - *ViolationError when the document breaks its schema
//   - any other error when the schema could not be obtained
//
// Every failure is final; nothing is retried.
func (v *Validator) Validate(ctx context.Context, raw []byte) (Variant, error) {
	start := time.Now()
	variant, err := v.validate(ctx, raw)

	outcome := outcomeOf(err)
	label := string(variant)
	if label == "" {
		label = "unknown"
	}
	v.metrics.RecordValidation(outcome, label, time.Since(start))
	v.logger.Debug("document validated",
		"variant", variant,
		"outcome", outcome,
		"bytes", len(raw),
		"duration", time.Since(start),
	)
	return variant, err
}

func (v *Validator) validate(ctx context.Context, raw []byte) (Variant, error) {
	doc, err := Parse(raw)
	if err != nil {
		return "", err
	}

	variant, err := ResolveVariant(doc)
	if err != nil {
		return "", err
	}

	checker, err := v.registry.Get(ctx, variant)
	if err != nil {
		return variant, err
	}

	violations, err := checker.Check(doc)
	if err != nil {
		return variant, fmt.Errorf("run schema %s: %w", variant, err)
	}
	if len(violations) > 0 {
		return variant, &ViolationError{Variant: variant, Violations: violations}
	}
	return variant, nil
}

// Parse decodes a JSON document. Numbers are decoded as json.Number.
// Malformed input yields a *SyntaxError positioned at the offending
// character, or at the end of input when the document is truncated.
func Parse(raw []byte) (any, error) {
	var check json.RawMessage
	if err := json.Unmarshal(raw, &check); err != nil {
		return nil, translateSyntaxError(raw, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, translateSyntaxError(raw, err)
	}
	return doc, nil
}

func translateSyntaxError(raw []byte, err error) error {
	var se *json.SyntaxError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", ErrUntranslatable, err)
	}

	offset := int(se.Offset)
	if truncated(se) {
		offset = len(raw)
	} else if offset > 0 {
		// Offset counts the rejected character.
		offset--
	}

	pos := position.NewIndex(string(raw)).Position(offset)
	return &SyntaxError{
		Message: se.Error(),
		Line:    pos.Line,
		Column:  pos.Column,
		Offset:  pos.Offset,
	}
}

// truncated reports whether the parser ran out of input rather than
// rejecting a character.
func truncated(se *json.SyntaxError) bool {
	return se.Error() == "unexpected end of JSON input"
}

func outcomeOf(err error) string {
	var (
		syntaxErr       *SyntaxError
		preconditionErr *PreconditionError
		violationErr    *ViolationError
	)
	switch {
	case err == nil:
		return OutcomeValid
	case errors.As(err, &syntaxErr):
		return OutcomeSyntaxError
	case errors.As(err, &preconditionErr):
		return OutcomePrecondition
	case errors.As(err, &violationErr):
		return OutcomeViolations
	default:
		return OutcomeError
	}
}
