package schema

import (
	"errors"

	"friendsofmonika/masvalidator/pkg/position"
)

// Report is the presentable result of validating one document.
type Report struct {
	Document string  `json:"document,omitempty"`
	Valid    bool    `json:"valid"`
	Outcome  string  `json:"outcome"`
	Variant  Variant `json:"variant,omitempty"`
	Message  string  `json:"message,omitempty"`

	// Reason is set for precondition failures.
	Reason string `json:"reason,omitempty"`

	// Position is set for syntax errors.
	Position *position.Position `json:"position,omitempty"`

	Violations []LocatedViolation `json:"violations,omitempty"`
}

// NewReport describes the result of Validate for raw.
func NewReport(raw []byte, variant Variant, err error) Report {
	r := Report{Valid: err == nil, Outcome: outcomeOf(err), Variant: variant}
	if err == nil {
		return r
	}
	r.Message = err.Error()

	var (
		syntaxErr       *SyntaxError
		preconditionErr *PreconditionError
		violationErr    *ViolationError
	)
	switch {
	case errors.As(err, &syntaxErr):
		r.Message = syntaxErr.Message
		r.Position = &position.Position{Offset: syntaxErr.Offset, Line: syntaxErr.Line, Column: syntaxErr.Column}
	case errors.As(err, &preconditionErr):
		r.Reason = preconditionErr.Reason
	case errors.As(err, &violationErr):
		r.Message = "JSON file violates the schema"
		r.Violations = Locate(raw, violationErr.Violations)
	}
	return r
}
