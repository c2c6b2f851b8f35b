package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"friendsofmonika/masvalidator/pkg/nickname"
	"friendsofmonika/masvalidator/pkg/schema"
)

// Nicknames is the nickname classifier the API serves.
type Nicknames interface {
	Rules(ctx context.Context) (*nickname.RuleSets, error)
	ClassifyWith(rs *nickname.RuleSets, name string, order ...nickname.Category) *nickname.Match
	Priority() []nickname.Category
}

// Documents validates sprite documents.
type Documents interface {
	Validate(ctx context.Context, raw []byte) (schema.Variant, error)
}

// maxNamesPerRequest bounds a classify batch.
const maxNamesPerRequest = 1000

// ClassifyRequest is the body of POST /v1/nicknames/classify. Either Name
// or Names is required. Priority overrides the configured category order.
type ClassifyRequest struct {
	Name     string   `json:"name,omitempty"`
	Names    []string `json:"names,omitempty"`
	Priority []string `json:"priority,omitempty"`
}

// ClassifyResponse lists one result per requested name, in request order.
type ClassifyResponse struct {
	Revision string           `json:"revision"`
	Priority []string         `json:"priority"`
	Results  []ClassifyResult `json:"results"`
}

// ClassifyResult is the classification of one name. Category and Pattern
// are empty when no list matched.
type ClassifyResult struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
}

// ListsResponse is the body of GET /v1/nicknames/lists.
type ListsResponse struct {
	Revision string          `json:"revision"`
	Lists    nickname.Lists  `json:"lists"`
	Counts   map[string]int  `json:"counts"`
	Skipped  []SkippedDetail `json:"skipped,omitempty"`
}

// SkippedDetail describes a list entry that could not be compiled.
type SkippedDetail struct {
	List    string `json:"list"`
	Pattern string `json:"pattern"`
	Error   string `json:"error"`
}

type handlers struct {
	nicknames    Nicknames
	documents    Documents
	maxBodyBytes int64
}

func (h *handlers) classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	names := req.Names
	if req.Name != "" {
		names = append([]string{req.Name}, names...)
	}
	if len(names) == 0 {
		writeError(w, http.StatusBadRequest, errorTypeInvalidRequest, `"name" or "names" is required`)
		return
	}
	if len(names) > maxNamesPerRequest {
		writeError(w, http.StatusBadRequest, errorTypeInvalidRequest,
			fmt.Sprintf("at most %d names per request", maxNamesPerRequest))
		return
	}

	priority := h.nicknames.Priority()
	if len(req.Priority) > 0 {
		priority = make([]nickname.Category, 0, len(req.Priority))
		for _, p := range req.Priority {
			c, err := nickname.ParseCategory(p)
			if err != nil {
				writeError(w, http.StatusBadRequest, errorTypeInvalidRequest, err.Error())
				return
			}
			priority = append(priority, c)
		}
	}

	rs, err := h.nicknames.Rules(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, errorTypeUpstream, err.Error())
		return
	}

	resp := ClassifyResponse{
		Revision: rs.Revision,
		Priority: categoryNames(priority),
		Results:  make([]ClassifyResult, 0, len(names)),
	}

	for _, name := range names {
		m := h.nicknames.ClassifyWith(rs, name, priority...)
		result := ClassifyResult{Name: name}
		if m != nil {
			result.Category = string(m.Category)
			result.Pattern = m.Source()
		}
		resp.Results = append(resp.Results, result)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) lists(w http.ResponseWriter, r *http.Request) {
	rs, err := h.nicknames.Rules(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, errorTypeUpstream, err.Error())
		return
	}

	resp := ListsResponse{Revision: rs.Revision, Lists: rs.Lists, Counts: rs.PatternCounts()}
	for _, pe := range rs.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedDetail{List: pe.List, Pattern: pe.Pattern, Error: pe.Err.Error()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) validate(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errorTypeTooLarge,
				fmt.Sprintf("document exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, errorTypeInvalidRequest, err.Error())
		return
	}

	variant, err := h.documents.Validate(r.Context(), raw)
	report := schema.NewReport(raw, variant, err)

	switch report.Outcome {
	case schema.OutcomeValid:
		writeJSON(w, http.StatusOK, report)
	case schema.OutcomeError:
		status := http.StatusBadGateway
		if errors.Is(err, schema.ErrUntranslatable) {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, report)
	default:
		writeJSON(w, http.StatusUnprocessableEntity, report)
	}
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, errorTypeNotFound, fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
}

// decode reads a JSON request body into v. It writes the error response
// and returns false on failure.
func (h *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errorTypeTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, errorTypeInvalidRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func categoryNames(cs []nickname.Category) []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = string(c)
	}
	return names
}
