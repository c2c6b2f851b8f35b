package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Violation is one record of the validation engine's basic output:
// keywordLocation, absoluteKeywordLocation, instanceLocation and error.
type Violation = jsonschema.BasicError

// Checker is a compiled schema.
type Checker interface {
	// Check validates a decoded document and returns its violations, or
	// nil when the document is valid. An error means validation could
	// not run.
	Check(doc any) ([]Violation, error)
}

// Compiler turns schema document text into a Checker.
type Compiler interface {
	Compile(ctx context.Context, name, text string, load Loader) (Checker, error)
}

// Loader fetches schema documents referenced by name from the schema
// being compiled.
type Loader func(ctx context.Context, name string) (string, error)

// resourceBase is the URL space schema documents are registered under, so
// relative $refs between them resolve to other document names.
const resourceBase = "https://schemas.masvalidator.invalid/"

// JSONSchemaCompiler compiles JSON Schema documents with
// santhosh-tekuri/jsonschema.
type JSONSchemaCompiler struct {
	// AssertFormat enables "format" assertions.
	AssertFormat bool
}

// Compile implements Compiler.
func (c JSONSchemaCompiler) Compile(ctx context.Context, name, text string, load Loader) (Checker, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = c.AssertFormat
	compiler.LoadURL = func(url string) (io.ReadCloser, error) {
		ref, ok := strings.CutPrefix(url, resourceBase)
		if !ok || load == nil {
			return nil, fmt.Errorf("schema reference %q is outside the schema repository", url)
		}
		text, err := load(ctx, ref)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(strings.NewReader(text)), nil
	}

	url := resourceBase + name
	if err := compiler.AddResource(url, strings.NewReader(text)); err != nil {
		return nil, err
	}

	s, err := compiler.Compile(url)
	if err != nil {
		return nil, err
	}
	return jsonSchemaChecker{schema: s}, nil
}

type jsonSchemaChecker struct {
	schema *jsonschema.Schema
}

func (c jsonSchemaChecker) Check(doc any) ([]Violation, error) {
	err := c.schema.Validate(doc)
	if err == nil {
		return nil, nil
	}

	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		return ve.BasicOutput().Errors, nil
	}
	return nil, err
}
