package cli

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("output", "unknown format")
	if got, want := err.Error(), "invalid output: unknown format"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCommandError(t *testing.T) {
	underlying := errors.New("connection refused")
	err := NewCommandError("lists", underlying)

	if got, want := err.Error(), "lists: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is() should see through CommandError")
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 1, Reason: "2 documents failed"}

	var exit *ExitError
	if !errors.As(err, &exit) || exit.Code != 1 {
		t.Errorf("errors.As() = %v", exit)
	}
}
