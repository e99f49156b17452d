package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestBrewboxError_Error(t *testing.T) {
	originalErr := errors.New("original error message")
	bbErr := NewLaunchError("context", "cause", "suggestion", originalErr)

	if bbErr.Error() != originalErr.Error() {
		t.Errorf("BrewboxError.Error() = %q, want %q", bbErr.Error(), originalErr.Error())
	}
}

func TestBrewboxError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error message")
	bbErr := NewLaunchError("context", "cause", "suggestion", originalErr)

	if bbErr.Unwrap() != originalErr {
		t.Error("BrewboxError.Unwrap() should return the original error")
	}
	if !errors.Is(bbErr, originalErr) {
		t.Error("errors.Is should find the original error")
	}
}

func TestBrewboxError_IsKind(t *testing.T) {
	err := fmt.Errorf("stop failed: %w", NewLifecycleError("Failed to stop container", "", "", errors.New("no such container")))

	if !errors.Is(err, ErrLifecycleFailure) {
		t.Error("errors.Is should match the error kind through wrapping")
	}
	if errors.Is(err, ErrBuildFailure) {
		t.Error("errors.Is should not match a different kind")
	}
}

func TestBrewboxError_NilOriginal(t *testing.T) {
	err := NewRuntimeNotFoundError("No container engine (Docker or Podman) found", "", "", nil)

	if err.Error() != ErrRuntimeNotFound.Error() {
		t.Errorf("Error() = %q, want kind text %q", err.Error(), ErrRuntimeNotFound.Error())
	}
	if Message(err) != "No container engine (Docker or Podman) found" {
		t.Errorf("Message() = %q", Message(err))
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("plain failure"), "plain failure"},
		{"context and cause", NewBuildError("Failed to build image", "", "", errors.New("exit status 1")), "Failed to build image: exit status 1"},
		{"no context", NewLaunchError("", "", "", errors.New("no id")), "no id"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Message(test.err); got != test.expected {
				t.Errorf("Message() = %q, want %q", got, test.expected)
			}
		})
	}
}

func TestErrorConstructors(t *testing.T) {
	originalErr := errors.New("test error")

	tests := []struct {
		name         string
		constructor  func(string, string, string, error) *BrewboxError
		expectedType error
	}{
		{"NewRuntimeNotFoundError", NewRuntimeNotFoundError, ErrRuntimeNotFound},
		{"NewInvalidRequestError", NewInvalidRequestError, ErrInvalidRequest},
		{"NewBuildError", NewBuildError, ErrBuildFailure},
		{"NewLaunchError", NewLaunchError, ErrLaunchFailure},
		{"NewLifecycleError", NewLifecycleError, ErrLifecycleFailure},
		{"NewConfigError", NewConfigError, ErrConfigInvalid},
		{"NewNetworkError", NewNetworkError, ErrNetworkFailed},
		{"NewFileSystemError", NewFileSystemError, ErrFileSystemFailed},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.constructor("context", "cause", "suggestion", originalErr)

			if err.Type != test.expectedType {
				t.Errorf("%s created error with type %v, want %v", test.name, err.Type, test.expectedType)
			}
			if err.Context != "context" || err.Cause != "cause" || err.Suggestion != "suggestion" {
				t.Errorf("%s did not keep context/cause/suggestion: %+v", test.name, err)
			}
			if err.OriginalErr != originalErr {
				t.Errorf("%s created error with originalErr %v, want %v", test.name, err.OriginalErr, originalErr)
			}
		})
	}
}
