package errors

import "errors"

var (
	ErrRuntimeNotFound  = errors.New("no container engine found")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrBuildFailure     = errors.New("image build failed")
	ErrLaunchFailure    = errors.New("container launch failed")
	ErrLifecycleFailure = errors.New("container lifecycle operation failed")
	ErrConfigInvalid    = errors.New("configuration invalid")
	ErrNetworkFailed    = errors.New("network operation failed")
	ErrFileSystemFailed = errors.New("filesystem operation failed")
)

type BrewboxError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *BrewboxError) Error() string {
	if e.OriginalErr == nil {
		return e.Type.Error()
	}
	return e.OriginalErr.Error()
}

// Is reports whether target is the error's kind, so errors.Is(err, ErrBuildFailure) works
// without the kind being part of the wrapped chain.
func (e *BrewboxError) Is(target error) bool {
	return e.Type == target
}

func (e *BrewboxError) Unwrap() error {
	return e.OriginalErr
}

func NewBrewboxError(errorType error, context, cause, suggestion string, originalErr error) *BrewboxError {
	if originalErr == nil {
		originalErr = errorType
	}
	return &BrewboxError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewRuntimeNotFoundError(context, cause, suggestion string, originalErr error) *BrewboxError {
	return NewBrewboxError(ErrRuntimeNotFound, context, cause, suggestion, originalErr)
}

func NewInvalidRequestError(context, cause, suggestion string, originalErr error) *BrewboxError {
	return NewBrewboxError(ErrInvalidRequest, context, cause, suggestion, originalErr)
}

func NewBuildError(context, cause, suggestion string, originalErr error) *BrewboxError {
	return NewBrewboxError(ErrBuildFailure, context, cause, suggestion, originalErr)
}

func NewLaunchError(context, cause, suggestion string, originalErr error) *BrewboxError {
	return NewBrewboxError(ErrLaunchFailure, context, cause, suggestion, originalErr)
}

func NewLifecycleError(context, cause, suggestion string, originalErr error) *BrewboxError {
	return NewBrewboxError(ErrLifecycleFailure, context, cause, suggestion, originalErr)
}

func NewConfigError(context, cause, suggestion string, originalErr error) *BrewboxError {
	return NewBrewboxError(ErrConfigInvalid, context, cause, suggestion, originalErr)
}

func NewNetworkError(context, cause, suggestion string, originalErr error) *BrewboxError {
	return NewBrewboxError(ErrNetworkFailed, context, cause, suggestion, originalErr)
}

func NewFileSystemError(context, cause, suggestion string, originalErr error) *BrewboxError {
	return NewBrewboxError(ErrFileSystemFailed, context, cause, suggestion, originalErr)
}

// Kind returns the stable name of the error's kind, or "unknown".
func Kind(err error) string {
	return getErrorTypeName(err)
}

// Message returns the human-readable text delivered to clients for err.
// A BrewboxError with a Context reads "<context>: <original error>".
func Message(err error) string {
	if err == nil {
		return ""
	}
	var bbErr *BrewboxError
	if errors.As(err, &bbErr) && bbErr.Context != "" {
		if bbErr.OriginalErr == nil || bbErr.OriginalErr == bbErr.Type {
			return bbErr.Context
		}
		return bbErr.Context + ": " + bbErr.OriginalErr.Error()
	}
	return err.Error()
}
