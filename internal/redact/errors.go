package redact

import (
	"errors"
	"fmt"
)

// Sentinel conditions a redaction call can fail with. Callers match them via
// errors.Is; every failure is wrapped in *RedactionError so there is a single
// error surface.
var (
	ErrEncrypted      = errors.New("document is password protected")
	ErrNoPages        = errors.New("document has no pages")
	ErrPageOutOfRange = errors.New("selection page out of range")
)

// RedactionError wraps every failure of a redact call, including underlying
// parse and serialize errors of the PDF collaborator.
type RedactionError struct {
	Err error
}

func (e *RedactionError) Error() string { return "redact: " + e.Err.Error() }
func (e *RedactionError) Unwrap() error { return e.Err }

func redactionErr(err error) error {
	return &RedactionError{Err: err}
}

func redactionErrf(format string, args ...any) error {
	return &RedactionError{Err: fmt.Errorf(format, args...)}
}
