package service

import apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"

// Result is the uniform outcome of a user-initiated action. Failures carry a
// display message and optional per-field messages; Err keeps the cause for
// logging and metrics and is never rendered.
type Result struct {
	OK      bool
	Message string
	Fields  map[string]string
	Err     error
}

// Succeeded builds a successful Result.
func Succeeded(message string) Result {
	return Result{OK: true, Message: message}
}

// Failed builds a failed Result from err, using fallback when err carries no message.
func Failed(err error, fallback string) Result {
	return Result{
		Message: apperrors.UserMessage(err, fallback),
		Fields:  apperrors.FieldErrors(err),
		Err:     err,
	}
}

// FieldError returns the message for one field, or "".
func (r Result) FieldError(name string) string {
	return r.Fields[name]
}
