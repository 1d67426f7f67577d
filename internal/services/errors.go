package services

import "errors"

// ValidationError reports a caller-supplied argument that violates a service
// precondition (blank search term, malformed price range, negative
// threshold). It is always returned before any repository call is made, so
// the store is never reached for invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
// The HTTP layer uses it to map caller errors to 400 responses.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
