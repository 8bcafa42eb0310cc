package upload

import "errors"

var ErrSubmitInProgress = errors.New("upload already in progress")

// ValidationError names the first required field that was missing.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
