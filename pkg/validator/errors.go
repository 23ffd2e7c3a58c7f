package validator

import "errors"

// ErrValidationFailed is the sentinel matched by errors.Is for any
// ValidationErrors value.
var ErrValidationFailed = errors.New("validation failed")
