package importer

import "errors"

var (
	// ErrInvalidTemplate is reported for every rejected import. Field level
	// detail is attached as validator.ValidationErrors when available.
	ErrInvalidTemplate = errors.New("invalid template format")

	ErrPayloadTooLarge = errors.New("importer: payload too large")
)
