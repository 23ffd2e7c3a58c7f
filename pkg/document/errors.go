package document

import "errors"

var (
	ErrUnknownType     = errors.New("document: unknown element type")
	ErrInvalidContent  = errors.New("document: invalid element content")
	ErrInvalidStyles   = errors.New("document: invalid element styles")
	ErrContentMismatch = errors.New("document: content does not match element type")
)
