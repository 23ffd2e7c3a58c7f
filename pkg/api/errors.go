package api

import "errors"

var (
	ErrBadRequest        = errors.New("api: malformed request body")
	ErrExportDisabled    = errors.New("api: export storage is not configured")
	ErrUnsupportedFormat = errors.New("api: unsupported download format")
)
