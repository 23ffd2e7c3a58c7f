package export

import "errors"

var (
	ErrInvalidPath   = errors.New("export: invalid path")
	ErrInvalidConfig = errors.New("export: invalid storage configuration")
	ErrFileNotFound  = errors.New("export: file not found")
	ErrIsDirectory   = errors.New("export: path is a directory")

	ErrFailedToWriteFile       = errors.New("export: failed to write file")
	ErrFailedToReadFile        = errors.New("export: failed to read file")
	ErrFailedToDeleteFile      = errors.New("export: failed to delete file")
	ErrFailedToCreateDirectory = errors.New("export: failed to create directory")
	ErrFailedToLoadConfig      = errors.New("export: failed to load aws config")
	ErrFailedToEncode          = errors.New("export: failed to encode template")

	// S3 classification
	ErrBucketNotFound     = errors.New("export: bucket not found")
	ErrAccessDenied       = errors.New("export: access denied")
	ErrOperationTimeout   = errors.New("export: operation timed out")
	ErrOperationCanceled  = errors.New("export: operation canceled")
	ErrServiceUnavailable = errors.New("export: storage service temporarily unavailable")
)
