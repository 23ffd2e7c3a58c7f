package provider

import "errors"

var (
	ErrProviderNotFound = errors.New("provider.errors.not_found")
	ErrInvalidConfig    = errors.New("provider.errors.invalid_config")
	ErrInvalidParams    = errors.New("provider.errors.invalid_params")
	ErrTransport        = errors.New("provider.errors.transport")
	ErrTimeout          = errors.New("provider.errors.timeout")
	ErrProviderAPI      = errors.New("provider.errors.api")
	ErrTemplateNotFound = errors.New("provider.errors.template_not_found")
)
