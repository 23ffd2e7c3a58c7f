package editor

import "errors"

var (
	ErrTemplateNotFound = errors.New("editor: template not found")
	ErrElementNotFound  = errors.New("editor: element not found")
	ErrNoCurrent        = errors.New("editor: no current template")
)
