package editor

import "github.com/dmitrymomot/mailbuilder/pkg/document"

// EventKind classifies a store notification.
type EventKind string

const (
	// EventTemplateChanged is emitted after a template is created, imported or
	// modified. Event.Template holds the new state.
	EventTemplateChanged EventKind = "template.changed"
	// EventTemplateDeleted is emitted after a template is removed.
	EventTemplateDeleted EventKind = "template.deleted"
	// EventSelectionChanged is emitted when the current template, the selected
	// element or the dragging flag changes.
	EventSelectionChanged EventKind = "selection.changed"
)

// Event describes one applied command.
type Event struct {
	Kind       EventKind
	Command    string
	TemplateID string
	Template   document.Template
}

// Hook receives events after the command that produced them has been applied.
// Hooks run in command order on the goroutine that issued the command. They
// may read from the store but must not issue commands.
type Hook func(Event)
