package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group bundles attrs under name.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors returns an "errors" group with one entry per non-nil error, or an
// empty attr when there are none.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func TemplateID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("template_id", id)
}

func ElementID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("element_id", id)
}

func ElementType(t string) slog.Attr {
	return slog.String("element_type", t)
}

// Provider names the email service adapter handling a call.
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

func MessageID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("message_id", id)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

func Path(p string) slog.Attr {
	return slog.String("path", p)
}
