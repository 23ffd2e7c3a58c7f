package provider

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/logger"
)

// logged decorates a Gateway with start/finish logging.
type logged struct {
	next Gateway
	log  *slog.Logger
}

func withLogging(g Gateway, log *slog.Logger) Gateway {
	if _, ok := g.(*logged); ok {
		return g
	}
	return &logged{next: g, log: log.With(logger.Provider(g.Name()))}
}

func (l *logged) Name() string { return l.next.Name() }

func (l *logged) Send(ctx context.Context, tpl document.Template, params SendParams) (SendResult, error) {
	done := l.start(ctx, "send", logger.TemplateID(tpl.ID))
	res, err := l.next.Send(ctx, tpl, params)
	done(err, logger.MessageID(res.MessageID))
	return res, err
}

func (l *logged) ListTemplates(ctx context.Context) ([]RemoteTemplate, error) {
	done := l.start(ctx, "list_templates")
	res, err := l.next.ListTemplates(ctx)
	done(err, slog.Int("count", len(res)))
	return res, err
}

func (l *logged) SaveTemplate(ctx context.Context, tpl document.Template) (RemoteTemplate, error) {
	done := l.start(ctx, "save_template", logger.TemplateID(tpl.ID))
	res, err := l.next.SaveTemplate(ctx, tpl)
	done(err, slog.String("remote_id", res.ID))
	return res, err
}

func (l *logged) DeleteTemplate(ctx context.Context, id string) error {
	done := l.start(ctx, "delete_template", slog.String("remote_id", id))
	err := l.next.DeleteTemplate(ctx, id)
	done(err)
	return err
}

func (l *logged) start(ctx context.Context, op string, attrs ...slog.Attr) func(error, ...slog.Attr) {
	begin := time.Now()
	log := l.log.With(slog.String("operation", op))
	log.LogAttrs(ctx, slog.LevelInfo, "provider call started", attrs...)

	return func(err error, more ...slog.Attr) {
		out := append(slices.Clone(attrs), logger.Duration(time.Since(begin)))
		if err != nil {
			log.LogAttrs(ctx, slog.LevelError, "provider call failed", append(out, logger.Error(err))...)
			return
		}
		log.LogAttrs(ctx, slog.LevelInfo, "provider call finished", append(out, more...)...)
	}
}
