// Package logger builds *slog.Logger values for the mailbuilder service and
// its libraries.
//
// New takes functional options (WithLevel, WithFormat, WithOutput, WithAttr,
// WithEnvironment). When values are registered through WithContextValue or
// WithContextExtractors, the chosen slog handler is wrapped with
// LogHandlerDecorator, which injects them into every record.
//
// attr.go holds constructors for the attribute keys used across the code base
// (template_id, element_id, provider, request_id, ...) so every component logs
// the same names.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "mailbuilder"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.InfoContext(ctx, "template compiled",
//	    logger.TemplateID(tpl.ID),
//	    logger.Duration(time.Since(start)),
//	)
//
// Libraries accept a nil *slog.Logger and fall back to Discard.
package logger
