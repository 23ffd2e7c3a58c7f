// Package httpserver runs the HTTP API with graceful shutdown on context
// cancellation or SIGINT/SIGTERM, and provides a JSON health probe handler.
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
package httpserver
