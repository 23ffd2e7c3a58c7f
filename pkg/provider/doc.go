// Package provider hands compiled templates to outbound email vendors.
//
// Every vendor adapter implements Gateway: Send, ListTemplates, SaveTemplate
// and DeleteTemplate. Adapters compile templates with package compiler and
// need nothing else from the editor. Available adapters:
//   - Postmark, backed by github.com/mrz1836/postmark
//   - Mailgun and SendGrid, talking to the vendor REST APIs
//   - Dev, writing messages to disk for local development
//
// A Registry maps vendor names to gateways and is usually built from
// environment configuration:
//
//	var cfg provider.Config
//	config.MustLoad(&cfg)
//	reg, err := provider.FromConfig(cfg, provider.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	gw, err := reg.Default()
//
// # Errors
//
// Failures are classified so callers can react to them:
//   - ErrInvalidParams: SendParams failed validation
//   - ErrTimeout: the call exceeded its deadline
//   - ErrTransport: the vendor could not be reached
//   - *APIError (matching ErrProviderAPI): the vendor rejected the call; the raw
//     vendor response is kept in APIError.Body
//
// # Asynchronous calls
//
// Go runs a call in its own goroutine and returns a Future, so an editing
// surface never blocks on vendor I/O:
//
//	f := provider.Go(ctx, func(ctx context.Context) (provider.SendResult, error) {
//		return gw.Send(ctx, tpl, params)
//	})
//	res, err := f.AwaitWithTimeout(10 * time.Second)
package provider
