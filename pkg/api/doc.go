// Package api exposes the editor store, the exporter and the provider
// registry over HTTP.
//
// Every JSON endpoint answers with an envelope:
//
//	{"data": ..., "error": {"code": "...", "message": "...", "details": {...}}}
//
// Store commands that reference a missing template or element are not
// failures; they answer 200 with {"applied": false}. Queries for missing data
// answer 404. Validation failures answer 422 with field level details.
// Provider failures never touch store state: transport errors answer 502,
// timeouts 504 and vendor API errors 502 with the vendor response attached.
//
// Store changes are streamed to clients as Server-Sent Events on
// GET /api/events once Events.Publish is registered as an editor hook:
//
//	events := api.NewEvents(16)
//	store := editor.New(editor.WithHook(events.Publish))
//	srv := api.New(store, api.WithEvents(events))
//	http.ListenAndServe(":8080", srv.Router())
package api
