// Package logging provides structured logging on top of log/slog.
//
// The logger supports JSON, text and console formats, a runtime-adjustable
// level, and context-aware records: a request ID or document name stored in
// a context.Context is attached to every record logged with that context.
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ctx := logging.WithRequestID(context.Background(), "req-123")
//	logger.Slog().InfoContext(ctx, "document validated", "variant", "hair")
package logging
