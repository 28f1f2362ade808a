package core

import "context"

// Context keys for sweep options
type contextKey string

const (
	suppressOutputKey contextKey = "suppressOutput"
	runUUIDKey        contextKey = "runUUID"
)

// withSuppressOutput marks that progress and the report must not reach stdout.
func withSuppressOutput(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressOutputKey, true)
}

// shouldSuppressOutput returns whether console output is suppressed from context
func shouldSuppressOutput(ctx context.Context) bool {
	val := ctx.Value(suppressOutputKey)
	if val == nil {
		return false // default: print progress and report
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withRunUUID stores the sweep's UUID in the context.
func withRunUUID(ctx context.Context, runUUID string) context.Context {
	return context.WithValue(ctx, runUUIDKey, runUUID)
}

// getRunUUID retrieves the sweep's UUID from context
func getRunUUID(ctx context.Context) (string, bool) {
	val := ctx.Value(runUUIDKey)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok
}
