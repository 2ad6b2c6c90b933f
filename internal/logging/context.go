package logging

import (
	"context"
	"maps"
)

type contextKey string

const contextFieldsKey contextKey = "translations.logging.fields"

// RequestIDField is the field name used for per-request correlation ids.
const RequestIDField = "request_id"

// ContextWithFields returns a context carrying fields that the console
// logger merges into every entry logged with that context.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}

	existing := ContextFields(ctx)
	merged := make(map[string]any, len(existing)+len(fields))
	maps.Copy(merged, existing)
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields returns a copy of the fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// RequestID returns the request id stored on ctx, if any.
func RequestID(ctx context.Context) string {
	fields := ContextFields(ctx)
	if fields == nil {
		return ""
	}
	id, _ := fields[RequestIDField].(string)
	return id
}
