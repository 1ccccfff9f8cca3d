package logging

import "context"

type correlationKey struct{}

// WithCorrelationID stores a request correlation id in ctx. Loggers append it
// to every entry written with that context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id stored by WithCorrelationID, if any.
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

func withCorrelation(ctx context.Context, args []any) []any {
	id := CorrelationID(ctx)
	if id == "" {
		return args
	}
	out := make([]any, 0, len(args)+2)
	out = append(out, args...)
	return append(out, "correlation_id", id)
}
