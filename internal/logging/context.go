package logging

import "context"

type requestIDKey struct{}

// RequestIDKey is the attribute name under which the request id is logged.
const RequestIDKey = "request_id"

// WithRequestID returns a context whose log lines carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// withContextArgs appends the request id of ctx, if any, to args.
func withContextArgs(ctx context.Context, args []any) []any {
	id := RequestID(ctx)
	if id == "" {
		return args
	}
	return append(args[:len(args):len(args)], RequestIDKey, id)
}
