package contexts

import (
	"context"
)

// WithTraceID stores the trace id in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	container := getContainer(ctx)
	container.TraceID = &traceID

	return withContainer(ctx, container)
}

// GetTraceID retrieves the trace id from the context.
func GetTraceID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.TraceID != nil {
		return *container.TraceID, true
	}

	return "", false
}

// WithOperationName stores the operation name in the context.
func WithOperationName(ctx context.Context, name string) context.Context {
	container := getContainer(ctx)
	container.OperationName = &name

	return withContainer(ctx, container)
}

// GetOperationName retrieves the operation name from the context.
func GetOperationName(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.OperationName != nil {
		return *container.OperationName, true
	}

	return "", false
}

// WithRequesterID stores the authenticated requester's user id in the context.
func WithRequesterID(ctx context.Context, userID string) context.Context {
	container := getContainer(ctx)
	container.RequesterID = &userID

	return withContainer(ctx, container)
}

// GetRequesterID retrieves the authenticated requester's user id from the context.
func GetRequesterID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.RequesterID != nil {
		return *container.RequesterID, true
	}

	return "", false
}
