package log

import (
	"context"
	"sync"

	"github.com/goalkeep/goalkeep/internal/contexts"
)

// Hook derives extra fields from the context of a log call.
type Hook interface {
	Apply(ctx context.Context, msg string) []Field
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, msg string) []Field

func (f HookFunc) Apply(ctx context.Context, msg string) []Field {
	return f(ctx, msg)
}

var (
	hooksMu    sync.RWMutex
	hooksSlice = []Hook{HookFunc(contextFields)}
)

// RegisterHook appends a hook applied to every log call.
func RegisterHook(hook Hook) {
	hooksMu.Lock()
	defer hooksMu.Unlock()

	hooksSlice = append(hooksSlice, hook)
}

func hooks() []Hook {
	hooksMu.RLock()
	defer hooksMu.RUnlock()

	return hooksSlice
}

// contextFields surfaces trace id and operation name when present.
func contextFields(ctx context.Context, _ string) []Field {
	if ctx == nil {
		return nil
	}

	var fields []Field

	if traceID, ok := contexts.GetTraceID(ctx); ok {
		fields = append(fields, String("trace_id", traceID))
	}

	if name, ok := contexts.GetOperationName(ctx); ok {
		fields = append(fields, String("operation_name", name))
	}

	return fields
}
