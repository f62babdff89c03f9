package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldProject is the key for the project name a run belongs to.
	FieldProject = "project"
	// FieldRunID is the key for the per-invocation run identifier.
	FieldRunID = "run_id"
	// FieldFile is the key for the file currently being inventoried or probed.
	FieldFile = "file"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to look at next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey int

const (
	projectKey contextKey = iota
	runIDKey
)

// WithProject returns a context carrying the project name.
func WithProject(ctx context.Context, project string) context.Context {
	return context.WithValue(ctx, projectKey, project)
}

// WithRunID returns a context carrying the run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if project, ok := ctx.Value(projectKey).(string); ok && project != "" {
		fields = append(fields, slog.String(FieldProject, project))
	}
	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, slog.String(FieldRunID, runID))
	}
	return fields
}

// WithContext returns logger annotated with the context's project and run ID.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
