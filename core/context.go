package core

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Context keys for query options
type contextKey string

const (
	loggerKey     contextKey = "logger"
	analysisIDKey contextKey = "analysisID"
)

// WithLogger attaches the process logger to the context.
func WithLogger(ctx context.Context, logger *logrus.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// loggerFromContext returns the attached logger, or the logrus standard logger.
func loggerFromContext(ctx context.Context) *logrus.Logger {
	if logger, ok := ctx.Value(loggerKey).(*logrus.Logger); ok && logger != nil {
		return logger
	}
	return logrus.StandardLogger()
}

// withAnalysisID records the tracked run of the current query.
func withAnalysisID(ctx context.Context, analysisID int64) context.Context {
	return context.WithValue(ctx, analysisIDKey, analysisID)
}

// analysisIDFromContext returns the tracked run ID, or 0 when the query is untracked.
func analysisIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(analysisIDKey).(int64)
	return id
}
