package log

import (
	"context"
)

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogTransactionUpserted logs a successful transaction upsert
func (sl *StructuredLogger) LogTransactionUpserted(ctx context.Context, id string, amountCents int64, txType, category string, year, month int) {
	fields := NewFields().
		WithTransaction(id, amountCents, txType, category).
		WithMonth(year, month).
		WithOperation(OpUpsert)

	sl.logger.InfoContext(ctx, "Transaction upserted", fields.ToSlice()...)
}

// LogError logs an error with structured context. The component overrides
// the logger's own when the failure belongs to a collaborator.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
