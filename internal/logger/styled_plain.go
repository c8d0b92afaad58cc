package logger

import (
	"context"
	"log/slog"
)

// PlainStyledLogger implements StyledLogger without formatting
type PlainStyledLogger struct {
	logger *slog.Logger
}

func NewPlainStyledLogger(logger *slog.Logger) *PlainStyledLogger {
	return &PlainStyledLogger{
		logger: logger,
	}
}

func (sl *PlainStyledLogger) Debug(msg string, args ...any) {
	sl.logger.Debug(msg, args...)
}

func (sl *PlainStyledLogger) Info(msg string, args ...any) {
	sl.logger.Info(msg, args...)
}

func (sl *PlainStyledLogger) Warn(msg string, args ...any) {
	sl.logger.Warn(msg, args...)
}

func (sl *PlainStyledLogger) Error(msg string, args ...any) {
	sl.logger.Error(msg, args...)
}

func (sl *PlainStyledLogger) InfoWithCount(msg string, count int, args ...any) {
	sl.logger.Info(msg, append([]any{"count", count}, args...)...)
}

func (sl *PlainStyledLogger) InfoWithServer(msg string, address string, args ...any) {
	sl.logger.Info(plainWith(msg, address), args...)
}

func (sl *PlainStyledLogger) WarnWithServer(msg string, address string, args ...any) {
	sl.logger.Warn(plainWith(msg, address), args...)
}

func (sl *PlainStyledLogger) InfoWithModel(msg string, model string, args ...any) {
	sl.logger.Info(plainWith(msg, model), args...)
}

func (sl *PlainStyledLogger) WarnWithContext(msg string, address string, ctx LogContext) {
	sl.logger.Warn(plainWith(msg, address), ctx.UserArgs...)

	if len(ctx.DetailedArgs) > 0 {
		detailedCtx := context.WithValue(context.Background(), DefaultDetailedCookie, true)
		sl.logger.WarnContext(detailedCtx, msg, detailedArgs(address, ctx)...)
	}
}

func (sl *PlainStyledLogger) GetUnderlying() *slog.Logger {
	return sl.logger
}

func (sl *PlainStyledLogger) With(args ...any) StyledLogger {
	return &PlainStyledLogger{
		logger: sl.logger.With(args...),
	}
}
