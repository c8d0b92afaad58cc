package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thushan/ollafree/theme"
)

// PrettyStyledLogger implements StyledLogger with pterm formatting
type PrettyStyledLogger struct {
	logger *slog.Logger
	Theme  *theme.Theme
}

func NewPrettyStyledLogger(logger *slog.Logger, theme *theme.Theme) *PrettyStyledLogger {
	return &PrettyStyledLogger{
		logger: logger,
		Theme:  theme,
	}
}

func (sl *PrettyStyledLogger) Debug(msg string, args ...any) {
	sl.logger.Debug(msg, args...)
}

func (sl *PrettyStyledLogger) Info(msg string, args ...any) {
	sl.logger.Info(msg, args...)
}

func (sl *PrettyStyledLogger) Warn(msg string, args ...any) {
	sl.logger.Warn(msg, args...)
}

func (sl *PrettyStyledLogger) Error(msg string, args ...any) {
	sl.logger.Error(msg, args...)
}

func (sl *PrettyStyledLogger) InfoWithCount(msg string, count int, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Counts.Sprint("(", count, ")"))
	sl.logger.Info(styledMsg, args...)
}

func (sl *PrettyStyledLogger) InfoWithServer(msg string, address string, args ...any) {
	sl.logger.Info(plainWith(msg, sl.Theme.Server.Sprint(address)), args...)
}

func (sl *PrettyStyledLogger) WarnWithServer(msg string, address string, args ...any) {
	sl.logger.Warn(plainWith(msg, sl.Theme.Server.Sprint(address)), args...)
}

func (sl *PrettyStyledLogger) InfoWithModel(msg string, model string, args ...any) {
	sl.logger.Info(plainWith(msg, sl.Theme.Model.Sprint(model)), args...)
}

func (sl *PrettyStyledLogger) WarnWithContext(msg string, address string, ctx LogContext) {
	sl.logger.Warn(plainWith(msg, sl.Theme.Server.Sprint(address)), ctx.UserArgs...)

	if len(ctx.DetailedArgs) > 0 {
		detailedCtx := context.WithValue(context.Background(), DefaultDetailedCookie, true)
		sl.logger.WarnContext(detailedCtx, msg, detailedArgs(address, ctx)...)
	}
}

func (sl *PrettyStyledLogger) GetUnderlying() *slog.Logger {
	return sl.logger
}

func (sl *PrettyStyledLogger) With(args ...any) StyledLogger {
	return &PrettyStyledLogger{
		logger: sl.logger.With(args...),
		Theme:  sl.Theme,
	}
}
