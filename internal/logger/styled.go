package logger

import (
	"fmt"
	"log/slog"
)

// StyledLogger is what the rest of the code logs through. The pretty variant
// colours servers, models and counts for the terminal; the plain variant
// writes the same messages unstyled.
type StyledLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	InfoWithCount(msg string, count int, args ...any)
	InfoWithServer(msg string, address string, args ...any)
	WarnWithServer(msg string, address string, args ...any)
	InfoWithModel(msg string, model string, args ...any)

	// WarnWithContext writes UserArgs to the terminal and UserArgs plus
	// DetailedArgs to the log file, when file output is enabled.
	WarnWithContext(msg string, address string, ctx LogContext)

	GetUnderlying() *slog.Logger
	With(args ...any) StyledLogger
}

// LogContext separates user-facing from detailed logging context
type LogContext struct {
	UserArgs     []any
	DetailedArgs []any
}

func detailedArgs(address string, ctx LogContext) []any {
	allArgs := make([]any, 0, len(ctx.UserArgs)+len(ctx.DetailedArgs)+2)
	allArgs = append(allArgs, "server", address)
	allArgs = append(allArgs, ctx.UserArgs...)
	allArgs = append(allArgs, ctx.DetailedArgs...)
	return allArgs
}

func plainWith(msg, subject string) string {
	return fmt.Sprintf("%s %s", msg, subject)
}
