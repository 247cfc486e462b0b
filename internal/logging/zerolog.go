package logging

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
// The variadic key-value args are attached as string-rendered fields.
type ZerologLogger struct {
	l zerolog.Logger
}

func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

func appendFields(e *zerolog.Event, args []any) *zerolog.Event {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		e = e.Interface(key, args[i+1])
	}
	return e
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	appendFields(z.l.Debug(), args).Msg(msg)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	appendFields(z.l.Info(), args).Msg(msg)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	appendFields(z.l.Warn(), args).Msg(msg)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	appendFields(z.l.Error(), args).Msg(msg)
}

func (z *ZerologLogger) With(args ...any) Logger {
	c := z.l.With()
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		c = c.Interface(key, args[i+1])
	}
	return &ZerologLogger{l: c.Logger()}
}
