package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	cockroacherrors "github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	pmlerrors "github.com/OPpuolitaival/pandas-ml/pkg/errors"
)

// ComponentKey names the component field attached by GetLoggerWithName.
const ComponentKey = "component"

// ZerologProvider is a LoggerProvider backed by rs/zerolog.
type ZerologProvider struct {
	mu     sync.RWMutex
	level  Level
	writer io.Writer
}

// NewZerologProvider creates a provider emitting JSON log lines to stderr at
// the given minimum level. It also installs the structured warning sink so
// that pkg/errors.Warn emits zerolog events.
func NewZerologProvider(level Level) *ZerologProvider {
	return NewZerologProviderWithWriter(level, os.Stderr)
}

// NewZerologProviderWithWriter creates a provider writing to the given
// writer. Used by tests to capture output.
func NewZerologProviderWithWriter(level Level, w io.Writer) *ZerologProvider {
	p := &ZerologProvider{level: level, writer: w}

	warnLogger := p.GetLoggerWithName("warnings")
	pmlerrors.SetZerologWarnFunc(func(warning error) {
		warnLogger.Warn(warning.Error(), "warning", warning)
	})

	return p
}

// GetLogger returns the default logger instance.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()

	zl := zerolog.New(p.writer).Level(toZerologLevel(p.level)).With().Timestamp().Logger()
	return &zerologLogger{logger: zl, provider: p}
}

// GetLoggerWithName returns a logger tagged with a component name.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel sets the minimum log level for loggers created by this provider.
// Already-created loggers are unaffected.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// zerologLogger adapts zerolog.Logger to the Logger interface.
type zerologLogger struct {
	logger   zerolog.Logger
	provider *ZerologProvider
}

func (z *zerologLogger) Debug(msg string, fields ...any) {
	z.emit(z.logger.Debug(), msg, fields...)
}

func (z *zerologLogger) Info(msg string, fields ...any) {
	z.emit(z.logger.Info(), msg, fields...)
}

func (z *zerologLogger) Warn(msg string, fields ...any) {
	z.emit(z.logger.Warn(), msg, fields...)
}

func (z *zerologLogger) Error(msg string, fields ...any) {
	z.emit(z.logger.Error(), msg, fields...)
}

func (z *zerologLogger) With(fields ...any) Logger {
	ctx := z.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{logger: ctx.Logger(), provider: z.provider}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.logger.GetLevel()
}

// emit attaches the field pairs to the event. Errors get their message plus a
// stack trace when cockroachdb/errors recorded one; structured warning and
// error types marshal themselves as zerolog objects.
func (z *zerologLogger) emit(event *zerolog.Event, msg string, fields ...any) {
	if event == nil {
		return
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			event.Object(key, v)
		case error:
			event.Str(key, v.Error())
			if stack := extractStacktrace(v); stack != "" {
				event.Str(StacktraceKey, stack)
			}
		default:
			event.Interface(key, v)
		}
	}
	event.Msg(msg)
}

func extractStacktrace(err error) string {
	safeDetails := cockroacherrors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
