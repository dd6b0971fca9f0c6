package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// unknown level strings fall back to info in production
const defaultZapLevel = zapcore.InfoLevel

func toZapLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return defaultZapLevel
	}
}

func newConsoleCore(w io.Writer, level zapcore.Level) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	encoder := zapcore.NewConsoleEncoder(cfg)
	return zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(level))
}

func newZapLogger(levelStr string) *Logger {
	return newLoggerTo(os.Stdout, levelStr)
}

func newLoggerTo(w io.Writer, levelStr string) *Logger {
	core := newConsoleCore(w, toZapLevel(levelStr))
	return &Logger{SugaredLogger: zap.New(core, zap.AddCaller()).Sugar()}
}

// Printf lets the logger stand in for libraries that expect a printf-style sink.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.Infof(format, v...)
}
