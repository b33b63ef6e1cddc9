package mqtt

import (
	"context"
	"fmt"
	"log/slog"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// pahoLogger bridges paho's package level loggers to slog.
type pahoLogger struct {
	logger *slog.Logger
	level  slog.Level
}

func newPahoLogger(logger *slog.Logger, level slog.Level) *pahoLogger {
	return &pahoLogger{logger: logger, level: level}
}

func (l *pahoLogger) Println(v ...any) {
	l.logger.Log(context.Background(), l.level, fmt.Sprint(v...))
}

func (l *pahoLogger) Printf(format string, v ...any) {
	l.logger.Log(context.Background(), l.level, fmt.Sprintf(format, v...))
}

func installLoggers(logger *slog.Logger) {
	paho.CRITICAL = newPahoLogger(logger, slog.LevelError)
	paho.ERROR = newPahoLogger(logger, slog.LevelError)
	paho.WARN = newPahoLogger(logger, slog.LevelWarn)
}
