package logging

import (
	"log/slog"
	"strings"
)

func LevelFromString(str *string) slog.Level {
	return LevelFromStringOr(str, slog.LevelInfo)
}

// LevelFromStringOr parses a level name, falling back to def when str is
// nil or not a known level.
func LevelFromStringOr(str *string, def slog.Level) slog.Level {
	if str == nil {
		return def
	}
	switch strings.ToUpper(*str) {
	case slog.LevelDebug.String():
		return slog.LevelDebug
	case slog.LevelInfo.String():
		return slog.LevelInfo
	case slog.LevelWarn.String():
		return slog.LevelWarn
	case slog.LevelError.String():
		return slog.LevelError
	default:
		return def
	}
}
