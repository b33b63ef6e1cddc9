package www

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/icodeforyou/elpris-go/database"
	"github.com/icodeforyou/elpris-go/logging"
	"github.com/icodeforyou/elpris-go/slice"
)

type LogReader interface {
	GetLogEntries(ctx context.Context, minLvl slog.Level, page, pageSize int) ([]database.LogEntryRow, error)
}

type logEntryJSON struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Attrs     string    `json:"attrs,omitempty"`
}

// NewLogHandler pages through the log table, newest first.
func NewLogHandler(logger *slog.Logger, db LogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var level *string
		if v := r.URL.Query().Get("level"); v != "" {
			level = &v
		}
		page := intOrDefault(r.URL, "page", 1)
		size := min(intOrDefault(r.URL, "size", 50), 500)

		entries, err := db.GetLogEntries(r.Context(), logging.LevelFromStringOr(level, slog.LevelInfo), page, size)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, slice.Map(entries, func(e database.LogEntryRow) logEntryJSON {
			return logEntryJSON{
				Timestamp: e.Timestamp,
				Level:     slog.Level(e.Level).String(),
				Message:   e.Message,
				Attrs:     e.Attrs,
			}
		}))
	}
}
