package www

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/icodeforyou/elpris-go/analysis"
	"github.com/icodeforyou/elpris-go/hours"
	"github.com/icodeforyou/elpris-go/source"
	"github.com/icodeforyou/elpris-go/types"
)

type priceQuery struct {
	zone    types.Zone
	date    time.Time
	windows []int
}

// errBadRequest marks query errors that are the client's fault.
var errBadRequest = errors.New("bad request")

// parsePriceQuery reads zone, date and charging from the query string.
// Missing zone and date default to defZone and today.
func parsePriceQuery(u *url.URL, defZone types.Zone) (priceQuery, error) {
	q := priceQuery{zone: defZone, date: hours.Today()}
	values := u.Query()

	if v := values.Get("zone"); v != "" {
		z, err := types.ParseZone(v)
		if err != nil {
			return q, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		q.zone = z
	}

	if v := values.Get("date"); v != "" {
		d, err := hours.ParseDate(v)
		if err != nil {
			return q, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		q.date = d
	}

	if v := values.Get("charging"); v != "" {
		windows, err := types.ParseWindowLengths(v)
		if err != nil {
			return q, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		q.windows = windows
	}

	return q, nil
}

func statusCode(err error) int {
	var fetchErr *source.FetchError
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrEmptySeries):
		return http.StatusNotFound
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(logger *slog.Logger, w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		logger.Error("handling request", slog.Any("error", err))
	} else {
		logger.Debug("rejecting request", slog.Any("error", err))
	}
	writeJSON(logger, w, code, map[string]string{"error": err.Error()})
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response", slog.Any("error", err))
	}
}

func intOrDefault(u *url.URL, key string, defaultValue int) int {
	if v := u.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}
