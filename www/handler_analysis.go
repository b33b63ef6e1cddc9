package www

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/icodeforyou/elpris-go/analysis"
	"github.com/icodeforyou/elpris-go/metrics"
	"github.com/icodeforyou/elpris-go/report"
	"github.com/icodeforyou/elpris-go/series"
	"github.com/icodeforyou/elpris-go/types"
)

type SeriesSource interface {
	Series(ctx context.Context, zone types.Zone, date time.Time, withTomorrow bool) (*series.Series, error)
}

func NewAnalysisHandler(logger *slog.Logger, src SeriesSource, defZone types.Zone, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q, err := parsePriceQuery(r.URL, defZone)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		s, err := src.Series(r.Context(), q.zone, q.date, len(q.windows) > 0)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		res, err := analysis.Analyze(s, q.windows...)
		m.RecordAnalysis(metrics.AnalysisResult(err))
		if err != nil {
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, report.NewAnalysisJSON(q.zone, s, res))
	}
}
