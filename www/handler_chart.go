package www

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/icodeforyou/elpris-go/analysis"
	"github.com/icodeforyou/elpris-go/hours"
	"github.com/icodeforyou/elpris-go/types"
	"github.com/icodeforyou/elpris-go/www/chartjs"
)

// NewChartHandler returns a chart.js configuration of the prices. With
// charging set, the cheapest window of the first length is highlighted.
func NewChartHandler(logger *slog.Logger, src SeriesSource, defZone types.Zone) http.HandlerFunc {
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
		if s.Len() == 0 {
			writeError(logger, w, analysis.ErrEmptySeries)
			return
		}

		multiDay := len(s.Dates()) > 1
		labels := make([]string, s.Len())
		for i, p := range s.Points() {
			labels[i] = hours.FormatHour(p.Start())
			if multiDay {
				labels[i] = hours.FormatDate(p.Start()) + " " + labels[i]
			}
		}

		chart := chartjs.NewChart(fmt.Sprintf("%s %s", q.zone, strings.Join(s.Dates(), " - ")), labels)
		for i, price := range s.Prices() {
			chart.Data.Datasets[0].Data[i] = chartjs.FixedFloat64(price, 4)
		}

		if len(q.windows) > 0 {
			win, err := analysis.CheapestWindow(s, q.windows[0])
			if err != nil {
				logger.Debug("no window to highlight", slog.Any("error", err))
			} else {
				for i := win.StartIndex; i <= win.EndIndex; i++ {
					chart.Data.Datasets[1].Data[i] = chartjs.FixedFloat64(s.At(i).Price(), 4)
				}
			}
		}

		prices := s.Prices()
		chart.Options.Scales["YAxis1"] = chart.Options.Scales["YAxis1"].
			WithTitle("Elpris (SEK/kWh)").
			WithMinAndMax(min(0, slices.Min(prices)), slices.Max(prices))

		writeJSON(logger, w, http.StatusOK, chart)
	}
}
