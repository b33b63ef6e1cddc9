package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/icodeforyou/elpris-go/analysis"
	"github.com/icodeforyou/elpris-go/hours"
	"github.com/icodeforyou/elpris-go/metrics"
	"github.com/icodeforyou/elpris-go/series"
	"github.com/icodeforyou/elpris-go/types"
)

type SeriesSource interface {
	Series(ctx context.Context, zone types.Zone, date time.Time, withTomorrow bool) (*series.Series, error)
}

type WindowPublisher interface {
	PublishWindows(zone types.Zone, res analysis.Result) error
}

// NewEnergyPriceTask fetches today's and tomorrow's prices for every zone,
// which fills the cache, and publishes the cheapest windows when publisher
// is set. The task runs once before it is returned.
func NewEnergyPriceTask(
	logger *slog.Logger,
	src SeriesSource,
	zones []types.Zone,
	windows []int,
	publisher WindowPublisher,
	m *metrics.Metrics,
) func() {
	if len(zones) == 0 {
		panic("no zones to fetch energy prices for")
	}

	run := func() { runEnergyPriceTask(logger, src, zones, windows, publisher, m) }
	run()
	return run
}

func runEnergyPriceTask(
	logger *slog.Logger,
	src SeriesSource,
	zones []types.Zone,
	windows []int,
	publisher WindowPublisher,
	m *metrics.Metrics,
) {
	logger.Debug("running energy price task...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	today := hours.Today()
	for _, zone := range zones {
		zoneLogger := logger.With(slog.String("zone", zone.String()))

		s, err := src.Series(ctx, zone, today, true)
		if err != nil {
			zoneLogger.Error("energy price task error, fetching energy prices", slog.Any("error", err))
			continue
		}

		res, err := analysis.Analyze(s, windows...)
		m.RecordAnalysis(metrics.AnalysisResult(err))
		if err != nil {
			zoneLogger.Error("energy price task error, analysis", slog.Any("error", err))
			continue
		}

		if publisher != nil {
			if err := publisher.PublishWindows(zone, res); err != nil {
				zoneLogger.Error("energy price task error, publishing", slog.Any("error", err))
			}
		}

		zoneLogger.Info("energy price task done", slog.Int("noOfHours", s.Len()), slog.Int("failedWindows", res.Failed()))
	}
}
