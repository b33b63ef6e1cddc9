package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/icodeforyou/elpris-go/database"
	"github.com/icodeforyou/elpris-go/hours"
	"github.com/icodeforyou/elpris-go/metrics"
	"github.com/icodeforyou/elpris-go/series"
	"github.com/icodeforyou/elpris-go/slice"
	"github.com/icodeforyou/elpris-go/types"
)

// Cache is the part of the database the source reads and fills.
type Cache interface {
	SaveEnergyPrices(ctx context.Context, zone types.Zone, prices []types.EnergyPrice) error
	GetEnergyPrices(ctx context.Context, zone types.Zone, date time.Time) ([]database.EnergyPriceRow, error)
}

// FetchError is returned when every provider failed for a day.
type FetchError struct {
	Zone types.Zone
	Date time.Time
	Err  error // One joined error per provider
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("no provider could deliver prices for %s %s: %v", e.Zone, hours.FormatDate(e.Date), e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Source struct {
	logger    *slog.Logger
	providers []types.EnergyPriceProvider
	cache     Cache
	metrics   *metrics.Metrics
}

// New returns a source that asks the providers in order. cache and m may
// be nil.
func New(logger *slog.Logger, providers []types.EnergyPriceProvider, cache Cache, m *metrics.Metrics) *Source {
	if len(providers) == 0 {
		panic("no energy price providers")
	}
	return &Source{
		logger:    logger,
		providers: providers,
		cache:     cache,
		metrics:   m,
	}
}

// Day returns the hourly prices of one calendar date in Stockholm. A
// complete cached day is used as is, otherwise the first provider with
// prices wins. An empty result without error means the day is not
// published yet.
func (s *Source) Day(ctx context.Context, zone types.Zone, date time.Time) ([]types.EnergyPrice, error) {
	date = hours.StartOfDay(date)
	logger := s.logger.With(slog.String("zone", zone.String()), slog.String("date", hours.FormatDate(date)))

	if prices, ok := s.cached(ctx, logger, zone, date); ok {
		s.metrics.RecordFetch("cache", "cached")
		return prices, nil
	}

	var errs []error
	answered := false
	for _, provider := range s.providers {
		prices, err := provider.GetEnergyPrices(ctx, zone, date)
		if err != nil {
			logger.Warn("energy price provider failed", slog.String("provider", provider.Name()), slog.Any("error", err))
			s.metrics.RecordFetch(provider.Name(), "error")
			errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))
			continue
		}

		answered = true
		if len(prices) == 0 {
			logger.Debug("energy prices not published", slog.String("provider", provider.Name()))
			s.metrics.RecordFetch(provider.Name(), "empty")
			continue
		}

		s.metrics.RecordFetch(provider.Name(), "ok")
		logger.Debug("energy prices fetched", slog.String("provider", provider.Name()), slog.Int("hours", len(prices)))
		s.save(ctx, logger, zone, prices)
		return prices, nil
	}

	if !answered {
		return nil, &FetchError{Zone: zone, Date: date, Err: errors.Join(errs...)}
	}
	return []types.EnergyPrice{}, nil
}

func (s *Source) cached(ctx context.Context, logger *slog.Logger, zone types.Zone, date time.Time) ([]types.EnergyPrice, bool) {
	if s.cache == nil {
		return nil, false
	}

	rows, err := s.cache.GetEnergyPrices(ctx, zone, date)
	if err != nil {
		logger.Warn("reading cached energy prices failed", slog.Any("error", err))
		return nil, false
	}

	if len(rows) < hoursInDay(date) {
		return nil, false
	}

	return slice.Map(rows, func(r database.EnergyPriceRow) types.EnergyPrice {
		return types.EnergyPrice{Start: r.Start, Price: r.Price}
	}), true
}

func (s *Source) save(ctx context.Context, logger *slog.Logger, zone types.Zone, prices []types.EnergyPrice) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveEnergyPrices(ctx, zone, prices); err != nil {
		logger.Warn("caching energy prices failed", slog.Any("error", err))
	}
}

// Series builds the price series for date, followed by the next date when
// withTomorrow is set and those prices are published. A failing fetch of
// the next date is logged and treated as not published.
func (s *Source) Series(ctx context.Context, zone types.Zone, date time.Time, withTomorrow bool) (*series.Series, error) {
	today, err := s.Day(ctx, zone, date)
	if err != nil {
		return nil, err
	}

	prices := today
	if withTomorrow {
		tomorrow, err := s.Day(ctx, zone, hours.NextDay(date))
		if err != nil {
			s.logger.Warn("prices for tomorrow unavailable", slog.String("zone", zone.String()), slog.Any("error", err))
		} else {
			prices = append(append([]types.EnergyPrice{}, today...), tomorrow...)
		}
	}

	return s.toSeries(prices), nil
}

func (s *Source) toSeries(prices []types.EnergyPrice) *series.Series {
	ps := series.New()
	for _, p := range prices {
		point, err := series.NewPricePoint(p.Start, p.Price)
		if err != nil {
			s.logger.Warn("skipping energy price", slog.Any("error", err))
			continue
		}

		var dup *series.DuplicateHourError
		if err := ps.Append(point); errors.As(err, &dup) {
			s.logger.Warn("skipping duplicate hour", slog.String("start", dup.Start.Format(time.RFC3339)))
		}
	}
	return ps
}

func hoursInDay(date time.Time) int {
	start := hours.StartOfDay(date)
	return int(hours.NextDay(start).Sub(start) / time.Hour)
}
