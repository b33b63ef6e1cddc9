package types

import (
	"context"
	"slices"
	"time"

	"github.com/icodeforyou/elpris-go/hours"
)

type EnergyPrice struct {
	Start time.Time
	Price float64 // Price in SEK per kWh excluding VAT
}

type EnergyPriceProvider interface {
	Name() string
	// GetEnergyPrices returns the prices of one calendar date in Stockholm.
	// A date that is not published yet gives an empty slice, not an error.
	GetEnergyPrices(ctx context.Context, zone Zone, date time.Time) ([]EnergyPrice, error)
}

// Hourly averages entries that share the same start hour, e.g. quarter
// hour prices, into one price per hour. The result is sorted by start.
func Hourly(prices []EnergyPrice) []EnergyPrice {
	type bucket struct {
		sum   float64
		count int
	}

	buckets := make(map[int64]*bucket)
	var starts []time.Time
	for _, p := range prices {
		start := hours.TruncateHour(p.Start)
		b, ok := buckets[start.Unix()]
		if !ok {
			b = &bucket{}
			buckets[start.Unix()] = b
			starts = append(starts, start)
		}
		b.sum += p.Price
		b.count++
	}

	slices.SortFunc(starts, time.Time.Compare)

	hourly := make([]EnergyPrice, len(starts))
	for i, start := range starts {
		b := buckets[start.Unix()]
		hourly[i] = EnergyPrice{Start: start, Price: b.sum / float64(b.count)}
	}
	return hourly
}
