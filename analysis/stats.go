package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/icodeforyou/elpris-go/series"
)

type StatsResult struct {
	Min   series.PricePoint // First hour with the lowest price
	Max   series.PricePoint // First hour with the highest price
	Mean  float64           // Unweighted, every point is one hour
	Count int
}

// Statistics computes min, max and mean of a non-empty series. No rounding
// is applied.
func Statistics(s *series.Series) (StatsResult, error) {
	if s.Len() == 0 {
		return StatsResult{}, ErrEmptySeries
	}

	prices := s.Prices()
	return StatsResult{
		Min:   s.At(floats.MinIdx(prices)),
		Max:   s.At(floats.MaxIdx(prices)),
		Mean:  stat.Mean(prices, nil),
		Count: len(prices),
	}, nil
}
