package analysis

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icodeforyou/elpris-go/hours"
	"github.com/icodeforyou/elpris-go/series"
)

var day = time.Date(2025, time.September, 4, 0, 0, 0, 0, hours.Stockholm())

func newSeries(t *testing.T, prices ...float64) *series.Series {
	t.Helper()
	s := series.New()
	for i, p := range prices {
		require.NoError(t, s.Append(series.MustPricePoint(day.Add(time.Duration(i)*time.Hour), p)))
	}
	return s
}

func almostEqual(f1 float64, f2 float64) bool {
	return math.Abs(f1-f2) < 1e-9
}

func TestStatisticsScenario(t *testing.T) {
	s := newSeries(t, 50, 10, 5, 15, 8, 12, 6, 9)

	stats, err := Statistics(s)
	require.NoError(t, err)

	assert.Equal(t, 5.0, stats.Min.Price())
	assert.True(t, stats.Min.Start().Equal(day.Add(2*time.Hour)))
	assert.Equal(t, 50.0, stats.Max.Price())
	assert.True(t, stats.Max.Start().Equal(day))
	assert.InDelta(t, 14.375, stats.Mean, 1e-9)
	assert.Equal(t, 8, stats.Count)
}

func TestStatisticsTieBreak(t *testing.T) {
	s := newSeries(t, 3, 1, 4, 1, 4)

	stats, err := Statistics(s)
	require.NoError(t, err)
	assert.True(t, stats.Min.Start().Equal(day.Add(1*time.Hour)), "first minimum wins")
	assert.True(t, stats.Max.Start().Equal(day.Add(2*time.Hour)), "first maximum wins")
}

func TestStatisticsEmpty(t *testing.T) {
	_, err := Statistics(series.New())
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestStatisticsOrdering(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		prices := make([]float64, 1+r.Intn(48))
		for j := range prices {
			prices[j] = r.Float64()*4 - 1
		}
		stats, err := Statistics(newSeries(t, prices...))
		require.NoError(t, err)
		assert.LessOrEqual(t, stats.Min.Price(), stats.Mean+1e-9)
		assert.LessOrEqual(t, stats.Mean, stats.Max.Price()+1e-9)
	}
}

func TestCheapestWindowScenario(t *testing.T) {
	s := newSeries(t, 50, 10, 5, 15, 8, 12, 6, 9)

	w, err := CheapestWindow(s, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, w.StartIndex)
	assert.Equal(t, 6, w.EndIndex)
	assert.Equal(t, 3, w.Length)
	assert.InDelta(t, 26.0, w.TotalCost, 1e-9)
	assert.InDelta(t, 26.0/3, w.AverageCost, 1e-9)
	assert.True(t, w.Start.Equal(day.Add(4*time.Hour)))
	assert.True(t, w.End.Equal(day.Add(7*time.Hour)))
}

func TestCheapestWindowAllEqual(t *testing.T) {
	s := newSeries(t, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20)

	w, err := CheapestWindow(s, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, w.StartIndex)
	assert.Equal(t, 80.0, w.TotalCost)
}

func TestCheapestWindowTieBreak(t *testing.T) {
	// Windows [1,2] at index 0 and 4 both sum to 3.
	s := newSeries(t, 1, 2, 9, 9, 2, 1, 9)

	for i := 0; i < 10; i++ {
		w, err := CheapestWindow(s, 2)
		require.NoError(t, err)
		assert.Equal(t, 0, w.StartIndex)
	}
}

func TestCheapestWindowFullLength(t *testing.T) {
	s := newSeries(t, 3, 2, 1)

	w, err := CheapestWindow(s, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, w.StartIndex)
	assert.Equal(t, 2, w.EndIndex)
	assert.Equal(t, 6.0, w.TotalCost)
}

func TestCheapestWindowNegativePrices(t *testing.T) {
	s := newSeries(t, 0.5, -0.2, -0.3, 0.1, -0.05)

	w, err := CheapestWindow(s, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, w.StartIndex)
	assert.InDelta(t, -0.5, w.TotalCost, 1e-9)
}

func TestCheapestWindowErrors(t *testing.T) {
	s := newSeries(t, 1, 2, 3)

	tests := []struct {
		name   string
		series *series.Series
		length int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "too large",
			series: s,
			length: 4,
			check: func(t *testing.T, err error) {
				var tooLarge *WindowTooLargeError
				require.True(t, errors.As(err, &tooLarge))
				assert.Equal(t, 4, tooLarge.Length)
				assert.Equal(t, 3, tooLarge.Available)
			},
		},
		{
			name:   "zero",
			series: s,
			length: 0,
			check: func(t *testing.T, err error) {
				var invalid *InvalidWindowSizeError
				assert.True(t, errors.As(err, &invalid))
			},
		},
		{
			name:   "negative",
			series: s,
			length: -2,
			check: func(t *testing.T, err error) {
				var invalid *InvalidWindowSizeError
				require.True(t, errors.As(err, &invalid))
				assert.Equal(t, -2, invalid.Length)
			},
		},
		{
			name:   "empty series",
			series: series.New(),
			length: 1,
			check: func(t *testing.T, err error) {
				var tooLarge *WindowTooLargeError
				assert.True(t, errors.As(err, &tooLarge))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CheapestWindow(tt.series, tt.length)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestCheapestWindowIsMinimal(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for iter := 0; iter < 300; iter++ {
		prices := make([]float64, 1+r.Intn(12))
		for i := range prices {
			// Whole öre keep ties likely.
			prices[i] = float64(r.Intn(20)-5) / 100
		}
		s := newSeries(t, prices...)

		for n := 1; n <= len(prices); n++ {
			w, err := CheapestWindow(s, n)
			require.NoError(t, err)
			assert.Equal(t, n, w.EndIndex-w.StartIndex+1)

			for start := 0; start+n <= len(prices); start++ {
				sum := 0.0
				for i := start; i < start+n; i++ {
					sum += prices[i]
				}
				assert.LessOrEqual(t, w.TotalCost, sum+1e-9, "prices %v n %d start %d", prices, n, start)
			}

			bf, err := BruteForceCheapestWindow(s, n)
			require.NoError(t, err)
			assert.True(t, almostEqual(w.TotalCost, bf.TotalCost), "prices %v n %d", prices, n)
		}
	}
}

func TestCheapestWindowEarliestOnTies(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for iter := 0; iter < 3000; iter++ {
		ore := make([]int, 1+r.Intn(24))
		prices := make([]float64, len(ore))
		for i := range ore {
			ore[i] = r.Intn(300) - 50
			prices[i] = float64(ore[i]) / 100
		}
		s := newSeries(t, prices...)

		for n := 1; n <= len(ore); n++ {
			want, wantSum := -1, 0
			for start := 0; start+n <= len(ore); start++ {
				sum := 0
				for i := start; i < start+n; i++ {
					sum += ore[i]
				}
				if want < 0 || sum < wantSum {
					want, wantSum = start, sum
				}
			}

			w, err := CheapestWindow(s, n)
			require.NoError(t, err)
			require.Equal(t, want, w.StartIndex, "prices %v n %d", prices, n)

			bf, err := BruteForceCheapestWindow(s, n)
			require.NoError(t, err)
			require.Equal(t, want, bf.StartIndex, "prices %v n %d", prices, n)
		}
	}
}

func TestCheapestWindowAcrossMidnight(t *testing.T) {
	prices := make([]float64, 48)
	for i := range prices {
		prices[i] = 1.0
	}
	prices[22], prices[23], prices[24], prices[25] = 0.1, 0.1, 0.1, 0.1

	w, err := CheapestWindow(newSeries(t, prices...), 4)
	require.NoError(t, err)
	assert.Equal(t, 22, w.StartIndex)
	assert.Equal(t, "22:00", hours.FormatHour(w.Start))
	assert.Equal(t, "02:00", hours.FormatHour(w.End))
}

func TestCheapestWindowWithGap(t *testing.T) {
	s := series.New()
	for _, h := range []int{0, 1, 5, 6} {
		require.NoError(t, s.Append(series.MustPricePoint(day.Add(time.Duration(h)*time.Hour), float64(h))))
	}

	w, err := CheapestWindow(s, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, w.StartIndex)
	assert.True(t, w.End.Equal(day.Add(6*time.Hour)))
}

func TestAnalyze(t *testing.T) {
	s := newSeries(t, 50, 10, 5, 15, 8, 12, 6, 9)

	res, err := Analyze(s, 3, 9, 0, 3, 1)
	require.NoError(t, err)

	assert.InDelta(t, 14.375, res.Stats.Mean, 1e-9)
	assert.Equal(t, []int{3, 9, 0, 1}, res.Lengths)
	assert.Equal(t, 2, res.Failed())

	w3 := res.Windows[3]
	require.NoError(t, w3.Err)
	require.True(t, w3.Window.IsValid())
	assert.Equal(t, 4, w3.Window.Value().StartIndex)

	w9 := res.Windows[9]
	assert.False(t, w9.Window.IsValid())
	var tooLarge *WindowTooLargeError
	assert.True(t, errors.As(w9.Err, &tooLarge))

	var invalid *InvalidWindowSizeError
	assert.True(t, errors.As(res.Windows[0].Err, &invalid))

	w1 := res.Windows[1]
	require.True(t, w1.Window.IsValid())
	assert.Equal(t, 2, w1.Window.Value().StartIndex)
}

func TestAnalyzeNoWindows(t *testing.T) {
	res, err := Analyze(newSeries(t, 1, 2))
	require.NoError(t, err)
	assert.Empty(t, res.Lengths)
	assert.Empty(t, res.Windows)
}

func TestAnalyzeEmptySeries(t *testing.T) {
	_, err := Analyze(series.New(), 2, 4)
	assert.ErrorIs(t, err, ErrEmptySeries)
}
