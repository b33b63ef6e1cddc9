package analysis

import (
	"math"
	"time"

	"github.com/icodeforyou/elpris-go/series"
)

type WindowResult struct {
	Length      int // Requested number of hours
	StartIndex  int // Inclusive
	EndIndex    int // Inclusive
	TotalCost   float64
	AverageCost float64
	Start       time.Time // Start of the first hour
	End         time.Time // End of the last hour
}

// CheapestWindow finds the run of n consecutive points with the lowest
// price sum using a sliding window. Points are consecutive by position, so
// a series of today and tomorrow concatenated lets the window cross
// midnight. The earliest window wins on equal sums.
func CheapestWindow(s *series.Series, n int) (WindowResult, error) {
	if n > s.Len() {
		return WindowResult{}, &WindowTooLargeError{Length: n, Available: s.Len()}
	}
	if n <= 0 {
		return WindowResult{}, &InvalidWindowSizeError{Length: n}
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.At(i).Price()
	}

	bestSum, bestStart := sum, 0
	for i := n; i < s.Len(); i++ {
		sum += s.At(i).Price() - s.At(i-n).Price()
		if cheaper(sum, bestSum) {
			bestSum = sum
			bestStart = i - n + 1
		}
	}

	return newWindowResult(s, n, bestStart, bestSum), nil
}

// BruteForceCheapestWindow recomputes every window sum from scratch. It
// exists to cross check CheapestWindow.
func BruteForceCheapestWindow(s *series.Series, n int) (WindowResult, error) {
	if n > s.Len() {
		return WindowResult{}, &WindowTooLargeError{Length: n, Available: s.Len()}
	}
	if n <= 0 {
		return WindowResult{}, &InvalidWindowSizeError{Length: n}
	}

	bestStart := -1
	bestSum := 0.0
	for start := 0; start+n <= s.Len(); start++ {
		sum := 0.0
		for i := start; i < start+n; i++ {
			sum += s.At(i).Price()
		}
		if bestStart < 0 || cheaper(sum, bestSum) {
			bestSum = sum
			bestStart = start
		}
	}

	return newWindowResult(s, n, bestStart, bestSum), nil
}

// cheaper reports whether sum is lower than best by more than the rounding
// error a running float sum picks up. Sums within the tolerance are equal,
// so an equal later window never replaces an earlier one.
func cheaper(sum, best float64) bool {
	return sum < best-1e-9*math.Max(1, math.Abs(best))
}

func newWindowResult(s *series.Series, n, start int, total float64) WindowResult {
	end := start + n - 1
	return WindowResult{
		Length:      n,
		StartIndex:  start,
		EndIndex:    end,
		TotalCost:   total,
		AverageCost: total / float64(n),
		Start:       s.At(start).Start(),
		End:         s.At(end).End(),
	}
}
