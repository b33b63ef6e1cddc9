package analysis

import (
	"github.com/icodeforyou/elpris-go/series"
	"github.com/icodeforyou/elpris-go/types/maybe"
)

type WindowOutcome struct {
	Window maybe.Maybe[WindowResult]
	Err    error // Set when the window could not be computed
}

type Result struct {
	Stats   StatsResult
	Lengths []int // Requested window lengths in request order, without duplicates
	Windows map[int]WindowOutcome
}

// Analyze computes statistics for the series and the cheapest window for
// each requested length. An empty series fails the whole call, a window
// length that cannot be computed only fails its own outcome.
func Analyze(s *series.Series, windowLengths ...int) (Result, error) {
	stats, err := Statistics(s)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Stats:   stats,
		Lengths: make([]int, 0, len(windowLengths)),
		Windows: make(map[int]WindowOutcome, len(windowLengths)),
	}

	for _, n := range windowLengths {
		if _, seen := res.Windows[n]; seen {
			continue
		}
		res.Lengths = append(res.Lengths, n)

		w, err := CheapestWindow(s, n)
		if err != nil {
			res.Windows[n] = WindowOutcome{Window: maybe.None[WindowResult](), Err: err}
		} else {
			res.Windows[n] = WindowOutcome{Window: maybe.Some(w)}
		}
	}

	return res, nil
}

// Failed reports how many requested windows could not be computed.
func (r Result) Failed() int {
	failed := 0
	for _, o := range r.Windows {
		if o.Err != nil {
			failed++
		}
	}
	return failed
}
