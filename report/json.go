package report

import (
	"time"

	"github.com/icodeforyou/elpris-go/analysis"
	"github.com/icodeforyou/elpris-go/series"
	"github.com/icodeforyou/elpris-go/slice"
	"github.com/icodeforyou/elpris-go/types"
)

// JSON documents always carry prices in SEK/kWh.

type PriceJSON struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Price float64   `json:"price"`
}

type StatsJSON struct {
	Min   PriceJSON `json:"min"`
	Max   PriceJSON `json:"max"`
	Mean  float64   `json:"mean"`
	Count int       `json:"count"`
}

type WindowJSON struct {
	Length      int        `json:"length"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	TotalCost   float64    `json:"totalCost"`
	AverageCost float64    `json:"averageCost"`
	Error       string     `json:"error,omitempty"`
}

type AnalysisJSON struct {
	Zone    string       `json:"zone"`
	Dates   []string     `json:"dates"`
	Unit    string       `json:"unit"`
	Prices  []PriceJSON  `json:"prices"`
	Stats   StatsJSON    `json:"stats"`
	Windows []WindowJSON `json:"windows"`
}

func NewPriceJSON(p series.PricePoint) PriceJSON {
	return PriceJSON{Start: p.Start(), End: p.End(), Price: p.Price()}
}

func NewWindowJSON(n int, o analysis.WindowOutcome) WindowJSON {
	w, ok := o.Window.Get()
	if !ok {
		return WindowJSON{Length: n, Error: WindowErrorText(o.Err)}
	}
	return WindowJSON{
		Length:      n,
		Start:       &w.Start,
		End:         &w.End,
		TotalCost:   w.TotalCost,
		AverageCost: w.AverageCost,
	}
}

func NewAnalysisJSON(zone types.Zone, s *series.Series, res analysis.Result) AnalysisJSON {
	windows := make([]WindowJSON, 0, len(res.Lengths))
	for _, n := range res.Lengths {
		windows = append(windows, NewWindowJSON(n, res.Windows[n]))
	}
	return AnalysisJSON{
		Zone:   zone.String(),
		Dates:  s.Dates(),
		Unit:   UnitSEK.Label(),
		Prices: slice.Map(s.Points(), NewPriceJSON),
		Stats: StatsJSON{
			Min:   NewPriceJSON(res.Stats.Min),
			Max:   NewPriceJSON(res.Stats.Max),
			Mean:  res.Stats.Mean,
			Count: res.Stats.Count,
		},
		Windows: windows,
	}
}
