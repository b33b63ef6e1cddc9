package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/guptarohit/asciigraph"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/icodeforyou/elpris-go/analysis"
	"github.com/icodeforyou/elpris-go/calc"
	"github.com/icodeforyou/elpris-go/convert"
	"github.com/icodeforyou/elpris-go/hours"
	"github.com/icodeforyou/elpris-go/series"
	"github.com/icodeforyou/elpris-go/slice"
	"github.com/icodeforyou/elpris-go/types"
)

type Unit string

const (
	UnitSEK Unit = "sek"
	UnitOre Unit = "ore"
)

func ParseUnit(str string) (Unit, error) {
	switch u := Unit(strings.ToLower(strings.TrimSpace(str))); u {
	case UnitSEK, UnitOre:
		return u, nil
	}
	return "", fmt.Errorf("invalid unit %q, expected sek or ore", str)
}

func (u Unit) Label() string {
	if u == UnitSEK {
		return "SEK/kWh"
	}
	return "öre/kWh"
}

func (u Unit) decimals() int {
	if u == UnitSEK {
		return 4
	}
	return 2
}

// convert takes a price in SEK/kWh to the unit.
func (u Unit) convert(sek float64) float64 {
	if u == UnitSEK {
		return sek
	}
	return convert.SEKToOre(sek)
}

type Options struct {
	Unit        Unit
	Language    string // BCP 47 tag, e.g. "sv" or "en"
	Sorted      bool
	Descending  bool
	Chart       bool
	ChartHeight int
	// Charging cost estimate, shown when PowerKW > 0. Tax and grid benefit in SEK/kWh.
	PowerKW     float64
	EnergyTax   float64
	GridBenefit float64
}

type Report struct {
	opts    Options
	printer *message.Printer
}

func New(opts Options) *Report {
	if opts.Unit == "" {
		opts.Unit = UnitOre
	}
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = 10
	}
	return &Report{
		opts:    opts,
		printer: message.NewPrinter(language.Make(opts.Language)),
	}
}

// Price formats a SEK/kWh price in the report unit without label.
func (r *Report) Price(sek float64) string {
	return r.decimal(r.opts.Unit.convert(sek), r.opts.Unit.decimals())
}

func (r *Report) decimal(v float64, decimals int) string {
	return r.printer.Sprintf("%v", number.Decimal(v, number.Scale(decimals)))
}

func (r *Report) priceWithUnit(sek float64) string {
	return r.Price(sek) + " " + r.opts.Unit.Label()
}

// Write prints prices, statistics, windows and optionally a chart.
func (r *Report) Write(w io.Writer, zone types.Zone, s *series.Series, res analysis.Result) error {
	var b strings.Builder
	multiDay := len(s.Dates()) > 1

	fmt.Fprintf(&b, "Zon: %s\n", zone)
	fmt.Fprintf(&b, "Datum: %s\n\n", strings.Join(s.Dates(), " - "))

	points := s.Points()
	if r.opts.Sorted {
		points = s.SortedByPrice(!r.opts.Descending)
	}
	for _, p := range points {
		fmt.Fprintf(&b, "%s  %s\n", hourLabel(p, multiDay), r.priceWithUnit(p.Price()))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Lägsta pris: %s (%s)\n", r.priceWithUnit(res.Stats.Min.Price()), hourLabel(res.Stats.Min, multiDay))
	fmt.Fprintf(&b, "Högsta pris: %s (%s)\n", r.priceWithUnit(res.Stats.Max.Price()), hourLabel(res.Stats.Max, multiDay))
	fmt.Fprintf(&b, "Medelpris: %s\n", r.priceWithUnit(res.Stats.Mean))

	if len(res.Lengths) > 0 {
		b.WriteString("\n")
	}
	for _, n := range res.Lengths {
		b.WriteString(r.windowLine(n, res.Windows[n]))
		b.WriteString("\n")
	}

	if r.opts.Chart {
		b.WriteString("\n")
		b.WriteString(r.chart(zone, s))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Report) windowLine(n int, o analysis.WindowOutcome) string {
	w, ok := o.Window.Get()
	if !ok {
		return fmt.Sprintf("Bästa %dh-fönster: %s", n, WindowErrorText(o.Err))
	}

	line := fmt.Sprintf("Bästa %dh-fönster: %s - %s (%s i snitt)",
		n, hours.FormatHour(w.Start), hours.FormatHour(w.End), r.priceWithUnit(w.AverageCost))
	if r.opts.PowerKW > 0 {
		cost := calc.ChargingCost(r.opts.PowerKW, w.Length, w.AverageCost, r.opts.EnergyTax, r.opts.GridBenefit)
		line += fmt.Sprintf(", uppskattad kostnad %s kr", r.decimal(convert.TwoDecimals(cost), 2))
	}
	return line
}

// WindowErrorText describes why a window could not be computed.
func WindowErrorText(err error) string {
	var tooLarge *analysis.WindowTooLargeError
	var invalid *analysis.InvalidWindowSizeError
	switch {
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("för få timmar (%d begärda, %d tillgängliga)", tooLarge.Length, tooLarge.Available)
	case errors.As(err, &invalid):
		return fmt.Sprintf("ogiltig fönsterlängd %d", invalid.Length)
	case err != nil:
		return err.Error()
	}
	return "saknas"
}

func (r *Report) chart(zone types.Zone, s *series.Series) string {
	data := slice.Map(s.Prices(), r.opts.Unit.convert)
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(r.opts.ChartHeight),
		asciigraph.Precision(uint(r.opts.Unit.decimals())),
		asciigraph.Caption(fmt.Sprintf("%s %s (%s)", zone, strings.Join(s.Dates(), " - "), r.opts.Unit.Label())),
	)
}

func hourLabel(p series.PricePoint, withDate bool) string {
	label := p.Start().In(hours.Stockholm()).Format("15") + "-" + p.End().In(hours.Stockholm()).Format("15")
	if withDate {
		return hours.FormatDate(p.Start()) + " " + label
	}
	return label
}
