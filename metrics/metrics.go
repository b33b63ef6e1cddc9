package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/icodeforyou/elpris-go/analysis"
)

// Metrics counts price fetches and analyses. A nil *Metrics is valid and
// records nothing, which keeps the CLI free of a registry.
type Metrics struct {
	fetches  *prometheus.CounterVec
	analyses *prometheus.CounterVec
}

// New registers the collectors on reg, or on the default registerer when
// reg is nil. Collectors that are already registered are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "elpris_price_fetch_total",
		Help: "Price fetches by source and result",
	}, []string{"provider", "result"})
	analyses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "elpris_analysis_total",
		Help: "Price analyses by result",
	}, []string{"result"})

	var err error
	if fetches, err = register(reg, fetches); err != nil {
		return nil, err
	}
	if analyses, err = register(reg, analyses); err != nil {
		return nil, err
	}

	return &Metrics{fetches: fetches, analyses: analyses}, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

// RecordFetch counts one fetch; result is "ok", "empty", "error" or "cached".
func (m *Metrics) RecordFetch(provider, result string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(provider, result).Inc()
}

// RecordAnalysis counts one analysis; result is "ok" or an error kind.
func (m *Metrics) RecordAnalysis(result string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(result).Inc()
}

// AnalysisResult labels the outcome of an analysis call.
func AnalysisResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, analysis.ErrEmptySeries):
		return "empty_series"
	}
	return "error"
}
