package metrics

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icodeforyou/elpris-go/analysis"
)

func TestRecordFetch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.RecordFetch("elprisetjustnu", "ok")
	m.RecordFetch("elprisetjustnu", "ok")
	m.RecordFetch("nordpool", "error")

	expected := `
# HELP elpris_price_fetch_total Price fetches by source and result
# TYPE elpris_price_fetch_total counter
elpris_price_fetch_total{provider="elprisetjustnu",result="ok"} 2
elpris_price_fetch_total{provider="nordpool",result="error"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m.fetches, strings.NewReader(expected)))
}

func TestRecordAnalysis(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.RecordAnalysis("ok")
	m.RecordAnalysis("empty_series")
	assert.Equal(t, 2, testutil.CollectAndCount(m.analyses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyses.WithLabelValues("ok")))
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := New(reg)
	require.NoError(t, err)
	m2, err := New(reg)
	require.NoError(t, err)

	m1.RecordAnalysis("ok")
	assert.Equal(t, 1.0, testutil.ToFloat64(m2.analyses.WithLabelValues("ok")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.RecordFetch("x", "ok")
	m.RecordAnalysis("ok")
}

func TestAnalysisResult(t *testing.T) {
	assert.Equal(t, "ok", AnalysisResult(nil))
	assert.Equal(t, "empty_series", AnalysisResult(fmt.Errorf("SE3: %w", analysis.ErrEmptySeries)))
	assert.Equal(t, "error", AnalysisResult(errors.New("boom")))
}
