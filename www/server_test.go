package www

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icodeforyou/elpris-go/config"
	"github.com/icodeforyou/elpris-go/hours"
	"github.com/icodeforyou/elpris-go/metrics"
	"github.com/icodeforyou/elpris-go/report"
	"github.com/icodeforyou/elpris-go/series"
	"github.com/icodeforyou/elpris-go/source"
	"github.com/icodeforyou/elpris-go/types"
	"github.com/icodeforyou/elpris-go/www/chartjs"
)

type fakeSource struct {
	prices       []float64
	err          error
	zone         types.Zone
	date         time.Time
	withTomorrow bool
}

func (f *fakeSource) Series(_ context.Context, zone types.Zone, date time.Time, withTomorrow bool) (*series.Series, error) {
	f.zone, f.date, f.withTomorrow = zone, date, withTomorrow
	if f.err != nil {
		return nil, f.err
	}
	s := series.New()
	for i, p := range f.prices {
		if err := s.Append(series.MustPricePoint(date.Add(time.Duration(i)*time.Hour), p)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func newTestServer(t *testing.T, src SeriesSource) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	cnfg := &config.AppConfig{EnergyPrice: config.AppConfigEnergyPrice{Area: "SE4"}}
	ts := httptest.NewServer(NewServer(src, nil, m, reg, cnfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestAnalysisHandler(t *testing.T) {
	src := &fakeSource{prices: []float64{0.50, 0.10, 0.05, 0.15, 0.08, 0.12, 0.06, 0.09}}
	ts := newTestServer(t, src)

	resp, body := get(t, ts.URL+"/api/analysis?zone=se3&date=2025-09-04&charging=3h,9h")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	assert.Equal(t, types.ZoneSE3, src.zone)
	assert.Equal(t, "2025-09-04", hours.FormatDate(src.date))
	assert.True(t, src.withTomorrow)

	var doc report.AnalysisJSON
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, 8, doc.Stats.Count)
	assert.InDelta(t, 0.14375, doc.Stats.Mean, 1e-9)
	require.Len(t, doc.Windows, 2)
	require.NotNil(t, doc.Windows[0].Start)
	assert.Equal(t, 4, doc.Windows[0].Start.In(hours.Stockholm()).Hour())
	assert.NotEmpty(t, doc.Windows[1].Error)
}

func TestAnalysisHandlerDefaults(t *testing.T) {
	src := &fakeSource{prices: []float64{0.1, 0.2}}
	ts := newTestServer(t, src)

	resp, _ := get(t, ts.URL+"/api/analysis")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, types.ZoneSE4, src.zone)
	assert.True(t, src.date.Equal(hours.Today()))
	assert.False(t, src.withTomorrow)
}

func TestAnalysisHandlerErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   *fakeSource
		query string
		code  int
	}{
		{name: "bad zone", src: &fakeSource{}, query: "zone=SE9", code: http.StatusBadRequest},
		{name: "bad date", src: &fakeSource{}, query: "date=2025-13-01", code: http.StatusBadRequest},
		{name: "bad charging", src: &fakeSource{}, query: "charging=abc", code: http.StatusBadRequest},
		{name: "no prices", src: &fakeSource{}, query: "zone=SE1", code: http.StatusNotFound},
		{
			name:  "provider failure",
			src:   &fakeSource{err: &source.FetchError{Zone: types.ZoneSE1, Err: io.ErrUnexpectedEOF}},
			query: "zone=SE1",
			code:  http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.src)
			resp, body := get(t, ts.URL+"/api/analysis?"+tt.query)
			assert.Equal(t, tt.code, resp.StatusCode)

			var doc map[string]string
			require.NoError(t, json.Unmarshal(body, &doc))
			assert.NotEmpty(t, doc["error"])
		})
	}
}

func TestAnalysisHandlerMethod(t *testing.T) {
	ts := newTestServer(t, &fakeSource{})
	resp, err := http.Post(ts.URL+"/api/analysis", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestChartHandler(t *testing.T) {
	src := &fakeSource{prices: []float64{0.50, 0.10, 0.05, 0.15}}
	ts := newTestServer(t, src)

	resp, body := get(t, ts.URL+"/api/chart?date=2025-09-04&charging=2")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var chart chartjs.Chart
	require.NoError(t, json.Unmarshal(body, &chart))
	assert.Equal(t, []string{"00:00", "01:00", "02:00", "03:00"}, chart.Data.Labels)
	require.Len(t, chart.Data.Datasets, 2)

	prices := chart.Data.Datasets[0].Data
	require.Len(t, prices, 4)
	assert.Equal(t, 0.05, *prices[2])

	window := chart.Data.Datasets[1].Data
	require.Len(t, window, 4)
	assert.Nil(t, window[0])
	assert.NotNil(t, window[1])
	assert.NotNil(t, window[2])
	assert.Nil(t, window[3])
	assert.Equal(t, "SE4 2025-09-04", chart.Options.Plugins.Title.Text)
}

func TestChartHandlerNoPrices(t *testing.T) {
	ts := newTestServer(t, &fakeSource{})
	resp, _ := get(t, ts.URL+"/api/chart")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, &fakeSource{prices: []float64{0.1}})
	get(t, ts.URL+"/api/analysis")

	resp, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `elpris_analysis_total{result="ok"} 1`)
}
