package www

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/icodeforyou/elpris-go/config"
	"github.com/icodeforyou/elpris-go/metrics"
)

type Server struct {
	logger  *slog.Logger
	config  config.AppConfigApi
	handler http.Handler
}

// NewServer sets up the routes. gatherer serves /metrics, /api/log is only
// routed when logs is set.
func NewServer(src SeriesSource, logs LogReader, m *metrics.Metrics, gatherer prometheus.Gatherer, cnfg *config.AppConfig) *Server {
	logger := slog.Default().With("module", "www")
	s := &Server{
		logger: logger,
		config: cnfg.Api,
	}

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	zone := cnfg.EnergyPrice.GetArea()
	mux := http.NewServeMux()

	mux.Handle("/api/analysis", logReqMW(NewAnalysisHandler(
		logger.With(slog.String("handler", "analysis")),
		src,
		zone,
		m)))

	mux.Handle("/api/chart", logReqMW(NewChartHandler(
		logger.With(slog.String("handler", "chart")),
		src,
		zone)))

	if logs != nil {
		mux.Handle("/api/log", logReqMW(NewLogHandler(
			logger.With(slog.String("handler", "log")),
			logs)))
	}

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s.handler = mux
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting server...", "addr", s.config.Addr())
	srv := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErrors := make(chan error, 1)
	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil
	}
}
