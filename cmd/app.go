package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"github.com/icodeforyou/elpris-go/config"
	"github.com/icodeforyou/elpris-go/database"
	"github.com/icodeforyou/elpris-go/elprisetjustnu"
	"github.com/icodeforyou/elpris-go/logging"
	"github.com/icodeforyou/elpris-go/metrics"
	"github.com/icodeforyou/elpris-go/nordpool"
	"github.com/icodeforyou/elpris-go/source"
	"github.com/icodeforyou/elpris-go/types"
)

// app holds what both the analysis and serve commands need.
type app struct {
	cnfg   *config.AppConfig
	logger *slog.Logger
	db     *database.Database // nil when the cache is disabled
	source *source.Source
}

func newApp(ctx context.Context, cnfg *config.AppConfig, logOut io.Writer, defLevel slog.Level, m *metrics.Metrics) (*app, error) {
	consoleHandler := tint.NewHandler(logOut, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(defLevel),
		TimeFormat: time.RFC3339,
	})
	logger := slog.New(consoleHandler)
	slog.SetDefault(logger)

	a := &app{cnfg: cnfg, logger: logger}

	var cache source.Cache
	if cnfg.Database.Enabled() {
		db, err := database.New(ctx, cnfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open price cache: %w", err)
		}
		a.db = db
		cache = db

		a.logger = slog.New(logging.NewMultiHandler(
			consoleHandler,
			logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
		slog.SetDefault(a.logger)

		// Database operations can be logged into the database itself from now on
		db.SetLogger(a.logger.With("module", "database"))
	}

	timeout := cnfg.EnergyPrice.GetTimeout()
	providers := []types.EnergyPriceProvider{
		elprisetjustnu.New(cnfg.EnergyPrice.ElprisetJustNuURL, timeout), // Primary provider
		nordpool.New(cnfg.EnergyPrice.NordpoolURL, timeout),             // Secondary provider
	}
	a.source = source.New(a.logger.With("module", "source"), providers, cache, m)

	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
