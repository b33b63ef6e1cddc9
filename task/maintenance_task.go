package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/icodeforyou/elpris-go/config"
)

type Purger interface {
	PurgeLog(ctx context.Context, maxLogEntries int) error
	PurgeEnergyPrice(ctx context.Context, retentionDays int) error
}

func NewMaintenanceTask(logger *slog.Logger, db Purger, cnfg *config.AppConfig) func() {
	return func() {
		logger.Debug("running maintenance task...")

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		if err := db.PurgeLog(ctx, cnfg.Logging.GetDbMaxEntries()); err != nil {
			logger.Error("log maintenance error", slog.Any("error", err))
		}

		if err := db.PurgeEnergyPrice(ctx, cnfg.Database.GetDataRetentionDays()); err != nil {
			logger.Error("energy_price maintenance error", slog.Any("error", err))
		}

		logger.Info("maintenance task done")
	}
}
