package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/icodeforyou/elpris-go/config"
	"github.com/icodeforyou/elpris-go/metrics"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	EnergyPriceTask func()
	MaintenanceTask func() // nil when the cache is disabled
}

// NewTasks builds the scheduled tasks. db and publisher may be nil.
func NewTasks(
	src SeriesSource,
	db Purger,
	publisher WindowPublisher,
	m *metrics.Metrics,
	cnfg *config.AppConfig,
) (*Tasks, error) {
	zones, err := cnfg.EnergyPrice.GetZones()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("module", "tasks")
	t := &Tasks{
		cron: cron.New(),
		cnfg: cnfg,
		EnergyPriceTask: NewEnergyPriceTask(
			logger.With(slog.String("task", "energy_price")), src, zones, cnfg.Charging.GetWindows(), publisher, m),
	}
	if db != nil {
		t.MaintenanceTask = NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg)
	}
	return t, nil
}

func (t *Tasks) Run() error {
	if _, err := t.cron.AddFunc(t.cnfg.EnergyPrice.GetRunAt(), t.EnergyPriceTask); err != nil {
		return fmt.Errorf("scheduling energy price task: %w", err)
	}
	if t.MaintenanceTask != nil {
		if _, err := t.cron.AddFunc("30 2 * * *", t.MaintenanceTask); err != nil {
			return fmt.Errorf("scheduling maintenance task: %w", err)
		}
	}
	t.cron.Start()
	return nil
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
