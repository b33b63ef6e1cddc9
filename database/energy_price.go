package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/icodeforyou/elpris-go/convert"
	"github.com/icodeforyou/elpris-go/hours"
	"github.com/icodeforyou/elpris-go/types"
)

type EnergyPriceRow struct {
	Zone      types.Zone
	Start     time.Time
	Price     float64
	FetchedAt time.Time
}

// SaveEnergyPrices stores the prices of one calendar date, replacing
// whatever was cached for the same hours.
func (d *Database) SaveEnergyPrices(ctx context.Context, zone types.Zone, prices []types.EnergyPrice) error {
	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving energy prices: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	fetchedAt := time.Now().UTC().Format(time.RFC3339)
	for _, p := range prices {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO energy_price (zone, date, start, price, fetched_at) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(zone, start) DO UPDATE SET price = excluded.price, fetched_at = excluded.fetched_at`,
			zone.String(),
			hours.FormatDate(p.Start),
			p.Start.UTC().Format(time.RFC3339),
			convert.RoundFloat64(p.Price, 5),
			fetchedAt)
		if err != nil {
			return fmt.Errorf("saving energy price for %s: %w", p.Start.Format(time.RFC3339), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving energy prices: %w", err)
	}
	d.logger.Debug("saved energy prices", slog.String("zone", zone.String()), slog.Int("count", len(prices)))
	return nil
}

// GetEnergyPrices returns the cached prices of one calendar date in
// Stockholm, ordered by start. An empty result means nothing is cached.
func (d *Database) GetEnergyPrices(ctx context.Context, zone types.Zone, date time.Time) ([]EnergyPriceRow, error) {
	rows, err := d.read.QueryContext(ctx, `
		SELECT start, price, fetched_at
		FROM energy_price
		WHERE zone = ? AND date = ?
		ORDER BY start ASC`,
		zone.String(), hours.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("fetching energy prices: %w", err)
	}
	defer rows.Close()

	var result []EnergyPriceRow
	for rows.Next() {
		var start, fetchedAt string
		r := EnergyPriceRow{Zone: zone}
		if err := rows.Scan(&start, &r.Price, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning energy price row: %w", err)
		}
		if r.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("parsing energy price start: %w", err)
		}
		r.Start = hours.LocationStockholm(r.Start)
		if r.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt); err != nil {
			return nil, fmt.Errorf("parsing energy price fetch time: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading energy price rows: %w", err)
	}

	return result, nil
}

func (d *Database) PurgeEnergyPrice(ctx context.Context, retentionDays int) error {
	before := hours.StartOfDay(time.Now()).AddDate(0, 0, -retentionDays)
	d.logger.Debug("purging energy prices", slog.String("before", hours.FormatDate(before)))

	res, err := d.write.ExecContext(ctx, `DELETE FROM energy_price WHERE date < ?`, hours.FormatDate(before))
	if err != nil {
		return fmt.Errorf("error when purging energy_price: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		d.logger.Warn("can't get rows affected by purge", slog.String("table", "energy_price"), slog.Any("error", err))
	} else {
		d.logger.Debug(fmt.Sprintf("purged %d rows from energy_price", rows))
	}

	return nil
}
