package nordpool

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/icodeforyou/elpris-go/hours"
	"github.com/icodeforyou/elpris-go/types"
)

const DefaultBaseURL = "https://dataportal-api.nordpoolgroup.com"

type Nordpool struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) Nordpool {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Nordpool{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (n Nordpool) Name() string {
	return "nordpool"
}

func (n Nordpool) GetEnergyPrices(ctx context.Context, zone types.Zone, date time.Time) ([]types.EnergyPrice, error) {
	url := fmt.Sprintf("%s/api/DayAheadPrices?date=%s&market=DayAhead&deliveryArea=%s&currency=SEK",
		n.baseURL,
		hours.FormatDate(date),
		zone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	// Nordpool answers 204 when the auction result is not out yet
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return []types.EnergyPrice{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var data nordpoolData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	prices := make([]types.EnergyPrice, 0, len(data.MultiAreaEntries))
	for _, entry := range data.MultiAreaEntries {
		price, ok := entry.EntryPerArea[zone.String()]
		if !ok {
			continue
		}
		prices = append(prices, types.EnergyPrice{
			Start: hours.LocationStockholm(entry.DeliveryStart),
			Price: price,
		})
	}

	hourly := types.Hourly(prices)
	for i := range hourly {
		hourly[i].Price = normalizePrice(hourly[i].Price)
	}
	return hourly, nil
}

// SEK/MWh to SEK/kWh with four decimals
func normalizePrice(price float64) float64 {
	precision := math.Pow(10, float64(4))
	return math.Round(price*precision/1e3) / precision
}
