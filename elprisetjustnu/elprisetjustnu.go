package elprisetjustnu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/icodeforyou/elpris-go/hours"
	"github.com/icodeforyou/elpris-go/types"
)

const DefaultBaseURL = "https://www.elprisetjustnu.se"

type rawPrice struct {
	SEKPerKWh float64   `json:"SEK_per_kWh"`
	EURPerKWh float64   `json:"EUR_per_kWh"`
	EXR       float64   `json:"EXR"`
	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end"`
}

type ElPrisetJustNu struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) ElPrisetJustNu {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return ElPrisetJustNu{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (e ElPrisetJustNu) Name() string {
	return "elprisetjustnu"
}

func (e ElPrisetJustNu) GetEnergyPrices(ctx context.Context, zone types.Zone, date time.Time) ([]types.EnergyPrice, error) {
	d := hours.LocationStockholm(date)
	url := fmt.Sprintf("%s/api/v1/prices/%d/%02d-%02d_%s.json",
		e.baseURL, d.Year(), int(d.Month()), d.Day(), zone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	// Not published yet
	if resp.StatusCode == http.StatusNotFound {
		return []types.EnergyPrice{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rawPrices []rawPrice
	if err := json.NewDecoder(resp.Body).Decode(&rawPrices); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	prices := make([]types.EnergyPrice, 0, len(rawPrices))
	for _, raw := range rawPrices {
		prices = append(prices, types.EnergyPrice{
			Start: hours.LocationStockholm(raw.TimeStart),
			Price: raw.SEKPerKWh,
		})
	}

	return types.Hourly(prices), nil
}
