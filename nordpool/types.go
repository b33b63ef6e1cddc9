package nordpool

import "time"

type nordpoolData struct {
	DeliveryDateCET  string           `json:"deliveryDateCET"`
	Version          int              `json:"version"`
	UpdatedAt        time.Time        `json:"updatedAt"`
	DeliveryAreas    []string         `json:"deliveryAreas"`
	Market           string           `json:"market"`
	Currency         string           `json:"currency"`
	MultiAreaEntries []multiAreaEntry `json:"multiAreaEntries"`
	AreaStates       []areaState      `json:"areaStates"`
	AreaAverages     []areaAverage    `json:"areaAverages"`
}

type multiAreaEntry struct {
	DeliveryStart time.Time          `json:"deliveryStart"`
	DeliveryEnd   time.Time          `json:"deliveryEnd"`
	EntryPerArea  map[string]float64 `json:"entryPerArea"`
}

type areaState struct {
	State string   `json:"state"` // "Final" or "Preliminary"
	Areas []string `json:"areas"`
}

type areaAverage struct {
	AreaCode string  `json:"areaCode"`
	Price    float64 `json:"price"`
}
