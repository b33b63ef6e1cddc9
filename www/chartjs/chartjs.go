package chartjs

import (
	"math"
)

const ColorYellow = "#ffc107d4"
const ColorGreen = "#4caf50d4"

// NewChart returns a line chart with one point per label: the price in the
// first dataset and the highlighted cheapest window in the second.
func NewChart(title string, labels []string) Chart {
	chart := Chart{
		Type: "line",
		Data: ChartData{
			Labels: labels,
			Datasets: []ChartDataset{
				{
					Label:       "Pris",
					Data:        make([]*float64, len(labels)),
					BorderWidth: 1,
					Tension:     0.4,
					Fill:        false,
					BorderColor: ColorYellow,
					YAxisID:     "YAxis1",
				},
				{
					Label:       "Billigaste fönster",
					Data:        make([]*float64, len(labels)),
					BorderWidth: 2,
					Tension:     0.4,
					Fill:        true,
					BorderColor: ColorGreen,
					YAxisID:     "YAxis1",
				},
			},
		},
		Options: ChartOptions{
			Responsive: true,
			Plugins: ChartPlugins{
				Legend: ChartLegend{Display: true},
				Title:  ChartTitle{Display: false},
			},
			Scales: map[string]ChartScale{
				"YAxis1": {
					Type:     "linear",
					Display:  true,
					Position: "left",
					Title:    ChartScaleTitle{Display: true, Text: "", Color: ColorYellow}},
			},
		},
	}

	if title != "" {
		chart.Options.Plugins.Title = ChartTitle{Display: true, Text: title}
	}

	return chart
}

func (cs ChartScale) WithTitle(title string) ChartScale {
	cs.Title.Text = title
	return cs
}

func (cs ChartScale) WithMinAndMax(min, max float64) ChartScale {
	cs.Min = &min
	cs.Max = &max
	return cs
}

func FixedFloat64(num float64, precision int) *float64 {
	p := math.Pow(10, float64(precision))
	rounded := math.Round(num * p)
	result := rounded / p
	return &result
}
