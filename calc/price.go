package calc

// BuyPrice is what a consumer pays for kWh bought at a spot price, with
// energy tax added and grid benefit deducted, all in SEK/kWh.
func BuyPrice(kWh, price, energyTax, gridBenefit float64) float64 {
	return kWh * (price + energyTax - gridBenefit)
}

// ChargingCost estimates the cost of charging at powerKW during a window
// of the given length and average spot price.
func ChargingCost(powerKW float64, hours int, avgPrice, energyTax, gridBenefit float64) float64 {
	return BuyPrice(powerKW*float64(hours), avgPrice, energyTax, gridBenefit)
}
