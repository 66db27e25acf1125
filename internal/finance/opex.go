package finance

import "gonum.org/v1/gonum/floats"

// AggregateOPEX sums yearly energy cost over volumes. A year with a matching
// price costs volume*price; a year past the end of prices costs the flat
// maintenance charge instead. maintenanceCost is then added once more as a
// trailing term (MaintenanceLegacy), so empty inputs yield maintenanceCost.
func AggregateOPEX(volumes, prices []float64, maintenanceCost float64) float64 {
	return aggregateOPEX(volumes, prices, maintenanceCost, MaintenanceLegacy)
}

func aggregateOPEX(volumes, prices []float64, maintenanceCost float64, policy MaintenancePolicy) float64 {
	yearly := make([]float64, len(volumes))
	for t, v := range volumes {
		if t < len(prices) {
			yearly[t] = v * prices[t]
		} else {
			yearly[t] = maintenanceCost
		}
	}

	total := floats.Sum(yearly)
	if policy != MaintenanceOnce {
		total += maintenanceCost
	}
	return total
}

// OPEX returns the total operating expenditure of profile.
func (c Calculator) OPEX(profile EnergyProfile, maintenanceCost float64) float64 {
	return aggregateOPEX(profile.Volumes, profile.Prices, maintenanceCost, c.policy())
}
