package pv

import "sort"

// systemLifetimeYears annualizes the capital cost of an installation.
const systemLifetimeYears = 20

// Unit costs per kW of peak capacity; small installations pay more per kW.
const (
	smallSystemMaxKW   = 10
	unitCostSmallPerKW = 3500.07
	unitCostLargePerKW = 2500.07
)

// CapitalCost returns the annualized capital cost of the installed PV
// capacity (currency/year). Piecewise linear in peak capacity: the breakpoint
// capacity itself already uses the lower unit cost.
func CapitalCost(pPeakKW float64) (float64, error) {
	if pPeakKW < 0 {
		return 0, &InvalidArgumentError{Op: "capital cost", Value: pPeakKW}
	}
	unitCost := unitCostLargePerKW
	if pPeakKW < smallSystemMaxKW {
		unitCost = unitCostSmallPerKW
	}
	return unitCost * pPeakKW / systemLifetimeYears, nil
}

// KEV feed-in remuneration schedule: tariff rate (Rp/kWh) over installed
// capacity (kW), monotone non-increasing. Breakpoint values are regulatory
// constants.
var (
	kevCapacityKW = []float64{
		0, 9.99, 10, 12, 15, 20, 29, 30, 40, 50, 60, 70, 80, 90, 100,
		200, 300, 400, 500, 750, 1000, 1500, 2000, 1000000,
	}
	kevTariffRp = []float64{
		0, 0, 20.4, 20.4, 20.4, 20.4, 20.4, 20.4, 19.7, 19.3, 19, 18.9,
		18.7, 18.6, 18.5, 18.1, 17.9, 17.8, 17.8, 17.7, 17.7, 17.7, 17.6, 17.6,
	}
)

// FeedInTariff returns the KEV remuneration rate in Rp/kWh for an
// installation of the given nominal capacity in Wh. Capacities outside the
// regulatory schedule fail with a RangeError rather than extrapolating.
func FeedInTariff(eNomWh float64) (float64, error) {
	capacityKW := eNomWh / 1000

	maxKW := kevCapacityKW[len(kevCapacityKW)-1]
	if capacityKW < 0 || capacityKW > maxKW {
		return 0, &RangeError{Op: "feed-in tariff", Value: capacityKW, Min: 0, Max: maxKW}
	}

	// First breakpoint >= capacity.
	idx := sort.SearchFloat64s(kevCapacityKW, capacityKW)
	if idx == 0 {
		return kevTariffRp[0], nil
	}
	x0, x1 := kevCapacityKW[idx-1], kevCapacityKW[idx]
	y0, y1 := kevTariffRp[idx-1], kevTariffRp[idx]
	frac := (capacityKW - x0) / (x1 - x0)
	return y0 + frac*(y1-y0), nil
}
