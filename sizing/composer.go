package sizing

import (
	"math"

	"pvsizer/entity"
)

// Acceptance band for an arrangement's power relative to the per-MPPT
// target. Tighter than the inverter band: the array must closely match.
const (
	arrangementBandLow  = 0.9
	arrangementBandHigh = 1.1
)

// ComposeArray searches panel series/parallel wirings for one inverter of a
// combination. The target power is divided evenly across the inverter's MPPT
// inputs; the series count is bounded by the inverter voltage window and the
// parallel count by the MPPT current limit and the power band. Returns the
// arrangement with minimal deviation from the per-MPPT target, or nil when
// no panel model fits.
func ComposeArray(targetPower float64, inv entity.InverterModel, panels []entity.PanelModel) *entity.PanelArrangement {
	if targetPower <= 0 || inv.MPPTCount <= 0 {
		return nil
	}
	if inv.StartVoltage <= 0 || inv.MaxDCVoltage <= 0 || inv.MaxMPPTCurrent <= 0 {
		return nil
	}

	maxCurrent := inv.MaxMPPTCurrent
	if inv.MaxMPPTShortCircuitCurrent > 0 && inv.MaxMPPTShortCircuitCurrent < maxCurrent {
		maxCurrent = inv.MaxMPPTShortCircuitCurrent
	}

	mpptTarget := targetPower / float64(inv.MPPTCount)
	powerLow := mpptTarget * arrangementBandLow
	powerHigh := mpptTarget * arrangementBandHigh

	var best *entity.PanelArrangement

	for _, panel := range panels {
		if !panel.IsValid() {
			continue
		}

		maxSeries := int(inv.MaxDCVoltage / panel.OpenCircuitVoltage)
		for series := 1; series <= maxSeries; series++ {
			voltage := float64(series) * panel.OpenCircuitVoltage
			if voltage < inv.StartVoltage || voltage > inv.MaxDCVoltage {
				continue
			}
			stringPower := float64(series) * panel.MaxPower

			maxParallelByCurrent := int(maxCurrent / panel.ShortCircuitCurrent)
			maxParallelByPower := int(powerHigh / stringPower)
			maxParallel := maxParallelByCurrent
			if maxParallelByPower < maxParallel {
				maxParallel = maxParallelByPower
			}

			for parallel := 1; parallel <= maxParallel; parallel++ {
				power := stringPower * float64(parallel)
				current := panel.ShortCircuitCurrent * float64(parallel)
				if power < powerLow || power > powerHigh || current > maxCurrent {
					continue
				}
				deviation := math.Abs(power - mpptTarget)
				if best == nil || deviation < best.Deviation {
					best = &entity.PanelArrangement{
						Panel:       panel,
						Series:      series,
						Parallel:    parallel,
						MPPTPower:   power,
						MPPTCurrent: current,
						Deviation:   deviation,
					}
				}
			}
		}
	}
	return best
}
