package sizing

import (
	"math"
	"sort"

	"pvsizer/entity"
)

const (
	// OverloadRatio is the assumed DC/AC ratio: an inverter accepts roughly
	// 20% more array power than its nominal AC rating.
	OverloadRatio = 1.2

	// Acceptance band for a combination's supported DC power relative to the
	// target peak power. The upper bound is deliberately loose so that a
	// single unit of an oversized model stays eligible when it is the only
	// viable count; grossly oversized models are still discarded.
	combinationBandLow  = 0.95
	combinationBandHigh = 3.0

	// Unit counts probed above the theoretical minimum.
	probeWindow = 3
)

// SelectInverters enumerates inverter-model and unit-count combinations able
// to support the target DC peak power in watts. One combination is retained
// per model, the unit count with minimal deviation from the target; the
// result is sorted ascending by deviation.
func SelectInverters(targetPeakPower float64, inverters []entity.InverterModel) []entity.InverterCombination {
	if targetPeakPower <= 0 {
		return nil
	}

	requiredACPower := targetPeakPower / OverloadRatio
	var combinations []entity.InverterCombination

	for _, inv := range inverters {
		if inv.MaxACPower <= 0 {
			continue
		}

		minUnits := int(math.Ceil(requiredACPower / inv.MaxACPower))
		if minUnits < 1 {
			minUnits = 1
		}

		var best *entity.InverterCombination
		for units := minUnits; units < minUnits+probeWindow; units++ {
			combinedAC := float64(units) * inv.MaxACPower
			supportedDC := combinedAC * OverloadRatio
			if supportedDC < combinationBandLow*targetPeakPower || supportedDC > combinationBandHigh*targetPeakPower {
				continue
			}
			deviation := math.Abs(supportedDC - targetPeakPower)
			if best == nil || deviation < best.Deviation {
				best = &entity.InverterCombination{
					Inverter:         inv,
					Units:            units,
					CombinedACPower:  combinedAC,
					SupportedDCPower: supportedDC,
					Deviation:        deviation,
				}
			}
		}
		if best != nil {
			combinations = append(combinations, *best)
		}
	}

	sort.Slice(combinations, func(i, j int) bool {
		if combinations[i].Deviation != combinations[j].Deviation {
			return combinations[i].Deviation < combinations[j].Deviation
		}
		return combinations[i].Inverter.Model < combinations[j].Inverter.Model
	})
	return combinations
}
