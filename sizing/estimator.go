package sizing

import "pvsizer/entity"

// Estimator queries the external irradiance simulation for the energy yield
// of a system with the given peak capacity in kW.
type Estimator interface {
	EstimateYield(site entity.Site, capacityKw float64) (*entity.YieldEstimate, error)
}
