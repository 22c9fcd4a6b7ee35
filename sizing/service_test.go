package sizing

import (
	"testing"

	"pvsizer/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	panels    []entity.PanelModel
	inverters []entity.InverterModel
}

func (f *fakeRepo) GetPanels() ([]entity.PanelModel, error) {
	return f.panels, nil
}

func (f *fakeRepo) GetInverters() ([]entity.InverterModel, error) {
	return f.inverters, nil
}

// fakeEstimator yields perKwYield kWh per year per kW of capacity. The first
// call is the 1 kW reference, any later one the realized-capacity lookup.
type fakeEstimator struct {
	perKwYield  float64
	monthly     []float64
	refErr      error
	realizedErr error
	calls       int
}

func (f *fakeEstimator) EstimateYield(_ entity.Site, capacityKw float64) (*entity.YieldEstimate, error) {
	f.calls++
	if f.calls == 1 && f.refErr != nil {
		return nil, f.refErr
	}
	if f.calls > 1 && f.realizedErr != nil {
		return nil, f.realizedErr
	}
	estimate := &entity.YieldEstimate{Annual: f.perKwYield * capacityKw}
	if len(f.monthly) == 12 {
		estimate.Monthly = make([]float64, 12)
		for i, m := range f.monthly {
			estimate.Monthly[i] = m * capacityKw
		}
	}
	return estimate, nil
}

type nopLogger struct{}

func (nopLogger) FeatureEvent(string, string, string) {}
func (nopLogger) Debug(string)                        {}
func (nopLogger) Warn(string)                         {}
func (nopLogger) Error(string, error)                 {}

func referenceCatalog() *fakeRepo {
	return &fakeRepo{
		panels:    []entity.PanelModel{panel("P-400", 400, 40, 10)},
		inverters: []entity.InverterModel{inverter("INV-5000", 5000, 2)},
	}
}

func referenceRequest(consumption float64) entity.SizingRequest {
	return entity.SizingRequest{
		MonthlyConsumption: consumption,
		Site:               entity.Site{Latitude: -20.46, Longitude: -54.62, Azimuth: 0, Tilt: 20},
	}
}

func flatMonthly(v float64) []float64 {
	monthly := make([]float64, 12)
	for i := range monthly {
		monthly[i] = v
	}
	return monthly
}

func TestDimension_ReferenceScenario(t *testing.T) {
	estimator := &fakeEstimator{perKwYield: 1500, monthly: flatMonthly(125)}
	service := NewService(referenceCatalog(), estimator, nopLogger{})

	result, err := service.Dimension("test", referenceRequest(300))
	require.NoError(t, err)
	require.Len(t, result.Options, 1)

	// 300 kWh/mo at 1500 kWh/yr per kW: 2.4 kWp required.
	assert.InDelta(t, 2.4, result.PeakPower, 1e-9)

	option := result.Options[0]
	assert.Equal(t, 1, option.Combination.Units)
	assert.Equal(t, 3, option.Arrangement.Series)
	assert.Equal(t, 1, option.Arrangement.Parallel)
	assert.InDelta(t, 2400, option.TotalPower, 1e-9)
	assert.Equal(t, 6, option.PanelCount)
	assert.InDelta(t, 2.4, option.RequiredPeakPower, 1e-9)
	assert.InDelta(t, 3600, option.AnnualConsumption, 1e-9)

	require.NotNil(t, option.AnnualEnergy)
	assert.InDelta(t, 3600, *option.AnnualEnergy, 1e-9)
	require.Len(t, option.MonthlyEnergy, 12)
	assert.InDelta(t, 300, option.MonthlyEnergy[0], 1e-9)

	assert.Equal(t, 2, estimator.calls, "one reference call and one realized call")
}

func TestDimension_InvalidConsumption(t *testing.T) {
	estimator := &fakeEstimator{perKwYield: 1500}
	service := NewService(referenceCatalog(), estimator, nopLogger{})

	for _, consumption := range []float64{0, -10} {
		_, err := service.Dimension("test", referenceRequest(consumption))
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Equal(t, 0, estimator.calls, "estimator must not be called on invalid input")
}

func TestDimension_EstimationUnavailable(t *testing.T) {
	service := NewService(referenceCatalog(), &fakeEstimator{refErr: assert.AnError}, nopLogger{})
	_, err := service.Dimension("test", referenceRequest(300))
	assert.ErrorIs(t, err, ErrEstimationUnavailable)

	// Zero yield reported by the simulation counts as unavailable too.
	service = NewService(referenceCatalog(), &fakeEstimator{perKwYield: 0}, nopLogger{})
	_, err = service.Dimension("test", referenceRequest(300))
	assert.ErrorIs(t, err, ErrEstimationUnavailable)
}

func TestDimension_EmptyCatalog(t *testing.T) {
	estimator := &fakeEstimator{perKwYield: 1500}

	repo := referenceCatalog()
	repo.inverters = nil
	service := NewService(repo, estimator, nopLogger{})
	_, err := service.Dimension("test", referenceRequest(300))
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	repo = referenceCatalog()
	repo.panels = nil
	service = NewService(repo, &fakeEstimator{perKwYield: 1500}, nopLogger{})
	_, err = service.Dimension("test", referenceRequest(300))
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestDimension_NoInverterCombination(t *testing.T) {
	repo := referenceCatalog()
	repo.inverters = []entity.InverterModel{inverter("huge", 50000, 2)}
	service := NewService(repo, &fakeEstimator{perKwYield: 1500}, nopLogger{})
	_, err := service.Dimension("test", referenceRequest(300))
	assert.ErrorIs(t, err, ErrNoInverterCombination)
}

func TestDimension_NoValidArrangement(t *testing.T) {
	repo := referenceCatalog()
	// Start voltage above any reachable string voltage.
	inv := inverter("INV-5000", 5000, 2)
	inv.StartVoltage = 480
	inv.MaxDCVoltage = 500
	repo.inverters = []entity.InverterModel{inv}
	service := NewService(repo, &fakeEstimator{perKwYield: 1500}, nopLogger{})
	_, err := service.Dimension("test", referenceRequest(300))
	assert.ErrorIs(t, err, ErrNoValidArrangement)
}

func TestDimension_RealizedYieldFailureIsNonFatal(t *testing.T) {
	estimator := &fakeEstimator{perKwYield: 1500, monthly: flatMonthly(125), realizedErr: assert.AnError}
	service := NewService(referenceCatalog(), estimator, nopLogger{})

	result, err := service.Dimension("test", referenceRequest(300))
	require.NoError(t, err)
	require.Len(t, result.Options, 1)

	option := result.Options[0]
	assert.Nil(t, option.AnnualEnergy, "annual energy stays absent when the lookup fails")
	// Monthly series falls back to the 1 kW reference scaled by capacity.
	require.Len(t, option.MonthlyEnergy, 12)
	assert.InDelta(t, 125*2.4, option.MonthlyEnergy[0], 1e-9)
}

func TestDimension_Idempotent(t *testing.T) {
	first, err := NewService(referenceCatalog(), &fakeEstimator{perKwYield: 1500}, nopLogger{}).
		Dimension("test", referenceRequest(300))
	require.NoError(t, err)
	second, err := NewService(referenceCatalog(), &fakeEstimator{perKwYield: 1500}, nopLogger{}).
		Dimension("test", referenceRequest(300))
	require.NoError(t, err)
	assert.Equal(t, first.Options, second.Options)
	assert.Equal(t, first.PeakPower, second.PeakPower)
}

func TestRequiredPeakPower_Monotonic(t *testing.T) {
	previous := 0.0
	for _, consumption := range []float64{100, 200, 300, 450, 1000} {
		service := NewService(referenceCatalog(), &fakeEstimator{perKwYield: 1500}, nopLogger{})
		peak, err := service.RequiredPeakPower(referenceRequest(consumption))
		require.NoError(t, err)
		assert.Greater(t, peak, previous)
		previous = peak
	}
}
