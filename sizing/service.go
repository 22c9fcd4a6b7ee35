package sizing

import (
	"fmt"
	"time"

	"pvsizer/entity"
	"pvsizer/internal"
	"pvsizer/utility"
)

const featureName = "Dimensioning"

// Service runs one complete dimensioning request: required peak power, then
// inverter selection, then array composition per retained combination, then
// the realized-yield lookup. Requests are independent computations over a
// catalog snapshot; the Service itself holds no mutable state.
type Service struct {
	repository Repository
	estimator  Estimator
	log        internal.LogHandler
}

func NewService(repository Repository, estimator Estimator, log internal.LogHandler) *Service {
	return &Service{
		repository: repository,
		estimator:  estimator,
		log:        log,
	}
}

// RequiredPeakPower converts target annual consumption into a required peak
// capacity in kW, using a 1 kW reference simulation at the request site.
func (s *Service) RequiredPeakPower(request entity.SizingRequest) (float64, error) {
	peak, _, err := s.requiredPeakPower(request)
	return peak, err
}

func (s *Service) requiredPeakPower(request entity.SizingRequest) (float64, *entity.YieldEstimate, error) {
	if request.MonthlyConsumption <= 0 {
		return 0, nil, ErrInvalidInput
	}
	reference, err := s.estimator.EstimateYield(request.Site, 1.0)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrEstimationUnavailable, err)
	}
	if reference == nil || reference.Annual <= 0 {
		return 0, nil, fmt.Errorf("%w: reference simulation returned no yield", ErrEstimationUnavailable)
	}
	annualConsumption := request.MonthlyConsumption * 12
	return annualConsumption / reference.Annual, reference, nil
}

// Dimension composes the full ranked table of sizing options. The first row
// is the recommended one. A failure of the final realized-yield lookup is
// downgraded to absent energy fields; every other error aborts the request.
func (s *Service) Dimension(requestId string, request entity.SizingRequest) (*entity.SizingResult, error) {
	peakKw, reference, err := s.requiredPeakPower(request)
	if err != nil {
		return nil, err
	}
	s.log.FeatureEvent(featureName, requestId, fmt.Sprintf("required peak power %.3f kWp", peakKw))

	panels, err := s.repository.GetPanels()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	inverters, err := s.repository.GetInverters()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if len(panels) == 0 || len(inverters) == 0 {
		return nil, ErrCatalogUnavailable
	}

	peakWatts := peakKw * 1000
	combinations := SelectInverters(peakWatts, inverters)
	if len(combinations) == 0 {
		return nil, ErrNoInverterCombination
	}
	s.log.FeatureEvent(featureName, requestId, fmt.Sprintf("retained %d inverter combinations", len(combinations)))

	annualConsumption := request.MonthlyConsumption * 12
	var options []entity.SizingOption
	for _, combination := range combinations {
		perInverter := peakWatts / float64(combination.Units)
		arrangement := ComposeArray(perInverter, combination.Inverter, panels)
		if arrangement == nil {
			s.log.FeatureEvent(featureName, requestId,
				fmt.Sprintf("no arrangement for %s x%d at %s kW, skipping",
					combination.Inverter.Model, combination.Units, utility.WattsToKilowatts(perInverter)))
			continue
		}
		replicas := combination.Inverter.MPPTCount * combination.Units
		options = append(options, entity.SizingOption{
			Combination:       combination,
			Arrangement:       *arrangement,
			TotalPower:        arrangement.MPPTPower * float64(replicas),
			PanelCount:        arrangement.Series * arrangement.Parallel * replicas,
			RequiredPeakPower: peakKw,
			AnnualConsumption: annualConsumption,
		})
	}
	if len(options) == 0 {
		return nil, ErrNoValidArrangement
	}

	s.attachEnergy(requestId, request.Site, peakKw, reference, options)

	return &entity.SizingResult{
		Id:        requestId,
		Time:      time.Now().UTC(),
		Request:   request,
		PeakPower: peakKw,
		Options:   options,
	}, nil
}

// attachEnergy re-queries the estimator at the solved capacity. When the call
// fails the annual figure stays absent and the monthly series falls back to
// the 1 kW reference scaled by the capacity.
func (s *Service) attachEnergy(requestId string, site entity.Site, peakKw float64, reference *entity.YieldEstimate, options []entity.SizingOption) {
	var annual *float64
	var monthly []float64

	realized, err := s.estimator.EstimateYield(site, peakKw)
	if err != nil || realized == nil || realized.Annual <= 0 {
		s.log.Warn(fmt.Sprintf("[%s] realized yield lookup failed, returning options without energy figures", requestId))
	} else {
		annual = &realized.Annual
		monthly = realized.Monthly
	}
	if len(monthly) != 12 && len(reference.Monthly) == 12 {
		monthly = make([]float64, 12)
		for i, m := range reference.Monthly {
			monthly[i] = m * peakKw
		}
	}
	if len(monthly) != 12 {
		monthly = nil
	}

	for i := range options {
		options[i].AnnualEnergy = annual
		options[i].MonthlyEnergy = monthly
	}
}
