package sizing

import "errors"

// Every sizing error is terminal for the current request; none is retried
// internally.
var (
	ErrInvalidInput          = errors.New("monthly consumption must be positive")
	ErrEstimationUnavailable = errors.New("yield estimation unavailable")
	ErrCatalogUnavailable    = errors.New("equipment catalog unavailable")
	ErrNoInverterCombination = errors.New("no valid inverter combination found")
	ErrNoValidArrangement    = errors.New("no valid panel arrangement found")
)
