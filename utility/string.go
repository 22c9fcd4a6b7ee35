package utility

import (
	"strconv"

	"github.com/google/uuid"
)

// WattsToKilowatts formats a power in watts as a kW string like 2400 to "2.40"
func WattsToKilowatts(w float64) string {
	return strconv.FormatFloat(w/1000.0, 'f', 2, 64)
}

func NewUUID() string {
	return uuid.New().String()
}
