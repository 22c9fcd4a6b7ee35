package entity

import "time"

// Site is the location and orientation of the planned array.
type Site struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
	Azimuth   float64 `json:"azimuth" bson:"azimuth"`
	Tilt      float64 `json:"tilt" bson:"tilt"`
}

// SizingRequest holds the input of one dimensioning run.
type SizingRequest struct {
	MonthlyConsumption float64 `json:"monthly_consumption" bson:"monthly_consumption"`
	Site               Site    `json:"site" bson:"site"`
}

// InverterCombination is one inverter model taken N times. SupportedDCPower
// already includes the assumed DC/AC overload margin.
type InverterCombination struct {
	Inverter         InverterModel `json:"inverter" bson:"inverter"`
	Units            int           `json:"units" bson:"units"`
	CombinedACPower  float64       `json:"combined_ac_power" bson:"combined_ac_power"`
	SupportedDCPower float64       `json:"supported_dc_power" bson:"supported_dc_power"`
	Deviation        float64       `json:"deviation" bson:"deviation"`
}

// PanelArrangement is the series/parallel wiring of one panel model on a
// single MPPT input.
type PanelArrangement struct {
	Panel       PanelModel `json:"panel" bson:"panel"`
	Series      int        `json:"series" bson:"series"`
	Parallel    int        `json:"parallel" bson:"parallel"`
	MPPTPower   float64    `json:"mppt_power" bson:"mppt_power"`
	MPPTCurrent float64    `json:"mppt_current" bson:"mppt_current"`
	Deviation   float64    `json:"deviation" bson:"deviation"`
}

// SizingOption is one fully composed result row: an inverter combination with
// its arrangement replicated across all MPPT inputs and all units. Energy
// figures are attached after the final yield lookup and stay nil when that
// lookup fails.
type SizingOption struct {
	Combination InverterCombination `json:"combination" bson:"combination"`
	Arrangement PanelArrangement    `json:"arrangement" bson:"arrangement"`
	TotalPower  float64             `json:"total_power" bson:"total_power"`
	PanelCount  int                 `json:"panel_count" bson:"panel_count"`

	RequiredPeakPower float64   `json:"required_peak_power" bson:"required_peak_power"`
	AnnualConsumption float64   `json:"annual_consumption" bson:"annual_consumption"`
	AnnualEnergy      *float64  `json:"annual_energy,omitempty" bson:"annual_energy,omitempty"`
	MonthlyEnergy     []float64 `json:"monthly_energy,omitempty" bson:"monthly_energy,omitempty"`
}

// YieldEstimate is what the external simulation reports for a given capacity.
type YieldEstimate struct {
	Annual  float64   `json:"annual" bson:"annual"`
	Monthly []float64 `json:"monthly,omitempty" bson:"monthly,omitempty"`
}

// SizingResult is the persisted outcome of one dimensioning run.
type SizingResult struct {
	Id        string         `json:"sizing_id" bson:"sizing_id"`
	Time      time.Time      `json:"time" bson:"time"`
	Request   SizingRequest  `json:"request" bson:"request"`
	PeakPower float64        `json:"peak_power" bson:"peak_power"`
	Options   []SizingOption `json:"options" bson:"options"`
}

func (sr *SizingResult) DataType() string {
	return "sizingResult"
}
