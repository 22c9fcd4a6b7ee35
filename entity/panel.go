package entity

// PanelModel is a catalog record with the electrical ratings of one
// photovoltaic module. Reference data; never mutated by the solver.
type PanelModel struct {
	Model               string  `json:"model" bson:"model"`
	Manufacturer        string  `json:"manufacturer" bson:"manufacturer"`
	MaxPower            float64 `json:"max_power" bson:"max_power"`
	OpenCircuitVoltage  float64 `json:"open_circuit_voltage" bson:"open_circuit_voltage"`
	ShortCircuitCurrent float64 `json:"short_circuit_current" bson:"short_circuit_current"`
	OptimalVoltage      float64 `json:"optimal_voltage" bson:"optimal_voltage"`
	OptimalCurrent      float64 `json:"optimal_current" bson:"optimal_current"`
	Efficiency          float64 `json:"efficiency" bson:"efficiency"`
}

// IsValid reports whether the record carries the ratings the composer needs.
func (p *PanelModel) IsValid() bool {
	return p.OpenCircuitVoltage > 0 && p.ShortCircuitCurrent > 0 && p.MaxPower > 0
}
