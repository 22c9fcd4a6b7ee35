package entity

// InverterModel is a catalog record with the ratings of one inverter.
// Reference data; never mutated by the solver.
type InverterModel struct {
	Model                      string  `json:"model" bson:"model"`
	Manufacturer               string  `json:"manufacturer" bson:"manufacturer"`
	MaxACPower                 float64 `json:"max_ac_power" bson:"max_ac_power"`
	MaxDCVoltage               float64 `json:"max_dc_voltage" bson:"max_dc_voltage"`
	StartVoltage               float64 `json:"start_voltage" bson:"start_voltage"`
	MaxMPPTCurrent             float64 `json:"max_mppt_current" bson:"max_mppt_current"`
	MaxMPPTShortCircuitCurrent float64 `json:"max_mppt_short_circuit_current" bson:"max_mppt_short_circuit_current"`
	MPPTCount                  int     `json:"mppt_count" bson:"mppt_count"`
	MaxPVPower                 float64 `json:"max_pv_power" bson:"max_pv_power"`
	MPPTVoltageRange           string  `json:"mppt_voltage_range" bson:"mppt_voltage_range"`
	NominalACVoltage           float64 `json:"nominal_ac_voltage" bson:"nominal_ac_voltage"`
	GridFrequency              float64 `json:"grid_frequency" bson:"grid_frequency"`
	MaxOutputCurrent           float64 `json:"max_output_current" bson:"max_output_current"`
	PowerFactorRange           string  `json:"power_factor_range" bson:"power_factor_range"`
	ACPhases                   int     `json:"ac_phases" bson:"ac_phases"`
}
