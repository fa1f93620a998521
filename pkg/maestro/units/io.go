package units

const (
	// AnalogMax is the raw reading of a full scale analog input.
	AnalogMax = 1023
	// AnalogVolts is the full scale voltage of analog inputs.
	AnalogVolts = 5.0
	// DigitalThreshold is the lowest raw reading of a high digital input.
	DigitalThreshold = 512
	// DigitalHigh is the target driving a digital output high.
	DigitalHigh = 1500.0
)

// ToVolts converts a raw analog input reading.
func ToVolts(raw uint16) float64 {
	return AnalogVolts * float64(raw) / AnalogMax
}

// ToDigital converts a raw input reading to a logic level.
func ToDigital(raw uint16) bool {
	return raw >= DigitalThreshold
}

// FromDigital converts a logic level to a target in microseconds.
func FromDigital(high bool) float64 {
	if high {
		return DigitalHigh
	}
	return 0
}
