package maestro

import (
	"fmt"

	"github.com/robotalks/maestro.go/pkg/maestro/protocol"
	"github.com/robotalks/maestro.go/pkg/maestro/units"
)

// SetPWM sets the PWM output on time and period in microseconds.
// Not available on the micro variant.
func (s *Session) SetPWM(onTimeUs, periodUs float64) error {
	if err := s.checkConnected(); err != nil {
		return err
	}
	if err := s.Variant.require(s.Variant.PWM, "SetPWM"); err != nil {
		return err
	}
	onTime, period, err := units.ToPWM(onTimeUs, periodUs)
	if err != nil {
		return fmt.Errorf("pwm: %w", err)
	}
	return s.send(protocol.SetPWM(onTime, period))
}

func (s *Session) checkAnalogChannel(channel int) error {
	if err := s.checkAccess(channel); err != nil {
		return err
	}
	if channel >= s.Variant.AnalogChannels {
		return fmt.Errorf("%w: %d is not an analog input", ErrInvalidChannel, channel)
	}
	return nil
}

// GetAnalog reads a channel configured as analog input, in volts.
func (s *Session) GetAnalog(channel int) (float64, error) {
	if err := s.checkAnalogChannel(channel); err != nil {
		return 0, err
	}
	raw, err := s.positionRaw(channel)
	if err != nil {
		return 0, err
	}
	return units.ToVolts(raw), nil
}

// GetDigital reads a channel configured as digital input.
func (s *Session) GetDigital(channel int) (bool, error) {
	if err := s.checkAccess(channel); err != nil {
		return false, err
	}
	raw, err := s.positionRaw(channel)
	if err != nil {
		return false, err
	}
	return units.ToDigital(raw), nil
}

// SetDigital drives a channel configured as digital output.
func (s *Session) SetDigital(channel int, high bool) error {
	return s.SetTarget(channel, units.FromDigital(high))
}
