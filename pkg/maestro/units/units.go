// Package units converts between microseconds and Maestro native units.
package units

import (
	"errors"
	"fmt"
	"math"

	"github.com/robotalks/maestro.go/pkg/maestro/protocol"
)

const (
	// TicksPerMicrosecond is the target resolution (quarter-microseconds).
	TicksPerMicrosecond = 4
	// PWMTicksPerMicrosecond is the PWM resolution (1/48 microseconds).
	PWMTicksPerMicrosecond = 48
	// MaxNative is the largest native target.
	MaxNative = protocol.MaxValue
	// MaxMicroseconds is the largest representable target.
	MaxMicroseconds = float64(MaxNative) / TicksPerMicrosecond
	// MaxPWMPeriod is the largest PWM period in microseconds.
	MaxPWMPeriod = float64(MaxNative) / PWMTicksPerMicrosecond
	// MaxRate bounds speed and acceleration.
	MaxRate = 255
)

var (
	// ErrValueOutOfRange indicates a value can't be encoded.
	ErrValueOutOfRange = protocol.ErrValueOutOfRange
	// ErrLimitViolation indicates a target outside configured limits.
	ErrLimitViolation = errors.New("limit violation")
)

func scale(us float64, ticks float64) (uint16, error) {
	if math.IsNaN(us) {
		return 0, fmt.Errorf("%w: NaN", ErrValueOutOfRange)
	}
	v := math.Round(us * ticks)
	if v < 0 || v > MaxNative {
		return 0, fmt.Errorf("%w: %v µs not in [0, %v]", ErrValueOutOfRange, us, MaxNative/ticks)
	}
	return uint16(v), nil
}

// ToNative converts microseconds to quarter-microsecond ticks.
func ToNative(us float64) (uint16, error) {
	return scale(us, TicksPerMicrosecond)
}

// ToMicroseconds converts quarter-microsecond ticks to microseconds.
func ToMicroseconds(native uint16) float64 {
	return float64(native) / TicksPerMicrosecond
}

// Quantize rounds microseconds to the target resolution.
func Quantize(us float64) (float64, error) {
	native, err := ToNative(us)
	if err != nil {
		return 0, err
	}
	return ToMicroseconds(native), nil
}

// ToPWM converts PWM on time and period to 1/48 microsecond ticks.
func ToPWM(onTimeUs, periodUs float64) (onTime, period uint16, err error) {
	if period, err = scale(periodUs, PWMTicksPerMicrosecond); err != nil {
		return
	}
	if onTime, err = scale(onTimeUs, PWMTicksPerMicrosecond); err != nil {
		return
	}
	if onTime > period {
		err = fmt.Errorf("%w: on time %v µs exceeds period %v µs", ErrValueOutOfRange, onTimeUs, periodUs)
	}
	return
}

// CheckRate validates a speed or acceleration value.
func CheckRate(v int) (uint16, error) {
	if v < 0 || v > MaxRate {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", ErrValueOutOfRange, v, MaxRate)
	}
	return uint16(v), nil
}
