package units

import (
	"fmt"
	"math"
)

// Limits restricts targets of a channel. A zero value has no bounds.
type Limits struct {
	Min    float64
	Max    float64
	HasMin bool
	HasMax bool
}

// Between creates Limits with both bounds.
func Between(min, max float64) Limits {
	return Limits{Min: min, Max: max, HasMin: true, HasMax: true}
}

// AtLeast creates Limits with a lower bound only.
func AtLeast(min float64) Limits {
	return Limits{Min: min, HasMin: true}
}

// AtMost creates Limits with an upper bound only.
func AtMost(max float64) Limits {
	return Limits{Max: max, HasMax: true}
}

func checkBound(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > MaxMicroseconds {
		return fmt.Errorf("%w: %s %v µs not in [0, %v]", ErrValueOutOfRange, name, v, MaxMicroseconds)
	}
	return nil
}

// Validate checks bounds are representable and ordered.
func (l Limits) Validate() error {
	if l.HasMin {
		if err := checkBound("min", l.Min); err != nil {
			return err
		}
	}
	if l.HasMax {
		if err := checkBound("max", l.Max); err != nil {
			return err
		}
	}
	if l.HasMin && l.HasMax && l.Min > l.Max {
		return fmt.Errorf("%w: min %v µs > max %v µs", ErrValueOutOfRange, l.Min, l.Max)
	}
	return nil
}

// Check validates a target against the limits.
// A target of 0 stops the signal and is always allowed.
func (l Limits) Check(us float64) error {
	if us == 0 {
		return nil
	}
	if l.HasMin && us < l.Min {
		return fmt.Errorf("%w: %v µs below min %v µs", ErrLimitViolation, us, l.Min)
	}
	if l.HasMax && us > l.Max {
		return fmt.Errorf("%w: %v µs above max %v µs", ErrLimitViolation, us, l.Max)
	}
	return nil
}

// String implements fmt.Stringer.
func (l Limits) String() string {
	min, max := "-", "-"
	if l.HasMin {
		min = fmt.Sprintf("%g", l.Min)
	}
	if l.HasMax {
		max = fmt.Sprintf("%g", l.Max)
	}
	return fmt.Sprintf("[%s, %s]", min, max)
}
