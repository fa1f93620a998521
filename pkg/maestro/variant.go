package maestro

import (
	"fmt"
	"strings"
)

// Variant describes the capabilities of a Maestro model.
type Variant struct {
	Name     string
	Channels int
	// AnalogChannels is the number of leading channels usable as analog inputs.
	AnalogChannels int
	PWM            bool
	MultiTarget    bool
	MovingState    bool
}

// Known variants.
var (
	Micro  = Variant{Name: "micro", Channels: 6, AnalogChannels: 6}
	Mini12 = miniVariant(12)
	Mini18 = miniVariant(18)
	Mini24 = miniVariant(24)

	Variants = []Variant{Micro, Mini12, Mini18, Mini24}
)

func miniVariant(channels int) Variant {
	return Variant{
		Name:           fmt.Sprintf("mini%d", channels),
		Channels:       channels,
		AnalogChannels: 12,
		PWM:            true,
		MultiTarget:    true,
		MovingState:    true,
	}
}

// ParseVariant finds a variant by name, e.g. "micro", "mini12", "mini-24".
func ParseVariant(name string) (Variant, error) {
	key := strings.Replace(strings.ToLower(name), "-", "", -1)
	for _, v := range Variants {
		if v.Name == key {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("unknown variant %q", name)
}

// String implements fmt.Stringer.
func (v Variant) String() string {
	return v.Name
}

func (v Variant) require(supported bool, op string) error {
	if !supported {
		return fmt.Errorf("%w: %s on %s", ErrUnsupportedOperation, op, v.Name)
	}
	return nil
}
