package units

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLimitsCheck(t *testing.T) {
	l := Between(1000, 2000)
	require.NoError(t, l.Validate())
	require.True(t, errors.Is(l.Check(500), ErrLimitViolation))
	require.True(t, errors.Is(l.Check(2000.25), ErrLimitViolation))
	require.NoError(t, l.Check(0))
	require.NoError(t, l.Check(1500))
	require.NoError(t, l.Check(1000))
	require.NoError(t, l.Check(2000))

	require.NoError(t, Limits{}.Check(4095.75))
	require.NoError(t, AtLeast(800).Check(4000))
	require.Error(t, AtMost(800).Check(4000))
}

func TestLimitsValidate(t *testing.T) {
	testCases := []struct {
		name   string
		limits Limits
		valid  bool
	}{
		{"none", Limits{}, true},
		{"both", Between(0, MaxMicroseconds), true},
		{"equal", Between(1500, 1500), true},
		{"reversed", Between(2000, 1000), false},
		{"negative min", AtLeast(-1), false},
		{"max too large", AtMost(4096), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.limits.Validate()
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.True(t, errors.Is(err, ErrValueOutOfRange))
			}
		})
	}
}

func TestLimitsString(t *testing.T) {
	require.Equal(t, "[-, -]", Limits{}.String())
	require.Equal(t, "[1000, 2000]", Between(1000, 2000).String())
	require.Equal(t, "[-, 1800.5]", AtMost(1800.5).String())
}
