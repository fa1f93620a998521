package units

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToNative(t *testing.T) {
	testCases := []struct {
		us     float64
		native uint16
	}{
		{0, 0},
		{0.25, 1},
		{0.3, 1},
		{0.4, 2},
		{1500, 6000},
		{1000.1, 4000},
		{4095.75, MaxNative},
	}
	for _, tc := range testCases {
		native, err := ToNative(tc.us)
		require.NoError(t, err, "%v", tc.us)
		require.Equal(t, tc.native, native, "%v", tc.us)
	}

	for _, us := range []float64{-1, -0.2, 4095.9, 5000, math.NaN()} {
		_, err := ToNative(us)
		require.True(t, errors.Is(err, ErrValueOutOfRange), "%v", us)
	}
}

func TestRoundTrip(t *testing.T) {
	for m := 0.0; m <= MaxMicroseconds; m += 0.1 {
		native, err := ToNative(m)
		require.NoError(t, err)
		require.Equal(t, math.Round(m*4)/4, ToMicroseconds(native))
	}
	q, err := Quantize(1500.13)
	require.NoError(t, err)
	require.Equal(t, 1500.25, q)
}

func TestToPWM(t *testing.T) {
	on, period, err := ToPWM(50, 100)
	require.NoError(t, err)
	require.Equal(t, uint16(2400), on)
	require.Equal(t, uint16(4800), period)

	on, period, err = ToPWM(MaxPWMPeriod, MaxPWMPeriod)
	require.NoError(t, err)
	require.Equal(t, uint16(MaxNative), on)
	require.Equal(t, uint16(MaxNative), period)

	for _, args := range [][2]float64{{-1, 100}, {101, 100}, {10, -100}, {10, 341.4}} {
		_, _, err = ToPWM(args[0], args[1])
		require.True(t, errors.Is(err, ErrValueOutOfRange), "%v", args)
	}
}

func TestCheckRate(t *testing.T) {
	v, err := CheckRate(0)
	require.NoError(t, err)
	require.Zero(t, v)
	v, err = CheckRate(255)
	require.NoError(t, err)
	require.Equal(t, uint16(255), v)
	_, err = CheckRate(256)
	require.True(t, errors.Is(err, ErrValueOutOfRange))
	_, err = CheckRate(-1)
	require.True(t, errors.Is(err, ErrValueOutOfRange))
}

func TestAnalogDigital(t *testing.T) {
	require.Equal(t, 0.0, ToVolts(0))
	require.Equal(t, 5.0, ToVolts(1023))
	require.InDelta(t, 5*512.0/1023, ToVolts(512), 1e-9)
	require.False(t, ToDigital(511))
	require.True(t, ToDigital(512))
	require.Equal(t, 1500.0, FromDigital(true))
	require.Equal(t, 0.0, FromDigital(false))
}
