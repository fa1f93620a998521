package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitMerge(t *testing.T) {
	for v := 0; v <= MaxValue; v++ {
		lo, hi := Split(uint16(v))
		require.Zero(t, lo&0x80, "lo high bit set for %d", v)
		require.Zero(t, hi&0x80, "hi high bit set for %d", v)
		require.Equal(t, uint16(v), Merge(lo, hi))
	}
	lo, hi := Split(6000)
	require.Equal(t, byte(0x70), lo)
	require.Equal(t, byte(0x2e), hi)
}

func TestCheckValue(t *testing.T) {
	require.NoError(t, CheckValue(0))
	require.NoError(t, CheckValue(MaxValue))
	require.Error(t, CheckValue(-1))
	require.Error(t, CheckValue(MaxValue+1))
	require.NoError(t, CheckByte(127))
	require.Error(t, CheckByte(128))
}

func TestCommand(t *testing.T) {
	testCases := []struct {
		name    string
		command *Command
		compact []byte
		pololu  []byte
	}{
		{"set target", SetTarget(0, 6000), []byte{0x84, 0, 0x70, 0x2e}, []byte{0xaa, 0x0c, 0x04, 0, 0x70, 0x2e}},
		{"set target max", SetTarget(5, MaxValue), []byte{0x84, 5, 0x7f, 0x7f}, []byte{0xaa, 0x0c, 0x04, 5, 0x7f, 0x7f}},
		{"set speed", SetSpeed(2, 255), []byte{0x87, 2, 0x7f, 0x01}, []byte{0xaa, 0x0c, 0x07, 2, 0x7f, 0x01}},
		{"set acceleration", SetAcceleration(1, 4), []byte{0x89, 1, 4, 0}, []byte{0xaa, 0x0c, 0x09, 1, 4, 0}},
		{"set pwm", SetPWM(2400, 4800), []byte{0x8a, 0x60, 0x12, 0x40, 0x25}, []byte{0xaa, 0x0c, 0x0a, 0x60, 0x12, 0x40, 0x25}},
		{"get position", GetPosition(1), []byte{0x90, 1}, []byte{0xaa, 0x0c, 0x10, 1}},
		{"get moving state", GetMovingState(), []byte{0x93}, []byte{0xaa, 0x0c, 0x13}},
		{
			"set multiple targets",
			SetMultipleTargets(1, []uint16{0, 4000, 6000}),
			[]byte{0x9f, 3, 1, 0, 0, 0x20, 0x1f, 0x70, 0x2e},
			[]byte{0xaa, 0x0c, 0x1f, 3, 1, 0, 0, 0x20, 0x1f, 0x70, 0x2e},
		},
		{"get errors", GetErrors(), []byte{0xa1}, []byte{0xaa, 0x0c, 0x21}},
		{"go home", GoHome(), []byte{0xa2}, []byte{0xaa, 0x0c, 0x22}},
		{"stop script", StopScript(), []byte{0xa4}, []byte{0xaa, 0x0c, 0x24}},
		{"run subroutine", RestartScriptAtSubroutine(1), []byte{0xa7, 1}, []byte{0xaa, 0x0c, 0x27, 1}},
		{
			"run subroutine with param",
			RestartScriptAtSubroutineWithParam(127, 1),
			[]byte{0xa8, 0x7f, 1, 0},
			[]byte{0xaa, 0x0c, 0x28, 0x7f, 1, 0},
		},
		{"get script status", GetScriptStatus(), []byte{0xae}, []byte{0xaa, 0x0c, 0x2e}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.compact, Compact().Bytes(tc.command))
			require.Equal(t, tc.pololu, Pololu(DefaultDevice).Bytes(tc.command))
			var buf bytes.Buffer
			n, err := Compact().WriteTo(&buf, tc.command)
			require.NoError(t, err)
			require.Equal(t, tc.compact, buf.Bytes())
			require.Equal(t, len(tc.compact), n)
			for _, b := range tc.compact[1:] {
				require.Zero(t, b&0x80)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("Pololu")
	require.NoError(t, err)
	require.Equal(t, ModePololu, mode)
	mode, err = ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeCompact, mode)
	_, err = ParseMode("mini-ssc")
	require.Error(t, err)
}

func TestOpcodeReplyLen(t *testing.T) {
	require.Equal(t, 2, OpGetPosition.ReplyLen())
	require.Equal(t, 2, OpGetErrors.ReplyLen())
	require.Equal(t, 1, OpGetMovingState.ReplyLen())
	require.Equal(t, 1, OpGetScriptStatus.ReplyLen())
	require.False(t, OpSetTarget.IsQuery())
	require.Equal(t, "SetTarget", OpSetTarget.String())
	require.Equal(t, "Opcode(0x01)", Opcode(1).String())
}
