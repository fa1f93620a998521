package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeValue(t *testing.T) {
	v, err := DecodeValue(OpGetPosition, []byte{0x70, 0x2e})
	require.NoError(t, err)
	require.Equal(t, uint16(6000), v)

	v, err = DecodeValue(OpGetPosition, []byte{0x7f, 0x7f})
	require.NoError(t, err)
	require.Equal(t, uint16(MaxValue), v)

	_, err = DecodeValue(OpGetPosition, []byte{0x70})
	require.Error(t, err)
	perr, ok := err.(*ProtocolError)
	require.True(t, ok)
	require.Equal(t, OpGetPosition, perr.Op)
	require.Equal(t, 2, perr.Expected)
	require.Equal(t, 1, perr.Received)
}

func TestDecodeFlags(t *testing.T) {
	moving, err := DecodeMovingState([]byte{1})
	require.NoError(t, err)
	require.True(t, moving)
	moving, err = DecodeMovingState([]byte{0})
	require.NoError(t, err)
	require.False(t, moving)

	running, err := DecodeScriptStatus([]byte{0})
	require.NoError(t, err)
	require.True(t, running)
	running, err = DecodeScriptStatus([]byte{1})
	require.NoError(t, err)
	require.False(t, running)

	_, err = DecodeScriptStatus(nil)
	require.Error(t, err)
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		reply  []byte
		expect DeviceErrors
	}{
		{[]byte{0, 0}, 0},
		{[]byte{0x01, 0}, ErrSerialSignal},
		{[]byte{0x02, 0}, ErrSerialOverrun},
		{[]byte{0x04, 0}, ErrSerialBufferFull},
		{[]byte{0x08, 0}, ErrSerialCRC},
		{[]byte{0x10, 0}, ErrSerialProtocol},
		{[]byte{0x20, 0}, ErrSerialTimeout},
		{[]byte{0x40, 0}, ErrScriptStack},
		{[]byte{0, 0x01}, ErrScriptCallStack},
		{[]byte{0, 0x02}, ErrScriptProgramCounter},
	}
	for _, tc := range testCases {
		errs, err := DecodeErrors(tc.reply)
		require.NoError(t, err)
		require.Equal(t, tc.expect, errs)
	}
}

func TestDeviceErrorsString(t *testing.T) {
	require.Equal(t, "none", DeviceErrors(0).String())
	errs := ErrSerialSignal | ErrScriptStack
	require.True(t, errs.Has(ErrScriptStack))
	require.False(t, errs.Has(ErrSerialCRC))
	require.Equal(t, []string{"serial signal", "script stack"}, errs.Names())
	require.Equal(t, "serial signal, script stack", errs.String())
}

func TestDecodeMalformed(t *testing.T) {
	testCases := []struct {
		op    Opcode
		reply []byte
		index int
	}{
		{OpGetErrors, []byte{0x80, 0}, 0},
		{OpGetPosition, []byte{0xf0, 0x2e}, 0},
		{OpGetPosition, []byte{0x70, 0xae}, 1},
		{OpGetMovingState, []byte{0x81}, 0},
		{OpGetScriptStatus, []byte{0xff}, 0},
	}
	for _, tc := range testCases {
		var err error
		switch tc.op {
		case OpGetErrors:
			_, err = DecodeErrors(tc.reply)
		case OpGetMovingState:
			_, err = DecodeMovingState(tc.reply)
		case OpGetScriptStatus:
			_, err = DecodeScriptStatus(tc.reply)
		default:
			_, err = DecodeValue(tc.op, tc.reply)
		}
		perr, ok := err.(*ProtocolError)
		require.True(t, ok, "% x: %v", tc.reply, err)
		require.True(t, perr.Malformed)
		require.Equal(t, tc.op, perr.Op)
		require.Equal(t, tc.index, perr.Index)
		require.Equal(t, tc.reply[tc.index], perr.Byte)
	}
}
