package servo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/maestro.go/pkg/cli/sh"
	"github.com/robotalks/maestro.go/pkg/maestro"
)

type stream struct {
	written [][]byte
	replies bytes.Buffer
	// repeat is replied over and over once replies run out.
	repeat []byte
}

func (s *stream) Write(p []byte) (int, error) {
	s.written = append(s.written, append([]byte(nil), p...))
	return len(p), nil
}

func (s *stream) Read(p []byte) (int, error) {
	if s.replies.Len() == 0 && len(s.repeat) > 0 {
		s.replies.Write(s.repeat)
	}
	n, err := s.replies.Read(p)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

func (s *stream) Close() error {
	return nil
}

func newTestShell(t *testing.T, variant maestro.Variant) (*sh.Shell, *stream, *bytes.Buffer) {
	s := sh.New(maestro.NewConfig())
	out := &bytes.Buffer{}
	s.Shell.SetOut(out)
	session := maestro.NewSession(variant)
	st := &stream{}
	require.NoError(t, session.Connect(st))
	s.Attach(session, "test")
	return s, st, out
}

func TestNotConnected(t *testing.T) {
	s := sh.New(maestro.NewConfig())
	s.Shell.SetOut(&bytes.Buffer{})
	require.Error(t, s.Shell.Process("target", "0", "1500"))
	require.Error(t, s.Shell.Process("stop"))
}

func TestTargetCmd(t *testing.T) {
	s, st, out := newTestShell(t, maestro.Micro)
	require.NoError(t, s.Shell.Process("target", "0"))
	require.Equal(t, "0: unknown\n", out.String())

	out.Reset()
	require.NoError(t, s.Shell.Process("target", "0", "1500"))
	require.Equal(t, "OK\n", out.String())
	require.Equal(t, [][]byte{{0x84, 0, 0x70, 0x2e}}, st.written)

	out.Reset()
	s.OutputJSON = true
	require.NoError(t, s.Shell.Process("target", "0"))
	require.JSONEq(t, `{"channel":0,"value":1500}`, out.String())

	require.Error(t, s.Shell.Process("target", "6", "1500"))
	require.Error(t, s.Shell.Process("target", "x"))
	require.Error(t, s.Shell.Process("target"))
	require.Len(t, st.written, 1)
}

func TestTargetsCmd(t *testing.T) {
	s, st, out := newTestShell(t, maestro.Mini12)
	require.NoError(t, s.Shell.Process("targets", "1", "1000", "2", "1500"))
	require.Equal(t, [][]byte{{0x9f, 2, 1, 0x20, 0x1f, 0x70, 0x2e}}, st.written)
	require.Error(t, s.Shell.Process("targets", "1"))

	out.Reset()
	s.OutputJSON = true
	require.NoError(t, s.Shell.Process("targets"))
	require.JSONEq(t, `[null,1000,1500,null,null,null,null,null,null,null,null,null]`, out.String())
}

func TestPositionAndMovingCmd(t *testing.T) {
	s, st, out := newTestShell(t, maestro.Micro)
	st.replies.Write([]byte{0x70, 0x2e})
	require.NoError(t, s.Shell.Process("position", "2"))
	require.Equal(t, "2: 1500\n", out.String())

	require.NoError(t, s.Shell.Process("target", "2", "1000"))
	st.replies.Write([]byte{0x70, 0x2e})
	out.Reset()
	require.NoError(t, s.Shell.Process("moving"))
	require.Equal(t, "true\n", out.String())

	require.Error(t, s.Shell.Process("moving", "-device"))
}

func TestMovingDeviceCmd(t *testing.T) {
	s, st, out := newTestShell(t, maestro.Mini18)
	st.replies.Write([]byte{0})
	require.NoError(t, s.Shell.Process("moving", "-device"))
	require.Equal(t, "false\n", out.String())
	require.Equal(t, [][]byte{{0x93}}, st.written)
}

func TestLimitsCmd(t *testing.T) {
	s, st, out := newTestShell(t, maestro.Micro)
	require.NoError(t, s.Shell.Process("limits", "1", "1000", "2000"))
	out.Reset()
	require.NoError(t, s.Shell.Process("limits", "1"))
	require.Equal(t, "1: [1000, 2000]\n", out.String())
	require.Error(t, s.Shell.Process("target", "1", "500"))
	require.NoError(t, s.Shell.Process("limits", "1", "0", "0"))
	require.NoError(t, s.Shell.Process("target", "1", "500"))
	require.Len(t, st.written, 1)
}

func TestRateAndStopCmds(t *testing.T) {
	s, st, _ := newTestShell(t, maestro.Micro)
	require.NoError(t, s.Shell.Process("speed", "1", "20"))
	require.NoError(t, s.Shell.Process("accel", "1", "3"))
	require.Error(t, s.Shell.Process("speed", "1", "300"))
	require.NoError(t, s.Shell.Process("stop", "4"))
	require.NoError(t, s.Shell.Process("home"))
	require.Equal(t, [][]byte{
		{0x87, 1, 20, 0},
		{0x89, 1, 3, 0},
		{0x84, 4, 0, 0},
		{0xa2},
	}, st.written)
}

func TestParseTargets(t *testing.T) {
	targets, err := ParseTargets([]string{"0", "1500", "3", "1000.25"})
	require.NoError(t, err)
	require.Equal(t, map[int]float64{0: 1500, 3: 1000.25}, targets)
	_, err = ParseTargets([]string{"0"})
	require.Error(t, err)
	_, err = ParseTargets([]string{"a", "1"})
	require.Error(t, err)
	_, err = ParseTargets([]string{"1", "b"})
	require.Error(t, err)
}

func TestWaitCmdInterrupt(t *testing.T) {
	s, st, _ := newTestShell(t, maestro.Micro)
	require.False(t, s.Interrupt())
	require.NoError(t, s.Shell.Process("target", "0", "1500"))
	st.repeat = []byte{0x20, 0x1f}

	done := make(chan error, 1)
	go func() {
		done <- s.Shell.Process("wait", "1ms")
	}()
	for {
		select {
		case err := <-done:
			require.True(t, errors.Is(err, context.Canceled))
			require.False(t, s.Interrupt())
			return
		case <-time.After(time.Millisecond):
			s.Interrupt()
		}
	}
}
