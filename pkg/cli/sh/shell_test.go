package sh

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/maestro.go/pkg/maestro"
)

type stream struct {
	written [][]byte
	closed  bool
}

func (s *stream) Write(p []byte) (int, error) {
	s.written = append(s.written, append([]byte(nil), p...))
	return len(p), nil
}

func (s *stream) Read(p []byte) (int, error) {
	return 0, nil
}

func (s *stream) Close() error {
	s.closed = true
	return nil
}

func TestConnectDisconnect(t *testing.T) {
	st := &stream{}
	conf := maestro.NewConfig()
	conf.Dial = func(address string, baudRate int, timeout time.Duration) (io.ReadWriteCloser, error) {
		require.Equal(t, "tcp://localhost:2000", address)
		return st, nil
	}
	s := New(conf)
	var out bytes.Buffer
	s.Shell.SetOut(&out)
	require.Equal(t, unconnectedPrompt, s.Prompt())

	require.NoError(t, s.Shell.Process("connect", "mini12", "tcp://localhost:2000"))
	require.NotNil(t, s.Session)
	require.Equal(t, maestro.Mini12, s.Session.Variant)
	require.Equal(t, "mini12@tcp://localhost:2000 > ", s.Prompt())
	require.Equal(t, "OK\n", out.String())

	require.NoError(t, s.Shell.Process("disconnect"))
	require.Nil(t, s.Session)
	require.True(t, st.closed)
	require.Len(t, st.written, 12)
	require.Equal(t, unconnectedPrompt, s.Prompt())
}

func TestConnectFailure(t *testing.T) {
	conf := maestro.NewConfig()
	conf.Variant = "mega"
	s := New(conf)
	s.Shell.SetOut(&bytes.Buffer{})
	require.Error(t, s.Shell.Process("connect"))
	require.Nil(t, s.Session)
}
