// Package maestro drives Pololu Maestro servo controllers.
//
// A Session owns the byte stream to one controller. It is not safe for
// concurrent use: every query is matched to its reply by order only.
package maestro

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/golang/glog"

	fx "github.com/robotalks/maestro.go/pkg/framework"
	"github.com/robotalks/maestro.go/pkg/maestro/protocol"
	"github.com/robotalks/maestro.go/pkg/maestro/units"
)

// State is the connection state of a Session.
type State int

// Session states.
const (
	StateDisconnected State = iota
	StateConnected
	StateClosed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Target is a cached target. Known is false until a target is written
// and again after GoHome.
type Target struct {
	Microseconds float64
	Known        bool
}

// String implements fmt.Stringer.
func (t Target) String() string {
	if !t.Known {
		return "unknown"
	}
	return strconv.FormatFloat(t.Microseconds, 'f', -1, 64)
}

type cachedValue struct {
	value uint16
	known bool
}

// Session is the command surface of a Maestro controller.
type Session struct {
	Variant Variant
	Framing protocol.Framing
	// SafeClose stops all channels when Close is called.
	SafeClose bool

	stream  io.ReadWriteCloser
	state   State
	targets []cachedValue
	speeds  []cachedValue
	accels  []cachedValue
	limits  []units.Limits
	script  *ScriptCall
}

// NewSession creates a disconnected session for the variant.
func NewSession(variant Variant) *Session {
	return &Session{
		Variant:   variant,
		Framing:   protocol.Compact(),
		SafeClose: true,
		targets:   make([]cachedValue, variant.Channels),
		speeds:    make([]cachedValue, variant.Channels),
		accels:    make([]cachedValue, variant.Channels),
		limits:    make([]units.Limits, variant.Channels),
	}
}

// State gets the connection state.
func (s *Session) State() State {
	return s.state
}

// Channels is the number of channels of the variant.
func (s *Session) Channels() int {
	return s.Variant.Channels
}

// Connect takes ownership of stream and enters StateConnected.
func (s *Session) Connect(stream io.ReadWriteCloser) error {
	if s.state != StateDisconnected {
		return fmt.Errorf("connect: session is %s", s.state)
	}
	s.stream, s.state = stream, StateConnected
	glog.Infof("%s session connected (%s protocol)", s.Variant, s.Framing.Mode)
	return nil
}

// Close releases the stream, stopping all channels first if SafeClose is set.
func (s *Session) Close() error {
	return s.shutdown(s.SafeClose)
}

// Use runs fn on the session and then stops all channels and closes the
// stream, also when fn fails or panics. Errors from stopping and closing
// are logged and only returned if fn succeeded.
func (s *Session) Use(fn func(*Session) error) (err error) {
	if err = s.checkConnected(); err != nil {
		return
	}
	defer func() {
		closeErr := s.shutdown(true)
		if closeErr == nil {
			return
		}
		if err != nil {
			glog.Warningf("ignored error on session shutdown: %v", closeErr)
			return
		}
		err = closeErr
	}()
	return fn(s)
}

func (s *Session) shutdown(stop bool) error {
	switch s.state {
	case StateClosed:
		return nil
	case StateDisconnected:
		s.state = StateClosed
		return nil
	}
	var errs fx.AggregatedError
	if stop {
		if err := s.Stop(); err != nil {
			glog.Warningf("stop on close failed: %v", err)
			errs.Add(err)
		}
	}
	errs.Add(s.stream.Close())
	s.stream, s.state = nil, StateClosed
	glog.Infof("%s session closed", s.Variant)
	return errs.Aggregate()
}

func (s *Session) checkConnected() error {
	if s.state != StateConnected {
		return fmt.Errorf("%w: session is %s", ErrNotConnected, s.state)
	}
	return nil
}

func (s *Session) checkChannel(channel int) error {
	if channel < 0 || channel >= s.Variant.Channels {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidChannel, channel, s.Variant.Channels)
	}
	return nil
}

// checkAccess validates state and channel before any I/O.
func (s *Session) checkAccess(channel int) error {
	if err := s.checkConnected(); err != nil {
		return err
	}
	return s.checkChannel(channel)
}

// String renders the variant and cached targets.
func (s *Session) String() string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "Maestro(%s, targets={", s.Variant)
	for ch := range s.targets {
		if ch > 0 {
			w.WriteString(", ")
		}
		fmt.Fprintf(&w, "%d: %s", ch, s.cachedTarget(ch))
	}
	w.WriteString("})")
	return w.String()
}
