package maestro

import (
	"context"
	"fmt"
	"time"

	"github.com/robotalks/maestro.go/pkg/maestro/protocol"
	"github.com/robotalks/maestro.go/pkg/maestro/units"
)

// DefaultPollPeriod is used by WaitUntilDoneMoving for non-positive periods.
const DefaultPollPeriod = 100 * time.Millisecond

func (s *Session) positionRaw(channel int) (uint16, error) {
	cmd := protocol.GetPosition(byte(channel))
	reply, err := s.query(cmd)
	if err != nil {
		return 0, err
	}
	return protocol.DecodeValue(cmd.Op, reply)
}

// GetPosition reads the current pulse width of the channel.
// It lags the target while speed or acceleration limits apply.
func (s *Session) GetPosition(channel int) (float64, error) {
	if err := s.checkAccess(channel); err != nil {
		return 0, err
	}
	raw, err := s.positionRaw(channel)
	if err != nil {
		return 0, err
	}
	return units.ToMicroseconds(raw), nil
}

// GetPositions reads positions of all channels.
func (s *Session) GetPositions() ([]float64, error) {
	positions := make([]float64, s.Variant.Channels)
	for ch := range positions {
		pos, err := s.GetPosition(ch)
		if err != nil {
			return nil, err
		}
		positions[ch] = pos
	}
	return positions, nil
}

// IsMoving reports whether the position differs from the cached target.
// A channel without a known target is not moving and is not queried.
func (s *Session) IsMoving(channel int) (bool, error) {
	if err := s.checkAccess(channel); err != nil {
		return false, err
	}
	target := s.targets[channel]
	if !target.known {
		return false, nil
	}
	raw, err := s.positionRaw(channel)
	if err != nil {
		return false, err
	}
	return raw != target.value, nil
}

// AnyAreMoving reports whether any channel is moving.
func (s *Session) AnyAreMoving() (bool, error) {
	if err := s.checkConnected(); err != nil {
		return false, err
	}
	for ch := 0; ch < s.Variant.Channels; ch++ {
		moving, err := s.IsMoving(ch)
		if err != nil || moving {
			return moving, err
		}
	}
	return false, nil
}

// ServosAreMoving asks the device whether any servo is still moving.
// Not available on the micro variant.
func (s *Session) ServosAreMoving() (bool, error) {
	if err := s.checkConnected(); err != nil {
		return false, err
	}
	if err := s.Variant.require(s.Variant.MovingState, "GetMovingState"); err != nil {
		return false, err
	}
	reply, err := s.query(protocol.GetMovingState())
	if err != nil {
		return false, err
	}
	return protocol.DecodeMovingState(reply)
}

// WaitUntilDoneMoving polls AnyAreMoving every pollPeriod until no channel
// is moving. It only stops early when ctx is done.
func (s *Session) WaitUntilDoneMoving(ctx context.Context, pollPeriod time.Duration) error {
	if pollPeriod <= 0 {
		pollPeriod = DefaultPollPeriod
	}
	for {
		moving, err := s.AnyAreMoving()
		if err != nil || !moving {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollPeriod):
		}
	}
}

func (s *Session) setRate(channel, value int, cache []cachedValue, build func(byte, uint16) *protocol.Command) error {
	if err := s.checkAccess(channel); err != nil {
		return err
	}
	v, err := units.CheckRate(value)
	if err != nil {
		return fmt.Errorf("channel %d: %w", channel, err)
	}
	err = s.send(build(byte(channel), v))
	cache[channel] = cachedValue{value: v, known: err == nil}
	return err
}

func (s *Session) getRate(channel int, cache []cachedValue) (int, bool, error) {
	if err := s.checkAccess(channel); err != nil {
		return 0, false, err
	}
	v := cache[channel]
	return int(v.value), v.known, nil
}

// SetSpeed limits how fast the target of a channel changes,
// in units of 0.25 µs/10 ms. 0 means unlimited.
func (s *Session) SetSpeed(channel, speed int) error {
	return s.setRate(channel, speed, s.speeds, protocol.SetSpeed)
}

// GetSpeed gets the last speed written to the channel.
func (s *Session) GetSpeed(channel int) (speed int, known bool, err error) {
	return s.getRate(channel, s.speeds)
}

// SetAcceleration limits how fast the speed of a channel changes,
// in units of 0.25 µs/10 ms/80 ms. 0 means unlimited.
func (s *Session) SetAcceleration(channel, accel int) error {
	return s.setRate(channel, accel, s.accels, protocol.SetAcceleration)
}

// GetAcceleration gets the last acceleration written to the channel.
func (s *Session) GetAcceleration(channel int) (accel int, known bool, err error) {
	return s.getRate(channel, s.accels)
}
