package maestro

import (
	"fmt"
	"sort"

	fx "github.com/robotalks/maestro.go/pkg/framework"
	"github.com/robotalks/maestro.go/pkg/maestro/protocol"
	"github.com/robotalks/maestro.go/pkg/maestro/units"
)

func (s *Session) cachedTarget(channel int) Target {
	t := s.targets[channel]
	return Target{Microseconds: units.ToMicroseconds(t.value), Known: t.known}
}

// nativeTarget converts and checks a target against the channel limits.
// The channel must already be validated.
func (s *Session) nativeTarget(channel int, us float64) (uint16, error) {
	native, err := units.ToNative(us)
	if err != nil {
		return 0, fmt.Errorf("channel %d: %w", channel, err)
	}
	if err = s.limits[channel].Check(us); err != nil {
		return 0, fmt.Errorf("channel %d: %w", channel, err)
	}
	return native, nil
}

// SetTarget commands a channel to a pulse width in microseconds.
// A target of 0 stops the signal on the channel.
func (s *Session) SetTarget(channel int, us float64) error {
	if err := s.checkAccess(channel); err != nil {
		return err
	}
	native, err := s.nativeTarget(channel, us)
	if err != nil {
		return err
	}
	return s.writeTargets(channel, []uint16{native})
}

// writeTargets writes targets of consecutive channels and updates the cache.
func (s *Session) writeTargets(first int, natives []uint16) error {
	var cmd *protocol.Command
	if len(natives) == 1 {
		cmd = protocol.SetTarget(byte(first), natives[0])
	} else {
		cmd = protocol.SetMultipleTargets(byte(first), natives)
	}
	err := s.send(cmd)
	for n, native := range natives {
		// The device state is unknown if the write failed.
		s.targets[first+n] = cachedValue{value: native, known: err == nil}
	}
	return err
}

// SetTargets sets targets of multiple channels. All entries are validated
// before anything is written: on error no target is changed. Consecutive
// channels are sent in one command when the variant supports it.
func (s *Session) SetTargets(targets map[int]float64) error {
	if err := s.checkConnected(); err != nil {
		return err
	}
	channels := make([]int, 0, len(targets))
	for ch := range targets {
		if err := s.checkChannel(ch); err != nil {
			return err
		}
		channels = append(channels, ch)
	}
	sort.Ints(channels)
	natives := make([]uint16, len(channels))
	for n, ch := range channels {
		native, err := s.nativeTarget(ch, targets[ch])
		if err != nil {
			return err
		}
		natives[n] = native
	}

	for start := 0; start < len(channels); {
		end := start + 1
		if s.Variant.MultiTarget {
			for end < len(channels) && channels[end] == channels[end-1]+1 {
				end++
			}
		}
		if err := s.writeTargets(channels[start], natives[start:end]); err != nil {
			return err
		}
		start = end
	}
	return nil
}

// SetTargetRange sets targets of consecutive channels starting at first.
func (s *Session) SetTargetRange(first int, targets ...float64) error {
	m := make(map[int]float64, len(targets))
	for n, us := range targets {
		m[first+n] = us
	}
	return s.SetTargets(m)
}

// GetTarget gets the last target written to the channel.
// The device can't be queried for targets.
func (s *Session) GetTarget(channel int) (Target, error) {
	if err := s.checkAccess(channel); err != nil {
		return Target{}, err
	}
	return s.cachedTarget(channel), nil
}

// GetTargets gets cached targets of count channels starting at first.
func (s *Session) GetTargets(first, count int) ([]Target, error) {
	if err := s.checkConnected(); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalidChannel, count)
	}
	if count == 0 {
		return []Target{}, nil
	}
	if err := s.checkChannel(first); err != nil {
		return nil, err
	}
	if err := s.checkChannel(first + count - 1); err != nil {
		return nil, err
	}
	targets := make([]Target, count)
	for n := range targets {
		targets[n] = s.cachedTarget(first + n)
	}
	return targets, nil
}

// StopChannel stops sending pulses on the channel, ignoring limits.
func (s *Session) StopChannel(channel int) error {
	if err := s.checkAccess(channel); err != nil {
		return err
	}
	return s.writeTargets(channel, []uint16{0})
}

// Stop stops all channels. Every channel is attempted even if some fail.
func (s *Session) Stop() error {
	if err := s.checkConnected(); err != nil {
		return err
	}
	var errs fx.AggregatedError
	for ch := 0; ch < s.Variant.Channels; ch++ {
		errs.Add(s.StopChannel(ch))
	}
	return errs.Aggregate()
}

// GoHome sends all channels to their firmware configured home positions.
// Home positions can't be queried, so all cached targets become unknown.
func (s *Session) GoHome() error {
	if err := s.checkConnected(); err != nil {
		return err
	}
	err := s.send(protocol.GoHome())
	for ch := range s.targets {
		s.targets[ch] = cachedValue{}
	}
	return err
}

// SetLimits restricts targets accepted by SetTarget on the channel.
// Limits are kept by the driver only.
func (s *Session) SetLimits(channel int, limits units.Limits) error {
	if err := s.checkAccess(channel); err != nil {
		return err
	}
	if err := limits.Validate(); err != nil {
		return fmt.Errorf("channel %d: %w", channel, err)
	}
	s.limits[channel] = limits
	return nil
}

// GetLimits gets the limits of the channel.
func (s *Session) GetLimits(channel int) (units.Limits, error) {
	if err := s.checkAccess(channel); err != nil {
		return units.Limits{}, err
	}
	return s.limits[channel], nil
}
