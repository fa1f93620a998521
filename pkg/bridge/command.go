package bridge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/maestro.go/pkg/maestro"
)

// ErrUnknownCommand indicates a command topic the bridge doesn't serve.
var ErrUnknownCommand = errors.New("unknown command")

// Command kinds, also the command topic paths below cmd/.
const (
	CmdTarget     = "target"
	CmdSpeed      = "speed"
	CmdAccel      = "accel"
	CmdStop       = "stop"
	CmdHome       = "home"
	CmdScriptRun  = "script/run"
	CmdScriptStop = "script/stop"
)

// Request is a raw command received from MQTT, posted into the loop.
type Request struct {
	// Path is the topic below cmd/, e.g. "target/3".
	Path    string
	Payload []byte
}

// Command is a parsed Request.
type Command struct {
	Kind    string
	Channel int
	// Value is the target in µs, or speed/acceleration.
	Value    float64
	Param    int
	HasParam bool
}

// AllChannels is the Channel of a stop command without payload.
const AllChannels = -1

// ParseCommand parses the command path and payload.
func ParseCommand(path string, payload []byte) (*Command, error) {
	arg := strings.TrimSpace(string(payload))
	kind, chStr := path, ""
	if n := strings.LastIndex(path, "/"); n > 0 && !strings.HasPrefix(path, "script/") {
		kind, chStr = path[:n], path[n+1:]
	}
	cmd := &Command{Kind: kind, Channel: AllChannels}
	switch kind {
	case CmdTarget, CmdSpeed, CmdAccel:
		ch, err := strconv.Atoi(chStr)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid channel %q", kind, chStr)
		}
		cmd.Channel = ch
		if kind == CmdTarget {
			cmd.Value, err = strconv.ParseFloat(arg, 64)
		} else {
			var v int
			v, err = strconv.Atoi(arg)
			cmd.Value = float64(v)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: invalid value %q", kind, arg)
		}
	case CmdStop:
		if chStr != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, path)
		}
		if arg != "" {
			ch, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("stop: invalid channel %q", arg)
			}
			cmd.Channel = ch
		}
	case CmdHome, CmdScriptStop:
		if chStr != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, path)
		}
	case CmdScriptRun:
		fields := strings.Fields(arg)
		if len(fields) < 1 || len(fields) > 2 {
			return nil, fmt.Errorf("script/run: expect SUB [PARAM], got %q", arg)
		}
		sub, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("script/run: invalid subroutine %q", fields[0])
		}
		cmd.Value = float64(sub)
		if len(fields) > 1 {
			if cmd.Param, err = strconv.Atoi(fields[1]); err != nil {
				return nil, fmt.Errorf("script/run: invalid parameter %q", fields[1])
			}
			cmd.HasParam = true
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, path)
	}
	return cmd, nil
}

// Execute runs the command on the session.
func (c *Command) Execute(s *maestro.Session) error {
	switch c.Kind {
	case CmdTarget:
		return s.SetTarget(c.Channel, c.Value)
	case CmdSpeed:
		return s.SetSpeed(c.Channel, int(c.Value))
	case CmdAccel:
		return s.SetAcceleration(c.Channel, int(c.Value))
	case CmdStop:
		if c.Channel == AllChannels {
			return s.Stop()
		}
		return s.StopChannel(c.Channel)
	case CmdHome:
		return s.GoHome()
	case CmdScriptRun:
		if c.HasParam {
			return s.RunScriptSubroutineWithParameter(int(c.Value), c.Param)
		}
		return s.RunScriptSubroutine(int(c.Value))
	case CmdScriptStop:
		return s.StopScript()
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, c.Kind)
}
