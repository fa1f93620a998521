package protocol

import (
	"fmt"
	"io"
	"strings"
)

// Mode selects how commands are framed on the wire.
type Mode int

const (
	// ModeCompact sends the opcode directly, addressing the single
	// controller attached to the line.
	ModeCompact Mode = iota
	// ModePololu prefixes commands with the sync byte and a device number.
	ModePololu
)

const (
	// PololuSync starts every Pololu protocol command.
	PololuSync byte = 0xAA
	// DefaultDevice is the factory default device number.
	DefaultDevice byte = 0x0C
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeCompact:
		return "compact"
	case ModePololu:
		return "pololu"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses the name of a framing mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "compact":
		return ModeCompact, nil
	case "pololu":
		return ModePololu, nil
	}
	return ModeCompact, fmt.Errorf("unknown protocol %q", s)
}

// Framing describes the prefix sent before each command.
type Framing struct {
	Mode   Mode
	Device byte
}

// Compact is the compact protocol framing.
func Compact() Framing {
	return Framing{Mode: ModeCompact}
}

// Pololu is the Pololu protocol framing addressing device.
func Pololu(device byte) Framing {
	return Framing{Mode: ModePololu, Device: device & 0x7f}
}

// Command is an opcode with its argument bytes.
type Command struct {
	Op   Opcode
	Args []byte
}

// Bytes returns framed bytes for sending.
func (f Framing) Bytes(c *Command) []byte {
	if f.Mode == ModePololu {
		b := make([]byte, len(c.Args)+3)
		b[0], b[1], b[2] = PololuSync, f.Device&0x7f, byte(c.Op)&0x7f
		copy(b[3:], c.Args)
		return b
	}
	b := make([]byte, len(c.Args)+1)
	b[0] = byte(c.Op)
	copy(b[1:], c.Args)
	return b
}

// WriteTo writes the framed command with a single Write.
func (f Framing) WriteTo(w io.Writer, c *Command) (int, error) {
	return w.Write(f.Bytes(c))
}

// String renders the command for logging.
func (c *Command) String() string {
	return fmt.Sprintf("%s % x", c.Op, c.Args)
}

func valueCommand(op Opcode, channel byte, v uint16) *Command {
	lo, hi := Split(v)
	return &Command{Op: op, Args: []byte{channel & 0x7f, lo, hi}}
}

// SetTarget encodes a target in quarter-microseconds.
func SetTarget(channel byte, target uint16) *Command {
	return valueCommand(OpSetTarget, channel, target)
}

// SetSpeed encodes a speed limit.
func SetSpeed(channel byte, speed uint16) *Command {
	return valueCommand(OpSetSpeed, channel, speed)
}

// SetAcceleration encodes an acceleration limit.
func SetAcceleration(channel byte, accel uint16) *Command {
	return valueCommand(OpSetAcceleration, channel, accel)
}

// SetMultipleTargets encodes targets for consecutive channels starting at first.
func SetMultipleTargets(first byte, targets []uint16) *Command {
	args := make([]byte, 2, len(targets)*2+2)
	args[0], args[1] = byte(len(targets))&0x7f, first&0x7f
	for _, target := range targets {
		lo, hi := Split(target)
		args = append(args, lo, hi)
	}
	return &Command{Op: OpSetMultipleTargets, Args: args}
}

// SetPWM encodes PWM on time and period in 1/48 microseconds.
func SetPWM(onTime, period uint16) *Command {
	onLo, onHi := Split(onTime)
	periodLo, periodHi := Split(period)
	return &Command{Op: OpSetPWM, Args: []byte{onLo, onHi, periodLo, periodHi}}
}

// GetPosition queries the position of a channel.
func GetPosition(channel byte) *Command {
	return &Command{Op: OpGetPosition, Args: []byte{channel & 0x7f}}
}

// GetMovingState queries whether any servo is still moving.
func GetMovingState() *Command {
	return &Command{Op: OpGetMovingState}
}

// GetErrors queries and clears the error register.
func GetErrors() *Command {
	return &Command{Op: OpGetErrors}
}

// GoHome sends all channels to their home positions.
func GoHome() *Command {
	return &Command{Op: OpGoHome}
}

// StopScript stops the running script.
func StopScript() *Command {
	return &Command{Op: OpStopScript}
}

// RestartScriptAtSubroutine starts the script at a subroutine.
func RestartScriptAtSubroutine(subroutine byte) *Command {
	return &Command{Op: OpRestartScriptAtSubroutine, Args: []byte{subroutine & 0x7f}}
}

// RestartScriptAtSubroutineWithParam starts the script at a subroutine
// with param pushed on the stack.
func RestartScriptAtSubroutineWithParam(subroutine byte, param uint16) *Command {
	lo, hi := Split(param)
	return &Command{Op: OpRestartScriptAtSubroutineWithParam, Args: []byte{subroutine & 0x7f, lo, hi}}
}

// GetScriptStatus queries whether the script is running.
func GetScriptStatus() *Command {
	return &Command{Op: OpGetScriptStatus}
}
