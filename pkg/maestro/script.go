package maestro

import (
	"fmt"

	"github.com/robotalks/maestro.go/pkg/maestro/protocol"
)

// ScriptCall records the last subroutine started by the driver.
type ScriptCall struct {
	Subroutine int
	Param      int
	HasParam   bool
}

// String implements fmt.Stringer.
func (c ScriptCall) String() string {
	if c.HasParam {
		return fmt.Sprintf("sub %d(%d)", c.Subroutine, c.Param)
	}
	return fmt.Sprintf("sub %d", c.Subroutine)
}

// RunScriptSubroutine restarts the script at a subroutine (0..127).
func (s *Session) RunScriptSubroutine(subroutine int) error {
	if err := s.checkConnected(); err != nil {
		return err
	}
	if err := protocol.CheckByte(subroutine); err != nil {
		return fmt.Errorf("subroutine: %w", err)
	}
	return s.runScript(protocol.RestartScriptAtSubroutine(byte(subroutine)), ScriptCall{Subroutine: subroutine})
}

// RunScriptSubroutineWithParameter restarts the script at a subroutine
// with param (0..16383) pushed on the stack.
func (s *Session) RunScriptSubroutineWithParameter(subroutine, param int) error {
	if err := s.checkConnected(); err != nil {
		return err
	}
	if err := protocol.CheckByte(subroutine); err != nil {
		return fmt.Errorf("subroutine: %w", err)
	}
	if err := protocol.CheckValue(param); err != nil {
		return fmt.Errorf("parameter: %w", err)
	}
	cmd := protocol.RestartScriptAtSubroutineWithParam(byte(subroutine), uint16(param))
	return s.runScript(cmd, ScriptCall{Subroutine: subroutine, Param: param, HasParam: true})
}

func (s *Session) runScript(cmd *protocol.Command, call ScriptCall) error {
	if err := s.send(cmd); err != nil {
		return err
	}
	s.script = &call
	return nil
}

// LastScriptCall gets the last subroutine started by this session.
func (s *Session) LastScriptCall() (ScriptCall, bool) {
	if s.script == nil {
		return ScriptCall{}, false
	}
	return *s.script, true
}

// ScriptIsRunning queries whether the script is running.
func (s *Session) ScriptIsRunning() (bool, error) {
	if err := s.checkConnected(); err != nil {
		return false, err
	}
	reply, err := s.query(protocol.GetScriptStatus())
	if err != nil {
		return false, err
	}
	return protocol.DecodeScriptStatus(reply)
}

// StopScript stops the script if it's running.
func (s *Session) StopScript() error {
	if err := s.checkConnected(); err != nil {
		return err
	}
	return s.send(protocol.StopScript())
}

// GetErrors reads the error register. The device clears it on read.
func (s *Session) GetErrors() (protocol.DeviceErrors, error) {
	if err := s.checkConnected(); err != nil {
		return 0, err
	}
	reply, err := s.query(protocol.GetErrors())
	if err != nil {
		return 0, err
	}
	return protocol.DecodeErrors(reply)
}
