package protocol

import "fmt"

// Opcode is the first byte of a compact protocol command.
type Opcode byte

// Opcodes defined by Maestro firmware.
const (
	OpSetTarget                          Opcode = 0x84
	OpSetSpeed                           Opcode = 0x87
	OpSetAcceleration                    Opcode = 0x89
	OpSetPWM                             Opcode = 0x8A
	OpGetPosition                        Opcode = 0x90
	OpGetMovingState                     Opcode = 0x93
	OpSetMultipleTargets                 Opcode = 0x9F
	OpGetErrors                          Opcode = 0xA1
	OpGoHome                             Opcode = 0xA2
	OpStopScript                         Opcode = 0xA4
	OpRestartScriptAtSubroutine          Opcode = 0xA7
	OpRestartScriptAtSubroutineWithParam Opcode = 0xA8
	OpGetScriptStatus                    Opcode = 0xAE
)

var opcodeNames = map[Opcode]string{
	OpSetTarget:                          "SetTarget",
	OpSetSpeed:                           "SetSpeed",
	OpSetAcceleration:                    "SetAcceleration",
	OpSetPWM:                             "SetPWM",
	OpGetPosition:                        "GetPosition",
	OpGetMovingState:                     "GetMovingState",
	OpSetMultipleTargets:                 "SetMultipleTargets",
	OpGetErrors:                          "GetErrors",
	OpGoHome:                             "GoHome",
	OpStopScript:                         "StopScript",
	OpRestartScriptAtSubroutine:          "RestartScriptAtSubroutine",
	OpRestartScriptAtSubroutineWithParam: "RestartScriptAtSubroutineWithParameter",
	OpGetScriptStatus:                    "GetScriptStatus",
}

// String implements fmt.Stringer.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(0x%02x)", byte(o))
}

// ReplyLen is the number of bytes the device answers with.
func (o Opcode) ReplyLen() int {
	switch o {
	case OpGetPosition, OpGetErrors:
		return 2
	case OpGetMovingState, OpGetScriptStatus:
		return 1
	}
	return 0
}

// IsQuery indicates the device replies to the opcode.
func (o Opcode) IsQuery() bool {
	return o.ReplyLen() > 0
}
