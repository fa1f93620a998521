package protocol

func checkReply(op Opcode, reply []byte) error {
	if n := op.ReplyLen(); len(reply) != n {
		return &ProtocolError{Op: op, Expected: n, Received: len(reply)}
	}
	for i, b := range reply {
		if b > MaxByte {
			return &ProtocolError{Op: op, Expected: len(reply), Received: len(reply), Malformed: true, Index: i, Byte: b}
		}
	}
	return nil
}

// DecodeValue decodes a two byte reply.
func DecodeValue(op Opcode, reply []byte) (uint16, error) {
	if err := checkReply(op, reply); err != nil {
		return 0, err
	}
	return Merge(reply[0], reply[1]), nil
}

// DecodeFlag decodes a one byte reply.
func DecodeFlag(op Opcode, reply []byte) (byte, error) {
	if err := checkReply(op, reply); err != nil {
		return 0, err
	}
	return reply[0], nil
}

// DecodeMovingState decodes the GetMovingState reply.
func DecodeMovingState(reply []byte) (bool, error) {
	b, err := DecodeFlag(OpGetMovingState, reply)
	return b != 0, err
}

// DecodeScriptStatus decodes the GetScriptStatus reply.
// The device answers 0 while the script is running.
func DecodeScriptStatus(reply []byte) (bool, error) {
	b, err := DecodeFlag(OpGetScriptStatus, reply)
	if err != nil {
		return false, err
	}
	return b == 0, nil
}

// DecodeErrors decodes the GetErrors reply.
func DecodeErrors(reply []byte) (DeviceErrors, error) {
	v, err := DecodeValue(OpGetErrors, reply)
	return DeviceErrors(v), err
}
