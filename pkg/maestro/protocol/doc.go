// Package protocol provides the Maestro serial command protocol.
package protocol

// The Maestro accepts commands as a single opcode byte followed by a fixed
// number of argument bytes. Only the opcode has bit 7 set; every argument
// byte carries 7 bits of payload so a receiver can always find the start of
// the next command. 14-bit values are sent as two such bytes, low 7 bits
// first.
//
// Two framings are supported:
//
//   Compact: [opcode] [args...]
//   Pololu:  [0xAA] [device] [opcode & 0x7F] [args...]
//
// Queries are answered with a fixed number of bytes that depends on the
// opcode only, so replies are matched to commands purely by order.
