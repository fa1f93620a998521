package protocol

// MaxValue is the largest value encoded in two 7-bit bytes.
const MaxValue = 0x3fff

// MaxByte is the largest single argument byte.
const MaxByte = 0x7f

// Split encodes a 14-bit value into two 7-bit bytes, low bits first.
func Split(v uint16) (lo, hi byte) {
	return byte(v & 0x7f), byte((v >> 7) & 0x7f)
}

// Merge decodes two 7-bit bytes into a 14-bit value.
// Both bytes must fit in 7 bits.
func Merge(lo, hi byte) uint16 {
	return uint16(lo) | uint16(hi)<<7
}

// CheckValue validates v fits in 14 bits.
func CheckValue(v int) error {
	if v < 0 || v > MaxValue {
		return rangeError(v, MaxValue)
	}
	return nil
}

// CheckByte validates v fits in a single argument byte.
func CheckByte(v int) error {
	if v < 0 || v > MaxByte {
		return rangeError(v, MaxByte)
	}
	return nil
}
