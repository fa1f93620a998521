package protocol

import "strings"

// DeviceErrors is the error register reported by GetErrors.
type DeviceErrors uint16

// Error bits, see https://www.pololu.com/docs/0J40/4.e
const (
	ErrSerialSignal DeviceErrors = 1 << iota
	ErrSerialOverrun
	ErrSerialBufferFull
	ErrSerialCRC
	ErrSerialProtocol
	ErrSerialTimeout
	ErrScriptStack
	ErrScriptCallStack
	ErrScriptProgramCounter
)

var deviceErrorNames = []string{
	"serial signal",
	"serial overrun",
	"serial buffer full",
	"serial CRC",
	"serial protocol",
	"serial timeout",
	"script stack",
	"script call stack",
	"script program counter",
}

// Has checks if all bits in flags are set.
func (e DeviceErrors) Has(flags DeviceErrors) bool {
	return e&flags == flags
}

// Names lists the names of set bits.
func (e DeviceErrors) Names() []string {
	names := []string{}
	for n, name := range deviceErrorNames {
		if e&(1<<uint(n)) != 0 {
			names = append(names, name)
		}
	}
	return names
}

// String implements fmt.Stringer.
func (e DeviceErrors) String() string {
	if e == 0 {
		return "none"
	}
	return strings.Join(e.Names(), ", ")
}
