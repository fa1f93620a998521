package maestro

import (
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/maestro.go/pkg/maestro/protocol"
)

// drainer is implemented by streams which buffer output, e.g. serial.Port.
type drainer interface {
	Drain() error
}

func (s *Session) send(cmd *protocol.Command) error {
	data := s.Framing.Bytes(cmd)
	if glog.V(2) {
		glog.Infof("TX %s: % x", cmd.Op, data)
	}
	if _, err := s.stream.Write(data); err != nil {
		return &TransportError{Op: cmd.Op.String(), Err: err}
	}
	if d, ok := s.stream.(drainer); ok {
		if err := d.Drain(); err != nil {
			return &TransportError{Op: cmd.Op.String(), Err: err}
		}
	}
	return nil
}

// query sends cmd and reads up to the expected reply length. A short
// reply is returned as is and rejected by the decoder.
func (s *Session) query(cmd *protocol.Command) ([]byte, error) {
	if err := s.send(cmd); err != nil {
		return nil, err
	}
	reply := make([]byte, cmd.Op.ReplyLen())
	n, err := readReply(s.stream, reply)
	if glog.V(2) {
		glog.Infof("RX %s: % x", cmd.Op, reply[:n])
	}
	if err != nil {
		return nil, &TransportError{Op: cmd.Op.String(), Err: err}
	}
	return reply[:n], nil
}

// readReply fills buf until it is full or the stream times out.
func readReply(r io.Reader, buf []byte) (int, error) {
	var n int
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			if os.IsTimeout(err) {
				break
			}
			return n, err
		}
		if m == 0 {
			break
		}
	}
	return n, nil
}
