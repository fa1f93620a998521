// Package transport opens byte streams to Maestro controllers.
package transport

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// DefaultBaudRate is used when baud rate is not specified.
const DefaultBaudRate = 9600

// Open opens a byte stream by address.
//
//	/dev/ttyACM0, COM3, serial:///dev/ttyACM0  serial port
//	tcp://host:port                            raw TCP serial server
//
// Reads return short with no error or a timeout error once timeout
// elapses without data.
func Open(address string, baudRate int, timeout time.Duration) (io.ReadWriteCloser, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	if strings.Contains(address, "://") {
		u, err := url.Parse(address)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %v", address, err)
		}
		switch u.Scheme {
		case "tcp":
			s, err := DialTCP(u.Host, timeout)
			if err != nil {
				return nil, err
			}
			return s, nil
		case "serial":
			return OpenSerial(u.Path, baudRate, timeout)
		default:
			return nil, fmt.Errorf("unknown address scheme: %q", u.Scheme)
		}
	}
	return OpenSerial(address, baudRate, timeout)
}

// OpenSerial opens a serial port with 8N1 framing.
func OpenSerial(name string, baudRate int, timeout time.Duration) (serial.Port, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if timeout > 0 {
		if err = port.SetReadTimeout(timeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
		}
	}
	glog.Infof("opened %s at %d baud", name, baudRate)
	return port, nil
}

// TCPStream is a stream over a TCP connection with per-read deadlines.
type TCPStream struct {
	net.Conn
	ReadTimeout time.Duration
}

// DialTCP connects to a raw TCP serial server (e.g. ser2net).
func DialTCP(addr string, timeout time.Duration) (*TCPStream, error) {
	conn, err := net.DialTimeout("tcp", addr, connectTimeout(timeout))
	if err != nil {
		return nil, err
	}
	glog.Infof("connected %s", addr)
	return &TCPStream{Conn: conn, ReadTimeout: timeout}, nil
}

func connectTimeout(timeout time.Duration) time.Duration {
	if timeout < time.Second {
		return time.Second
	}
	return timeout
}

// Read implements io.Reader.
func (s *TCPStream) Read(p []byte) (int, error) {
	if s.ReadTimeout > 0 {
		if err := s.Conn.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return 0, err
		}
	}
	return s.Conn.Read(p)
}
