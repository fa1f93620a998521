package maestro

import (
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/maestro.go/pkg/maestro/protocol"
	"github.com/robotalks/maestro.go/pkg/transport"
)

// DialFunc opens the byte stream to a controller.
type DialFunc func(address string, baudRate int, timeout time.Duration) (io.ReadWriteCloser, error)

// Config defines how to open a Session.
type Config struct {
	Variant     string
	Address     string
	BaudRate    int
	ReadTimeout time.Duration
	// Protocol is the framing: compact or pololu.
	Protocol  string
	Device    int
	SafeClose bool

	// Dial opens the stream, transport.Open if nil.
	Dial DialFunc
}

var defaultConfig = Config{
	Variant:     Micro.Name,
	Address:     "/dev/ttyACM0",
	BaudRate:    transport.DefaultBaudRate,
	ReadTimeout: time.Second,
	Protocol:    protocol.ModeCompact.String(),
	Device:      int(protocol.DefaultDevice),
	SafeClose:   true,
}

func init() {
	if val := os.Getenv("MAESTRO_VARIANT"); val != "" {
		defaultConfig.Variant = val
	}
	if val := os.Getenv("MAESTRO_PORT"); val != "" {
		defaultConfig.Address = val
	}
	if val := os.Getenv("MAESTRO_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.BaudRate = baud
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Variant, "variant", defaultConfig.Variant, "Maestro variant: micro, mini12, mini18, mini24.")
	flag.StringVar(&defaultConfig.Address, "port", defaultConfig.Address, "Serial port or tcp://host:port.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Baud rate.")
	flag.DurationVar(&defaultConfig.ReadTimeout, "timeout", defaultConfig.ReadTimeout, "Read timeout for replies.")
	flag.StringVar(&defaultConfig.Protocol, "protocol", defaultConfig.Protocol, "Serial protocol: compact or pololu.")
	flag.IntVar(&defaultConfig.Device, "device", defaultConfig.Device, "Device number for pololu protocol.")
	flag.BoolVar(&defaultConfig.SafeClose, "safe-close", defaultConfig.SafeClose, "Stop all channels on close.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewSession creates a disconnected Session using the config.
func (c *Config) NewSession() (*Session, error) {
	variant, err := ParseVariant(c.Variant)
	if err != nil {
		return nil, err
	}
	mode, err := protocol.ParseMode(c.Protocol)
	if err != nil {
		return nil, err
	}
	if mode == protocol.ModePololu {
		if err = protocol.CheckByte(c.Device); err != nil {
			return nil, err
		}
	}
	s := NewSession(variant)
	s.Framing = protocol.Framing{Mode: mode, Device: byte(c.Device)}
	s.SafeClose = c.SafeClose
	return s, nil
}

// Open opens the stream and returns a connected Session.
func (c *Config) Open() (*Session, error) {
	s, err := c.NewSession()
	if err != nil {
		return nil, err
	}
	dial := c.Dial
	if dial == nil {
		dial = transport.Open
	}
	stream, err := dial(c.Address, c.BaudRate, c.ReadTimeout)
	if err != nil {
		return nil, &TransportError{Op: "open", Err: err}
	}
	if err = s.Connect(stream); err != nil {
		stream.Close()
		return nil, err
	}
	return s, nil
}

// MustOpen opens a Session and fails on error.
func (c *Config) MustOpen() *Session {
	s, err := c.Open()
	if err != nil {
		log.Fatalln(err)
	}
	return s
}

// Use opens a Session and runs fn with Session.Use.
func (c *Config) Use(fn func(*Session) error) error {
	s, err := c.Open()
	if err != nil {
		return err
	}
	return s.Use(fn)
}
