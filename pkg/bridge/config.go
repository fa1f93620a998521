package bridge

import (
	"flag"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
)

// Config defines the bridge settings.
type Config struct {
	BrokerURL string
	// ID identifies the controller in topics, the machine id if empty.
	ID             string
	Description    string
	StatusInterval time.Duration
}

var defaultConfig = Config{
	BrokerURL:      "mqtt://localhost:1883/",
	Description:    "Pololu Maestro servo controller",
	StatusInterval: time.Second,
}

func init() {
	if val := os.Getenv("MAESTRO_MQTT_URL"); val != "" {
		defaultConfig.BrokerURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.BrokerURL, "mqtt", defaultConfig.BrokerURL, "MQTT broker URL, the path is the topic prefix.")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Controller ID in topics, defaults to machine ID.")
	flag.DurationVar(&defaultConfig.StatusInterval, "status-interval", defaultConfig.StatusInterval, "Status publishing interval, 0 to disable.")
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

// DeviceID gets the ID used in topics.
func (c *Config) DeviceID() (string, error) {
	if c.ID != "" {
		return c.ID, nil
	}
	return MachineID()
}

// MachineID retrieves an ID identifying the machine, hashed so the raw
// machine id is not exposed on the broker.
func MachineID() (string, error) {
	id, err := machineid.ProtectedID("maestro")
	if err != nil {
		return "", err
	}
	return id[:12], nil
}
