// Package env builds the controller environment from flags,
// environment variables and an optional YAML file.
package env

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/robotalks/toyctl/pkg/servo"
	"github.com/robotalks/toyctl/pkg/servo/maestro"
	"github.com/robotalks/toyctl/pkg/servo/pca9685"
	"github.com/robotalks/toyctl/pkg/transport/serial"
	"github.com/robotalks/toyctl/pkg/transport/tcp"
)

// AppName is the controller type used in MQTT topics.
const AppName = "toyctl"

// Actuator drivers.
const (
	DriverDryRun  = "dryrun"
	DriverPCA9685 = "pca9685"
	DriverMaestro = "maestro"
)

// ActuatorConfig selects and configures the servo driver.
type ActuatorConfig struct {
	Driver string `yaml:"driver"`

	// pca9685
	I2CBus  string `yaml:"i2cBus"`
	I2CAddr uint16 `yaml:"i2cAddr"`

	// maestro
	Device       string `yaml:"device"`
	Baud         int    `yaml:"baud"`
	DeviceNumber uint8  `yaml:"deviceNumber"`
}

// Config is the controller configuration.
type Config struct {
	ID          string       `yaml:"id"`
	Description string       `yaml:"description"`
	Layout      servo.Layout `yaml:"layout"`
	// StrictAngles rejects text commands with non-integer angles.
	StrictAngles bool           `yaml:"strictAngles"`
	Actuator     ActuatorConfig `yaml:"actuator"`

	// Serial reads text commands, disabled if Device is empty.
	Serial serial.Config `yaml:"serial"`
	// TCPAddr accepts binary frames, disabled if empty.
	TCPAddr string `yaml:"tcp"`
	// WebsocketAddr serves the websocket endpoint, disabled if empty.
	WebsocketAddr string `yaml:"websocket"`
	// MQTTBrokerURL connects to a broker, disabled if empty.
	// e.g. mqtt://host:port/topic-prefix/
	MQTTBrokerURL string `yaml:"mqtt"`
}

var defaultConfig = Config{
	Description: "Boxing toys servo controller",
	Layout:      servo.DefaultLayout(),
	Actuator: ActuatorConfig{
		Driver:       DriverDryRun,
		I2CAddr:      pca9685.DefaultAddr,
		Baud:         115200,
		DeviceNumber: maestro.DefaultDevice,
	},
	Serial:  serial.Config{Baud: serial.DefaultBaud},
	TCPAddr: tcp.DefaultAddr,
}

func init() {
	defaultConfig.ID = MachineID()
	if val := os.Getenv("TOYCTL_CONFIG"); val != "" {
		if err := defaultConfig.LoadFile(val); err != nil {
			fmt.Fprintf(os.Stderr, "TOYCTL_CONFIG: %v\n", err)
		}
	}
	if val := os.Getenv("TOYCTL_SERIAL"); val != "" {
		defaultConfig.Serial.Device = val
	}
	if val := os.Getenv("TOYCTL_LISTEN"); val != "" {
		defaultConfig.TCPAddr = val
	}
	if val := os.Getenv("TOYCTL_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
}

// SetupFlags sets command line flags. -config loads the file at the
// position it appears, so flags after it override the file.
func SetupFlags() {
	flag.Func("config", "YAML config file", defaultConfig.LoadFile)
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Controller ID")
	flag.StringVar(&defaultConfig.Actuator.Driver, "driver", defaultConfig.Actuator.Driver, "Servo driver: dryrun, pca9685, maestro")
	flag.StringVar(&defaultConfig.Actuator.I2CBus, "i2c-bus", defaultConfig.Actuator.I2CBus, "I2C bus of pca9685")
	flag.StringVar(&defaultConfig.Actuator.Device, "maestro", defaultConfig.Actuator.Device, "Serial device of maestro")
	flag.StringVar(&defaultConfig.Serial.Device, "serial", defaultConfig.Serial.Device, "Serial device for text commands")
	flag.IntVar(&defaultConfig.Serial.Baud, "baud", defaultConfig.Serial.Baud, "Baud rate of serial commands")
	flag.StringVar(&defaultConfig.TCPAddr, "listen", defaultConfig.TCPAddr, "TCP address for binary commands")
	flag.StringVar(&defaultConfig.WebsocketAddr, "websocket", defaultConfig.WebsocketAddr, "HTTP address for websocket commands")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.BoolVar(&defaultConfig.StrictAngles, "strict-angles", defaultConfig.StrictAngles, "Reject non-integer angles")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	conf.Layout.Pins = append([]servo.Pin(nil), defaultConfig.Layout.Pins...)
	return &conf
}

// LoadFile merges settings present in a YAML file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.Load(data)
}

// Load merges settings present in YAML data.
func (c *Config) Load(data []byte) error {
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Name is the controller name in MQTT topics.
func (c *Config) Name() string {
	return AppName + "/" + c.ID
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	switch c.Actuator.Driver {
	case DriverDryRun, DriverPCA9685:
	case DriverMaestro:
		if c.Actuator.Device == "" {
			return fmt.Errorf("maestro device required")
		}
	default:
		return fmt.Errorf("unknown driver %q", c.Actuator.Driver)
	}
	if c.Serial.Device == "" && c.TCPAddr == "" && c.WebsocketAddr == "" && c.MQTTBrokerURL == "" {
		return fmt.Errorf("at least one command channel is required")
	}
	if c.MQTTBrokerURL != "" && c.ID == "" {
		return fmt.Errorf("controller ID is required for MQTT")
	}
	return nil
}
