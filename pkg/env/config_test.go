package env

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/toyctl/pkg/servo"
)

func TestConfigLoad(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.Load([]byte(`
layout:
  toys: 1
  pins: [4, 5, 6]
strictAngles: true
actuator:
  driver: maestro
  device: /dev/ttyACM0
serial:
  device: /dev/ttyUSB0
  readTimeout: 100ms
tcp: ":9000"
`)))
	require.Equal(t, servo.Layout{Toys: 1, Pins: []servo.Pin{4, 5, 6}}, conf.Layout)
	require.True(t, conf.StrictAngles)
	require.Equal(t, DriverMaestro, conf.Actuator.Driver)
	require.Equal(t, "/dev/ttyACM0", conf.Actuator.Device)
	require.Equal(t, "/dev/ttyUSB0", conf.Serial.Device)
	require.Equal(t, "100ms", conf.Serial.ReadTimeout.String())
	require.Equal(t, ":9000", conf.TCPAddr)
	require.NoError(t, conf.Validate())

	require.Equal(t, servo.DefaultLayout(), Default().Layout, "defaults untouched")
}

func TestConfigLoadRejectsUnknownKeys(t *testing.T) {
	require.Error(t, NewConfig().Load([]byte("pinz: [1]\n")))
}

func TestConfigLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toyctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("websocket: \":8081\"\n"), 0644))
	conf := NewConfig()
	require.NoError(t, conf.LoadFile(path))
	require.Equal(t, ":8081", conf.WebsocketAddr)
	require.Error(t, conf.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name  string
		apply func(*Config)
		valid bool
	}{
		{name: "default", apply: func(*Config) {}, valid: true},
		{name: "bad layout", apply: func(c *Config) { c.Layout.Toys = 3 }},
		{name: "unknown driver", apply: func(c *Config) { c.Actuator.Driver = "gpio" }},
		{name: "maestro without device", apply: func(c *Config) { c.Actuator.Driver = DriverMaestro }},
		{name: "no channels", apply: func(c *Config) {
			c.TCPAddr, c.Serial.Device, c.WebsocketAddr, c.MQTTBrokerURL = "", "", "", ""
		}},
		{name: "mqtt without id", apply: func(c *Config) {
			c.MQTTBrokerURL, c.ID = "mqtt://localhost:1883/", ""
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conf := NewConfig()
			tc.apply(conf)
			if tc.valid {
				require.NoError(t, conf.Validate())
			} else {
				require.Error(t, conf.Validate())
			}
		})
	}
}

func TestNewEnvDryRun(t *testing.T) {
	conf := NewConfig()
	conf.Actuator.Driver = DriverDryRun
	conf.Serial.Device, conf.WebsocketAddr, conf.MQTTBrokerURL = "", "", ""
	conf.TCPAddr = "127.0.0.1:0"
	env, err := conf.NewEnv()
	require.NoError(t, err)
	defer env.Close()
	require.Equal(t, 6, env.Bank.Len())
	require.Len(t, env.transports, 1)
	require.Equal(t, servo.Center, env.Bank.Angle(4))
}

func TestNewEnvFailsOnBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	conf := NewConfig()
	conf.Actuator.Driver = DriverDryRun
	conf.Serial.Device, conf.WebsocketAddr, conf.MQTTBrokerURL = "", "", ""
	conf.TCPAddr = ln.Addr().String()
	env, err := conf.NewEnv()
	require.Error(t, err)
	require.Nil(t, env)
}

func TestNewEnvFailsOnMissingSerialDevice(t *testing.T) {
	conf := NewConfig()
	conf.Actuator.Driver = DriverDryRun
	conf.WebsocketAddr, conf.MQTTBrokerURL = "", ""
	conf.TCPAddr = "127.0.0.1:0"
	conf.Serial.Device = filepath.Join(t.TempDir(), "ttyUSB0")
	env, err := conf.NewEnv()
	require.Error(t, err)
	require.Nil(t, env)
}
