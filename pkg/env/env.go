package env

import (
	"fmt"
	"io"
	"log"

	"github.com/golang/glog"

	"github.com/robotalks/toyctl/pkg/controller"
	fx "github.com/robotalks/toyctl/pkg/framework"
	"github.com/robotalks/toyctl/pkg/servo"
	"github.com/robotalks/toyctl/pkg/servo/dryrun"
	"github.com/robotalks/toyctl/pkg/servo/maestro"
	"github.com/robotalks/toyctl/pkg/servo/pca9685"
	"github.com/robotalks/toyctl/pkg/transport/mqtt"
	"github.com/robotalks/toyctl/pkg/transport/serial"
	"github.com/robotalks/toyctl/pkg/transport/tcp"
	"github.com/robotalks/toyctl/pkg/transport/websocket"
)

// Env is the assembled controller: bank, controller and transports.
type Env struct {
	Config     *Config
	Bank       *servo.Bank
	Controller *controller.Controller

	transports []fx.LoopAdder
	closers    []io.Closer
}

// NewActuator creates the configured servo driver.
func (c *Config) NewActuator() (servo.Actuator, io.Closer, error) {
	switch c.Actuator.Driver {
	case DriverDryRun:
		return dryrun.New(), nil, nil
	case DriverPCA9685:
		drv, err := pca9685.Open(c.Actuator.I2CBus, c.Actuator.I2CAddr)
		if err != nil {
			return nil, nil, err
		}
		return drv, drv, nil
	case DriverMaestro:
		ctl, err := maestro.Open(c.Actuator.Device, c.Actuator.Baud, c.Actuator.DeviceNumber)
		if err != nil {
			return nil, nil, err
		}
		return ctl, ctl, nil
	}
	return nil, nil, fmt.Errorf("unknown driver %q", c.Actuator.Driver)
}

// NewEnv creates Env from config. Servos are attached and centered.
func (c *Config) NewEnv() (*Env, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	env := &Env{Config: c}
	if err := env.open(); err != nil {
		env.closeAll()
		return nil, err
	}
	return env, nil
}

func (e *Env) open() error {
	c := e.Config

	act, closer, err := c.NewActuator()
	if err != nil {
		return fmt.Errorf("create %s actuator: %w", c.Actuator.Driver, err)
	}
	e.addCloser(closer)
	if e.Bank, err = servo.NewBank(c.Layout, act); err != nil {
		return err
	}
	if err = e.Bank.Init(); err != nil {
		return fmt.Errorf("init servos: %w", err)
	}
	e.Controller = controller.New(e.Bank)
	e.Controller.Decoder.Strict = c.StrictAngles

	if c.Serial.Device != "" {
		var port serial.Port
		if port, err = serial.Open(c.Serial); err != nil {
			return err
		}
		e.addCloser(port)
		e.transports = append(e.transports, serial.NewLineReader("serial:"+c.Serial.Device, port))
	}
	if c.TCPAddr != "" {
		var srv *tcp.Server
		if srv, err = tcp.Listen(c.TCPAddr); err != nil {
			return err
		}
		e.addCloser(srv)
		e.transports = append(e.transports, srv)
	}
	if c.WebsocketAddr != "" {
		var srv *websocket.Server
		if srv, err = websocket.Listen(c.WebsocketAddr); err != nil {
			return err
		}
		e.addCloser(srv)
		e.transports = append(e.transports, srv)
	}
	if c.MQTTBrokerURL != "" {
		var ch *mqtt.Channel
		ch, err = mqtt.NewChannel(c.MQTTBrokerURL, c.Name(), mqtt.Meta{
			Description: c.Description,
			Layout:      c.Layout,
		})
		if err != nil {
			return fmt.Errorf("create MQTT channel: %w", err)
		}
		e.transports = append(e.transports, ch)
		e.Controller.AddListener(ch)
	}
	return nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	env, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return env
}

func (e *Env) addCloser(closer io.Closer) {
	if closer != nil {
		e.closers = append(e.closers, closer)
	}
}

func (e *Env) closeAll() {
	for _, closer := range e.closers {
		closer.Close()
	}
	e.closers = nil
}

// AddToLoop implements LoopAdder.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Controller)
	loop.Add(e.transports...)
}

// Close centers the servos and releases the actuator. It must be
// called after the loop stopped.
func (e *Env) Close() error {
	err := e.Bank.Center()
	if err != nil {
		glog.Errorf("center servos: %v", err)
	}
	e.closeAll()
	return err
}
