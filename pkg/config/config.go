package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/tigerbot-team/basicbot/pkg/buttons"
	"github.com/tigerbot-team/basicbot/pkg/ev3dev"
	"github.com/tigerbot-team/basicbot/pkg/hardware"
	"github.com/tigerbot-team/basicbot/pkg/ports"
	"github.com/tigerbot-team/basicbot/pkg/robot"
	"github.com/tigerbot-team/basicbot/pkg/screen"
)

const DefaultPath = "/etc/basicbot.yaml"

type Config struct {
	Name      string `yaml:"name"`
	SysfsRoot string `yaml:"sysfs_root"`

	// Ports overrides driver addresses by port name, e.g. "outA: spi0.1:MA"
	// on a BrickPi.
	Ports map[string]string `yaml:"ports,omitempty"`

	Motors   MotorPorts `yaml:"motors"`
	Touch    TouchPorts `yaml:"touch"`
	Color    string     `yaml:"color,omitempty"`
	Gyro     string     `yaml:"gyro,omitempty"`
	Ultra    string     `yaml:"ultrasonic,omitempty"`
	UltraI2C bool       `yaml:"ultrasonic_i2c,omitempty"`

	ButtonsDevice string `yaml:"buttons_device"`
	Framebuffer   string `yaml:"framebuffer"`
	SoundsDir     string `yaml:"sounds_dir"`
}

type MotorPorts struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	Servo string `yaml:"servo,omitempty"`
}

type TouchPorts struct {
	Left  string `yaml:"left,omitempty"`
	Right string `yaml:"right,omitempty"`
}

func Default() Config {
	return Config{
		Name:      "Tonks",
		SysfsRoot: ev3dev.DefaultRoot,
		Motors: MotorPorts{
			Left:  robot.DefaultLeftMotorPort,
			Right: robot.DefaultRightMotorPort,
		},
		ButtonsDevice: buttons.DefaultDevice,
		Framebuffer:   screen.DefaultDevice,
		SoundsDir:     "/sounds",
	}
}

// Parse reads YAML on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrap(err, "failed to parse config")
	}
	if _, err := cfg.PortTable(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Load reads the config file at path.  Problems are printed and the defaults
// are used instead; a robot without a config file should still run.
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Failed to read config, using defaults:", err)
		return Default()
	}
	cfg, err := Parse(data)
	if err != nil {
		fmt.Println("Failed to load config, using defaults:", err)
	}
	return cfg
}

func (c Config) PortTable() (ports.Table, error) {
	return ports.EV3Table().WithOverrides(c.Ports)
}

// Dump writes the config in YAML, for logging what is in use.
func (c Config) Dump(w io.Writer) error {
	b, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Apply binds every role named in the config.  Empty entries are skipped.
func (c Config) Apply(r *robot.Controller) {
	if c.Motors.Left != "" && c.Motors.Left != robot.DefaultLeftMotorPort {
		r.BindMotor(robot.LeftMotor, c.Motors.Left)
	}
	if c.Motors.Right != "" && c.Motors.Right != robot.DefaultRightMotorPort {
		r.BindMotor(robot.RightMotor, c.Motors.Right)
	}
	if c.Motors.Servo != "" {
		r.BindMotor(robot.ServoMotor, c.Motors.Servo)
	}
	if c.Touch.Left != "" {
		r.BindTouchSensor(robot.Left, c.Touch.Left)
	}
	if c.Touch.Right != "" {
		r.BindTouchSensor(robot.Right, c.Touch.Right)
	}
	if c.Color != "" {
		r.BindColorSensor(c.Color)
	}
	if c.Ultra != "" {
		r.BindUltrasonicSensor(c.Ultra)
	}
	if c.Gyro != "" {
		r.BindGyroSensor(c.Gyro)
	}
}

// PathFromEnv returns $BASICBOT_CONFIG, or DefaultPath if that is unset.
func PathFromEnv() string {
	if p := os.Getenv("BASICBOT_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// Hardware returns the real ev3dev hardware, or the printing stand-in if
// dummy is set.
func (c Config) Hardware(dummy bool) hardware.Interface {
	if dummy {
		return hardware.NewDummy()
	}
	hw := hardware.New(c.SysfsRoot)
	hw.UltrasonicOverI2C = c.UltraI2C
	return hw
}

// NewRobot builds the controller described by the config, with every
// configured role bound.
func (c Config) NewRobot(dummy bool) (*robot.Controller, error) {
	return c.NewRobotOn(c.Hardware(dummy))
}

func (c Config) NewRobotOn(hw hardware.Interface) (*robot.Controller, error) {
	table, err := c.PortTable()
	if err != nil {
		return nil, err
	}
	r := robot.New(c.Name, table, hw, os.Stdout)
	c.Apply(r)
	return r, nil
}

// DriveStopper opens separate handles on the configured drive motors and
// returns a function that stops them.  It never touches a Controller, so a
// signal handler can call it while the controller is mid-command.  Motors
// that can't be opened are skipped.
func (c Config) DriveStopper(hw hardware.Interface) func() {
	table, err := c.PortTable()
	if err != nil {
		fmt.Println("No drive stopper:", err)
		return func() {}
	}
	var motors []hardware.Motor
	for _, name := range []string{c.Motors.Left, c.Motors.Right} {
		if name == "" {
			continue
		}
		d, err := table.Resolve(name)
		if err != nil {
			fmt.Println("No stopper for", name, err)
			continue
		}
		m, err := hw.OpenMotor(d, hardware.LargeMotor)
		if err != nil {
			fmt.Println("No stopper for", name, err)
			continue
		}
		motors = append(motors, m)
	}
	return func() {
		for _, m := range motors {
			if err := m.Stop(); err != nil {
				fmt.Println("Failed to stop", m.Address(), err)
			}
		}
	}
}
