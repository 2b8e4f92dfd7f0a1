// Package robot is a higher-level interface to a two-wheeled EV3 robot: bind
// motors and sensors to ports by name, read sensors, and drive.
//
// Configuration mistakes (unknown port names, missing devices) are logged and
// leave the controller as it was.  Misuse of the motion commands (drive
// motors not bound, speeds outside [-100, 100]) panics before any motor is
// touched.
//
// A Controller is not safe for concurrent use.
package robot

import (
	"fmt"
	"io"
	"os"

	"github.com/tigerbot-team/basicbot/pkg/hardware"
	"github.com/tigerbot-team/basicbot/pkg/ports"
)

// Default drive motor ports.
const (
	DefaultLeftMotorPort  = "outD"
	DefaultRightMotorPort = "outB"
)

type handle[T any] struct {
	dev  T
	port ports.Descriptor
}

type Controller struct {
	name  string
	ports ports.Table
	hw    hardware.Interface
	out   io.Writer

	leftMotor, rightMotor Maybe[handle[hardware.Motor]]
	servoMotor            Maybe[handle[hardware.Motor]]
	leftTouch, rightTouch Maybe[handle[hardware.TouchSensor]]
	ultrasonic            Maybe[handle[hardware.UltrasonicSensor]]
	color                 Maybe[handle[hardware.ColorSensor]]
	gyro                  Maybe[handle[hardware.GyroSensor]]

	// Derived from leftMotor and rightMotor; set only when both are bound.
	drive Maybe[hardware.DifferentialDrive]
}

// New creates a controller for the named robot and binds the drive motors to
// their default ports.  Log lines go to out, or stdout if out is nil.
func New(name string, table ports.Table, hw hardware.Interface, out io.Writer) *Controller {
	if out == nil {
		out = os.Stdout
	}
	c := &Controller{
		name:  name,
		ports: table,
		hw:    hw,
		out:   out,
	}
	c.BindMotor(LeftMotor, DefaultLeftMotorPort)
	c.BindMotor(RightMotor, DefaultRightMotorPort)
	return c
}

func (c *Controller) Name() string {
	return c.name
}

func (c *Controller) logf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s: %s\n", c.name, fmt.Sprintf(format, args...))
}

func (c *Controller) resolve(portName string) (ports.Descriptor, bool) {
	d, err := c.ports.Resolve(portName)
	if err != nil {
		c.logf("Invalid port string: %v", err)
		return d, false
	}
	return d, true
}

// BindMotor opens the motor on the named port and uses it for role,
// replacing any motor previously bound to that role.  Drive motors are set to
// brake when stopped.
func (c *Controller) BindMotor(role MotorRole, portName string) {
	kind := hardware.LargeMotor
	switch role {
	case LeftMotor, RightMotor:
	case ServoMotor:
		kind = hardware.MediumMotor
	default:
		c.logf("Incorrect motor description: %v: %v", ErrInvalidRole, role)
		return
	}
	port, ok := c.resolve(portName)
	if !ok {
		return
	}
	m, err := c.hw.OpenMotor(port, kind)
	if err != nil {
		c.logf("Failed to open %v on %v: %v", role, port, err)
		return
	}
	if role.isDrive() {
		if err := m.SetStopAction(hardware.Brake); err != nil {
			c.logf("Failed to set brake on %v: %v", role, err)
			return
		}
	}

	h := Some(handle[hardware.Motor]{dev: m, port: port})
	switch role {
	case LeftMotor:
		c.leftMotor = h
	case RightMotor:
		c.rightMotor = h
	case ServoMotor:
		c.servoMotor = h
	}
	if role.isDrive() {
		c.updateDrive()
	}
}

func (c *Controller) updateDrive() {
	l, lok := c.leftMotor.Get()
	r, rok := c.rightMotor.Get()
	if !lok || !rok {
		c.drive = None[hardware.DifferentialDrive]()
		return
	}
	c.drive = Some(c.hw.DifferentialDrive(l.dev, r.dev))
}

// bindSensor opens a sensor and stores it in slot; on any failure slot is
// left alone.
func bindSensor[T any](c *Controller, what, portName string, open func(ports.Descriptor) (T, error), slot *Maybe[handle[T]]) {
	port, ok := c.resolve(portName)
	if !ok {
		return
	}
	s, err := open(port)
	if err != nil {
		c.logf("Failed to open %s sensor on %v: %v", what, port, err)
		return
	}
	*slot = Some(handle[T]{dev: s, port: port})
}

func (c *Controller) BindTouchSensor(side Side, portName string) {
	switch side {
	case Left:
		bindSensor(c, "left touch", portName, c.hw.OpenTouchSensor, &c.leftTouch)
	case Right:
		bindSensor(c, "right touch", portName, c.hw.OpenTouchSensor, &c.rightTouch)
	default:
		c.logf("Incorrect touch sensor description: %v: %v", ErrInvalidRole, side)
	}
}

func (c *Controller) BindColorSensor(portName string) {
	bindSensor(c, "color", portName, c.hw.OpenColorSensor, &c.color)
}

func (c *Controller) BindUltrasonicSensor(portName string) {
	bindSensor(c, "ultrasonic", portName, c.hw.OpenUltrasonicSensor, &c.ultrasonic)
}

func (c *Controller) BindGyroSensor(portName string) {
	bindSensor(c, "gyro", portName, c.hw.OpenGyroSensor, &c.gyro)
}

type Binding struct {
	Role string
	Port Maybe[ports.Descriptor]
}

func portOf[T any](m Maybe[handle[T]]) Maybe[ports.Descriptor] {
	h, ok := m.Get()
	if !ok {
		return None[ports.Descriptor]()
	}
	return Some(h.port)
}

// Bindings lists every role and the port it is bound to, if any.
func (c *Controller) Bindings() []Binding {
	return []Binding{
		{"left motor", portOf(c.leftMotor)},
		{"right motor", portOf(c.rightMotor)},
		{"servo motor", portOf(c.servoMotor)},
		{"left touch", portOf(c.leftTouch)},
		{"right touch", portOf(c.rightTouch)},
		{"ultrasonic", portOf(c.ultrasonic)},
		{"color", portOf(c.color)},
		{"gyro", portOf(c.gyro)},
	}
}
