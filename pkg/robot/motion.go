package robot

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/tigerbot-team/basicbot/pkg/hardware"
)

// The motion commands panic with one of these (wrapped) when misused.
var (
	ErrDriveMotorsNotBound = errors.New("left and right drive motors must both be bound")
	ErrServoNotBound       = errors.New("servo motor is not bound")
	ErrSpeedOutOfRange     = errors.New("value outside [-100, 100]")
	ErrInvalidDuration     = errors.New("duration must not be negative")
)

const (
	MaxSpeed  = 100.0
	FullLeft  = -100.0
	FullRight = 100.0
)

func (c *Controller) requireDrive() hardware.DifferentialDrive {
	d, ok := c.drive.Get()
	if !c.leftMotor.IsSet() || !c.rightMotor.IsSet() || !ok {
		panic(errors.WithStack(ErrDriveMotorsNotBound))
	}
	return d
}

// HasDrive reports whether both drive motors are bound, i.e. whether the
// motion commands can be used.
func (c *Controller) HasDrive() bool {
	return c.leftMotor.IsSet() && c.rightMotor.IsSet() && c.drive.IsSet()
}

func checkRange(what string, v float64) {
	if math.IsNaN(v) || v < -MaxSpeed || v > MaxSpeed {
		panic(errors.Wrapf(ErrSpeedOutOfRange, "%s = %v", what, v))
	}
}

func checkDuration(d time.Duration) {
	if d < 0 {
		panic(errors.Wrapf(ErrInvalidDuration, "%v", d))
	}
}

func (c *Controller) report(what string, err error) {
	if err != nil {
		c.logf("Failed to %s: %v", what, err)
	}
}

// Forward drives straight at speed (negative is backwards) and returns
// immediately; the motors keep running.
func (c *Controller) Forward(speed float64) {
	c.MotorCurve(speed, speed)
}

// ForwardFor drives straight for d and blocks until the motors have stopped.
func (c *Controller) ForwardFor(speed float64, d time.Duration) {
	c.MotorCurveFor(speed, speed, d)
}

func (c *Controller) Backward(speed float64) {
	c.requireDrive()
	checkRange("speed", speed)
	c.Forward(-speed)
}

func (c *Controller) BackwardFor(speed float64, d time.Duration) {
	c.requireDrive()
	checkRange("speed", speed)
	c.ForwardFor(-speed, d)
}

// TurnLeft spins on the spot to the left.
func (c *Controller) TurnLeft(speed float64) {
	c.SteerCurve(FullLeft, speed)
}

func (c *Controller) TurnLeftFor(speed float64, d time.Duration) {
	c.SteerCurveFor(FullLeft, speed, d)
}

// TurnRight spins on the spot to the right.
func (c *Controller) TurnRight(speed float64) {
	c.SteerCurve(FullRight, speed)
}

func (c *Controller) TurnRightFor(speed float64, d time.Duration) {
	c.SteerCurveFor(FullRight, speed, d)
}

// Stop brakes both drive motors and blocks until they have stopped.
func (c *Controller) Stop() {
	d := c.requireDrive()
	c.report("stop", d.Off())
}

// MotorCurve sets each wheel's speed independently, for arcs and skid turns.
func (c *Controller) MotorCurve(leftSpeed, rightSpeed float64) {
	d := c.requireDrive()
	checkRange("left speed", leftSpeed)
	checkRange("right speed", rightSpeed)
	c.report("set motor speeds", d.On(leftSpeed, rightSpeed))
}

func (c *Controller) MotorCurveFor(leftSpeed, rightSpeed float64, dur time.Duration) {
	d := c.requireDrive()
	checkRange("left speed", leftSpeed)
	checkRange("right speed", rightSpeed)
	checkDuration(dur)
	c.report("run motors", d.OnForDuration(leftSpeed, rightSpeed, dur))
}

// SteerCurve drives with a steer value from -100 (spin left on the spot)
// through 0 (straight) to 100 (spin right on the spot).
func (c *Controller) SteerCurve(steer, speed float64) {
	d := c.requireDrive()
	checkRange("steer", steer)
	checkRange("speed", speed)
	c.report("steer", d.Steer(steer, speed))
}

func (c *Controller) SteerCurveFor(steer, speed float64, dur time.Duration) {
	d := c.requireDrive()
	checkRange("steer", steer)
	checkRange("speed", speed)
	checkDuration(dur)
	c.report("steer", d.SteerForDuration(steer, speed, dur))
}

func (c *Controller) requireServo() hardware.Motor {
	h, ok := c.servoMotor.Get()
	if !ok {
		panic(errors.WithStack(ErrServoNotBound))
	}
	return h.dev
}

// ServoOn runs the auxiliary motor until ServoOff.
func (c *Controller) ServoOn(speed float64) {
	m := c.requireServo()
	checkRange("servo speed", speed)
	c.report("run servo", m.Run(speed))
}

func (c *Controller) ServoOnFor(speed float64, d time.Duration) {
	m := c.requireServo()
	checkRange("servo speed", speed)
	checkDuration(d)
	if err := m.RunTimed(speed, d); err != nil {
		c.report("run servo", err)
		return
	}
	c.report("wait for servo", m.WaitUntilStopped())
}

func (c *Controller) ServoOff() {
	m := c.requireServo()
	if err := m.Stop(); err != nil {
		c.report("stop servo", err)
		return
	}
	c.report("wait for servo", m.WaitUntilStopped())
}
