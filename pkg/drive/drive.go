package drive

import (
	"math"
	"time"
)

// Motor is the part of a motor that the drive needs.  Speeds are percent of
// full speed.
type Motor interface {
	Run(speed float64) error
	RunTimed(speed float64, d time.Duration) error
	Stop() error
	WaitUntilStopped() error
}

// Differential drives a pair of wheels either with independent speeds (tank
// style) or with a steer value and an overall speed.
type Differential struct {
	Left, Right Motor
}

func New(left, right Motor) *Differential {
	return &Differential{Left: left, Right: right}
}

// On sets both wheel speeds and returns immediately.
func (d *Differential) On(left, right float64) error {
	if err := d.Left.Run(left); err != nil {
		return err
	}
	return d.Right.Run(right)
}

// OnForDuration runs both wheels for dur and blocks until dur has passed and
// both have stopped.  A motor may not report running straight away, so the
// deadline is waited out even if both already look stopped.
func (d *Differential) OnForDuration(left, right float64, dur time.Duration) error {
	deadline := time.Now().Add(dur)
	if err := d.Left.RunTimed(left, dur); err != nil {
		return err
	}
	if err := d.Right.RunTimed(right, dur); err != nil {
		return err
	}
	if err := d.waitUntilStopped(); err != nil {
		return err
	}
	if remaining := time.Until(deadline); remaining > 0 {
		time.Sleep(remaining)
	}
	return nil
}

func (d *Differential) Steer(steer, speed float64) error {
	l, r := SteeringToSpeeds(steer, speed)
	return d.On(l, r)
}

func (d *Differential) SteerForDuration(steer, speed float64, dur time.Duration) error {
	l, r := SteeringToSpeeds(steer, speed)
	return d.OnForDuration(l, r, dur)
}

// Off stops both wheels using their stop action and waits for them to stop.
func (d *Differential) Off() error {
	err := d.Left.Stop()
	if err2 := d.Right.Stop(); err == nil {
		err = err2
	}
	if err != nil {
		return err
	}
	return d.waitUntilStopped()
}

func (d *Differential) waitUntilStopped() error {
	if err := d.Left.WaitUntilStopped(); err != nil {
		return err
	}
	return d.Right.WaitUntilStopped()
}

// SteeringToSpeeds converts a steer value in [-100, 100] and a speed into
// wheel speeds.  0 drives straight; +/-50 stops the inner wheel; +/-100 spins
// the inner wheel backwards at full speed so the robot turns on the spot.
func SteeringToSpeeds(steer, speed float64) (left, right float64) {
	left, right = speed, speed
	factor := (50 - math.Abs(steer)) / 50
	if steer >= 0 {
		right *= factor
	} else {
		left *= factor
	}
	return
}
