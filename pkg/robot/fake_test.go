package robot

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/periph/conn/physic"

	"github.com/tigerbot-team/basicbot/pkg/hardware"
	"github.com/tigerbot-team/basicbot/pkg/ports"
)

// fakeHardware records every command sent to a motor or drive.  Ports listed
// in missing behave as if nothing is plugged in.
type fakeHardware struct {
	commands []string
	missing  map[ports.Port]bool
	opened   int

	touch      map[ports.Port]bool
	distanceMM int
	reflect    float64
	ambient    float64
	colorCode  int
	rgb        [3]int
	angle      int
	calibrated int
	readErr    error
}

func newFakeHardware() *fakeHardware {
	return &fakeHardware{
		missing: map[ports.Port]bool{},
		touch:   map[ports.Port]bool{},
	}
}

func (f *fakeHardware) record(format string, args ...interface{}) {
	f.commands = append(f.commands, fmt.Sprintf(format, args...))
}

func (f *fakeHardware) check(port ports.Descriptor) error {
	if f.missing[port.Port] {
		return errors.New("nothing plugged in")
	}
	f.opened++
	return nil
}

func (f *fakeHardware) OpenMotor(port ports.Descriptor, kind hardware.MotorKind) (hardware.Motor, error) {
	if err := f.check(port); err != nil {
		return nil, err
	}
	return &fakeMotor{hw: f, address: port.Address, kind: kind}, nil
}

func (f *fakeHardware) OpenTouchSensor(port ports.Descriptor) (hardware.TouchSensor, error) {
	if err := f.check(port); err != nil {
		return nil, err
	}
	return &fakeSensor{hw: f, port: port.Port}, nil
}

func (f *fakeHardware) OpenUltrasonicSensor(port ports.Descriptor) (hardware.UltrasonicSensor, error) {
	if err := f.check(port); err != nil {
		return nil, err
	}
	return &fakeSensor{hw: f, port: port.Port}, nil
}

func (f *fakeHardware) OpenColorSensor(port ports.Descriptor) (hardware.ColorSensor, error) {
	if err := f.check(port); err != nil {
		return nil, err
	}
	return &fakeSensor{hw: f, port: port.Port}, nil
}

func (f *fakeHardware) OpenGyroSensor(port ports.Descriptor) (hardware.GyroSensor, error) {
	if err := f.check(port); err != nil {
		return nil, err
	}
	return &fakeSensor{hw: f, port: port.Port}, nil
}

func (f *fakeHardware) DifferentialDrive(left, right hardware.Motor) hardware.DifferentialDrive {
	return &fakeDrive{hw: f, left: left.Address(), right: right.Address()}
}

type fakeMotor struct {
	hw         *fakeHardware
	address    string
	kind       hardware.MotorKind
	stopAction hardware.StopAction
}

func (m *fakeMotor) Address() string { return m.address }

func (m *fakeMotor) SetStopAction(a hardware.StopAction) error {
	m.stopAction = a
	return nil
}

func (m *fakeMotor) Run(speed float64) error {
	m.hw.record("motor %s run %v", m.address, speed)
	return nil
}

func (m *fakeMotor) RunTimed(speed float64, d time.Duration) error {
	m.hw.record("motor %s run-timed %v %v", m.address, speed, d)
	return nil
}

func (m *fakeMotor) Stop() error {
	m.hw.record("motor %s stop", m.address)
	return nil
}

func (m *fakeMotor) WaitUntilStopped() error { return nil }

type fakeDrive struct {
	hw          *fakeHardware
	left, right string
}

func (d *fakeDrive) On(left, right float64) error {
	d.hw.record("on %v %v", left, right)
	return nil
}

func (d *fakeDrive) OnForDuration(left, right float64, dur time.Duration) error {
	d.hw.record("on-for %v %v %v", left, right, dur)
	time.Sleep(dur)
	return nil
}

func (d *fakeDrive) Steer(steer, speed float64) error {
	d.hw.record("steer %v %v", steer, speed)
	return nil
}

func (d *fakeDrive) SteerForDuration(steer, speed float64, dur time.Duration) error {
	d.hw.record("steer-for %v %v %v", steer, speed, dur)
	time.Sleep(dur)
	return nil
}

func (d *fakeDrive) Off() error {
	d.hw.record("off")
	return nil
}

type fakeSensor struct {
	hw   *fakeHardware
	port ports.Port
}

func (s *fakeSensor) IsPressed() (bool, error) {
	return s.hw.touch[s.port], s.hw.readErr
}

func (s *fakeSensor) Distance() (physic.Distance, error) {
	return physic.Distance(s.hw.distanceMM) * physic.MilliMetre, s.hw.readErr
}

func (s *fakeSensor) ReflectedLightIntensity() (float64, error) {
	return s.hw.reflect, s.hw.readErr
}

func (s *fakeSensor) AmbientLightIntensity() (float64, error) {
	return s.hw.ambient, s.hw.readErr
}

func (s *fakeSensor) Color() (int, error) {
	return s.hw.colorCode, s.hw.readErr
}

func (s *fakeSensor) RGB() (r, g, b int, err error) {
	return s.hw.rgb[0], s.hw.rgb[1], s.hw.rgb[2], s.hw.readErr
}

func (s *fakeSensor) CalibrateWhite() error {
	s.hw.calibrated++
	return s.hw.readErr
}

func (s *fakeSensor) Angle() (int, error) {
	return s.hw.angle, s.hw.readErr
}
