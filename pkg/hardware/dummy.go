package hardware

import (
	"fmt"
	"io"
	"os"
	"time"

	"periph.io/x/periph/conn/physic"

	"github.com/tigerbot-team/basicbot/pkg/drive"
	"github.com/tigerbot-team/basicbot/pkg/ports"
)

// Dummy pretends every port has the requested device plugged in and prints
// each call.  Timed runs still take their full duration.
type Dummy struct {
	Out io.Writer
}

func NewDummy() *Dummy {
	return &Dummy{Out: os.Stdout}
}

var _ Interface = (*Dummy)(nil)

func (d *Dummy) printf(format string, args ...interface{}) {
	fmt.Fprintf(d.Out, "DHW: "+format+"\n", args...)
}

func (d *Dummy) OpenMotor(port ports.Descriptor, kind MotorKind) (Motor, error) {
	d.printf("OpenMotor port=%v kind=%v", port, kind)
	return &dummyMotor{d: d, address: port.Address}, nil
}

func (d *Dummy) OpenTouchSensor(port ports.Descriptor) (TouchSensor, error) {
	d.printf("OpenTouchSensor port=%v", port)
	return dummySensor{d}, nil
}

func (d *Dummy) OpenUltrasonicSensor(port ports.Descriptor) (UltrasonicSensor, error) {
	d.printf("OpenUltrasonicSensor port=%v", port)
	return dummySensor{d}, nil
}

func (d *Dummy) OpenColorSensor(port ports.Descriptor) (ColorSensor, error) {
	d.printf("OpenColorSensor port=%v", port)
	return dummySensor{d}, nil
}

func (d *Dummy) OpenGyroSensor(port ports.Descriptor) (GyroSensor, error) {
	d.printf("OpenGyroSensor port=%v", port)
	return dummySensor{d}, nil
}

func (d *Dummy) DifferentialDrive(left, right Motor) DifferentialDrive {
	d.printf("DifferentialDrive left=%v right=%v", left.Address(), right.Address())
	return drive.New(left, right)
}

type dummyMotor struct {
	d       *Dummy
	address string
	until   time.Time
}

func (m *dummyMotor) Address() string {
	return m.address
}

func (m *dummyMotor) SetStopAction(a StopAction) error {
	m.d.printf("SetStopAction %v %v", m.address, a)
	return nil
}

func (m *dummyMotor) Run(speed float64) error {
	m.d.printf("Run %v speed=%v", m.address, speed)
	m.until = time.Time{}
	return nil
}

func (m *dummyMotor) RunTimed(speed float64, d time.Duration) error {
	m.d.printf("RunTimed %v speed=%v duration=%v", m.address, speed, d)
	m.until = time.Now().Add(d)
	return nil
}

func (m *dummyMotor) Stop() error {
	m.d.printf("Stop %v", m.address)
	m.until = time.Time{}
	return nil
}

func (m *dummyMotor) WaitUntilStopped() error {
	if remaining := time.Until(m.until); remaining > 0 {
		time.Sleep(remaining)
	}
	return nil
}

type dummySensor struct {
	d *Dummy
}

func (s dummySensor) IsPressed() (bool, error) {
	s.d.printf("IsPressed")
	return false, nil
}

func (s dummySensor) Distance() (physic.Distance, error) {
	s.d.printf("Distance")
	return 255 * 10 * physic.MilliMetre, nil
}

func (s dummySensor) ReflectedLightIntensity() (float64, error) {
	s.d.printf("ReflectedLightIntensity")
	return 0, nil
}

func (s dummySensor) AmbientLightIntensity() (float64, error) {
	s.d.printf("AmbientLightIntensity")
	return 0, nil
}

func (s dummySensor) Color() (int, error) {
	s.d.printf("Color")
	return 0, nil
}

func (s dummySensor) RGB() (r, g, b int, err error) {
	s.d.printf("RGB")
	return 0, 0, 0, nil
}

func (s dummySensor) CalibrateWhite() error {
	s.d.printf("CalibrateWhite")
	return nil
}

func (s dummySensor) Angle() (int, error) {
	s.d.printf("Angle")
	return 0, nil
}
