package hardware

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/tigerbot-team/basicbot/pkg/drive"
	"github.com/tigerbot-team/basicbot/pkg/ev3dev"
	"github.com/tigerbot-team/basicbot/pkg/nxtus"
	"github.com/tigerbot-team/basicbot/pkg/ports"
)

// Hardware talks to the real devices through the ev3dev sysfs classes.
type Hardware struct {
	fs ev3dev.Sysfs

	// UltrasonicOverI2C switches ultrasonic ports into raw I2C mode and
	// talks to an NXT sensor directly instead of using the kernel driver.
	UltrasonicOverI2C bool
}

func New(sysfsRoot string) *Hardware {
	return &Hardware{
		fs: ev3dev.Sysfs{Root: sysfsRoot},
	}
}

var _ Interface = (*Hardware)(nil)

func (h *Hardware) OpenMotor(port ports.Descriptor, kind MotorKind) (Motor, error) {
	if !port.Port.IsOutput() {
		return nil, errors.Errorf("%v is not a motor port", port)
	}
	drivers := []string{ev3dev.DriverLargeMotor, ev3dev.DriverNXTMotor}
	if kind == MediumMotor {
		drivers = []string{ev3dev.DriverMediumMotor}
	}
	m, err := ev3dev.OpenTachoMotor(h.fs, port.Address, drivers...)
	if err != nil {
		return nil, err
	}
	fmt.Printf("HW: opened %v motor %v on %v\n", kind, m.Driver(), port)
	return tachoMotor{m}, nil
}

func (h *Hardware) OpenTouchSensor(port ports.Descriptor) (TouchSensor, error) {
	if err := checkInput(port); err != nil {
		return nil, err
	}
	return ev3dev.OpenTouchSensor(h.fs, port.Address)
}

func (h *Hardware) OpenUltrasonicSensor(port ports.Descriptor) (UltrasonicSensor, error) {
	if err := checkInput(port); err != nil {
		return nil, err
	}
	if h.UltrasonicOverI2C {
		dev, err := nxtus.DeviceFile(port.Address)
		if err != nil {
			return nil, err
		}
		if err := h.fs.SetPortMode(port.Address, "other-i2c"); err != nil {
			return nil, err
		}
		return nxtus.New(dev)
	}
	return ev3dev.OpenUltrasonicSensor(h.fs, port.Address)
}

func (h *Hardware) OpenColorSensor(port ports.Descriptor) (ColorSensor, error) {
	if err := checkInput(port); err != nil {
		return nil, err
	}
	return ev3dev.OpenColorSensor(h.fs, port.Address)
}

func (h *Hardware) OpenGyroSensor(port ports.Descriptor) (GyroSensor, error) {
	if err := checkInput(port); err != nil {
		return nil, err
	}
	return ev3dev.OpenGyroSensor(h.fs, port.Address)
}

func (h *Hardware) DifferentialDrive(left, right Motor) DifferentialDrive {
	return drive.New(left, right)
}

func checkInput(port ports.Descriptor) error {
	if !port.Port.IsInput() {
		return errors.Errorf("%v is not a sensor port", port)
	}
	return nil
}

// tachoMotor adapts the sysfs motor to the typed stop action.
type tachoMotor struct {
	*ev3dev.TachoMotor
}

func (m tachoMotor) SetStopAction(a StopAction) error {
	return m.TachoMotor.SetStopAction(string(a))
}
