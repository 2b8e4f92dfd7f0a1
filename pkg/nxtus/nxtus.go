package nxtus

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/io/i2c"
	"periph.io/x/periph/conn/physic"
)

// Driver for the NXT ultrasonic sensor read directly over I2C, for ports that
// have been switched into "other-i2c" mode.

const (
	Addr = 0x01

	RegVersion      = 0x00
	RegProductID    = 0x08
	RegSensorType   = 0x10
	RegCommand      = 0x41
	RegMeasurement0 = 0x42

	CmdContinuous = 0x02

	// NoEcho is reported when nothing is in range.
	NoEcho = 0xff
)

var ErrNoEcho = errors.New("no echo")

type Interface interface {
	Distance() (physic.Distance, error)
	Close() error
}

type port interface {
	ReadReg(reg byte, buf []byte) error
	WriteReg(reg byte, buf []byte) error
	Close() error
}

type NXTUltrasonic struct {
	dev port
}

const ev3PortPrefix = "ev3-ports:"

var ErrNoAdapter = errors.New("no I2C adapter for port")

// DeviceFile is the I2C adapter ev3dev exposes for an EV3 input port address
// such as "ev3-ports:in4".  Other addresses (BrickPi and the like) have no
// known adapter.
func DeviceFile(address string) (string, error) {
	if !strings.HasPrefix(address, ev3PortPrefix) {
		return "", errors.Wrapf(ErrNoAdapter, "%s", address)
	}
	name := strings.TrimPrefix(address, ev3PortPrefix)
	if !strings.HasPrefix(name, "in") || len(name) != 3 || name[2] < '1' || name[2] > '4' {
		return "", errors.Wrapf(ErrNoAdapter, "%s", address)
	}
	return "/dev/i2c-" + name, nil
}

func New(deviceFile string) (*NXTUltrasonic, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, Addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", deviceFile)
	}
	u := &NXTUltrasonic{dev: dev}
	if err := u.dev.WriteReg(RegCommand, []byte{CmdContinuous}); err != nil {
		_ = dev.Close()
		return nil, errors.Wrap(err, "failed to start continuous measurement")
	}
	return u, nil
}

func (u *NXTUltrasonic) SensorType() (string, error) {
	var buf [8]byte
	if err := u.dev.ReadReg(RegSensorType, buf[:]); err != nil {
		return "", err
	}
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n]), nil
}

func (u *NXTUltrasonic) Distance() (physic.Distance, error) {
	var buf [1]byte
	if err := u.dev.ReadReg(RegMeasurement0, buf[:]); err != nil {
		return 0, errors.Wrap(err, "failed to read distance")
	}
	if buf[0] == NoEcho {
		return 0, ErrNoEcho
	}
	return physic.Distance(buf[0]) * 10 * physic.MilliMetre, nil
}

func (u *NXTUltrasonic) Close() error {
	return u.dev.Close()
}
