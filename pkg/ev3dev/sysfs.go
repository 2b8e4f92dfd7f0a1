package ev3dev

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultRoot is where the kernel exposes the device classes.
const DefaultRoot = "/sys/class"

const (
	ClassTachoMotor = "tacho-motor"
	ClassSensor     = "lego-sensor"
	ClassPort       = "lego-port"
)

var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrWrongDriver    = errors.New("device has unexpected driver")
)

// Sysfs locates ev3dev devices under Root.  The zero value uses DefaultRoot.
type Sysfs struct {
	Root string
}

func (s Sysfs) root() string {
	if s.Root == "" {
		return DefaultRoot
	}
	return s.Root
}

// FindDevice returns the directory of the device in class whose address
// matches address.  If drivers is non-empty, the device's driver_name must be
// one of them.
func (s Sysfs) FindDevice(class, address string, drivers ...string) (dir, driver string, err error) {
	classDir := filepath.Join(s.root(), class)
	entries, err := os.ReadDir(classDir)
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to list %s", classDir)
	}
	for _, e := range entries {
		dir := filepath.Join(classDir, e.Name())
		addr, err := readAttr(dir, "address")
		if err != nil {
			continue
		}
		if addr != address && !strings.HasPrefix(addr, address+":") {
			continue
		}
		driver, err := readAttr(dir, "driver_name")
		if err != nil {
			return "", "", err
		}
		if len(drivers) == 0 {
			return dir, driver, nil
		}
		for _, d := range drivers {
			if d == driver {
				return dir, driver, nil
			}
		}
		return "", "", errors.Wrapf(ErrWrongDriver, "%s at %s is %s, expected one of %v",
			class, address, driver, drivers)
	}
	return "", "", errors.Wrapf(ErrDeviceNotFound, "no %s at %s", class, address)
}

// SetPortMode switches the lego-port at address into the given mode, for
// example "other-i2c" to expose a raw I2C adapter on an input port.
func (s Sysfs) SetPortMode(address, mode string) error {
	dir, _, err := s.FindDevice(ClassPort, address)
	if err != nil {
		return err
	}
	current, err := readAttr(dir, "mode")
	if err == nil && current == mode {
		return nil
	}
	return writeAttr(dir, "mode", mode)
}

func readAttr(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return strings.TrimSpace(string(b)), nil
}

func readIntAttr(dir, name string) (int, error) {
	s, err := readAttr(dir, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "bad value in %s/%s", dir, name)
	}
	return v, nil
}

func writeAttr(dir, name, value string) error {
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	_, err = f.WriteString(value)
	if err != nil {
		return errors.Wrapf(err, "failed to write %q to %s", value, path)
	}
	return nil
}
