package ev3dev

import (
	"fmt"
	"math"

	"periph.io/x/periph/conn/physic"
)

const (
	DriverEV3Touch      = "lego-ev3-touch"
	DriverNXTTouch      = "lego-nxt-touch"
	DriverEV3Ultrasonic = "lego-ev3-us"
	DriverNXTUltrasonic = "lego-nxt-us"
	DriverEV3Color      = "lego-ev3-color"
	DriverEV3Gyro       = "lego-ev3-gyro"
)

// Sensor is a generic lego-sensor device.  The typed sensors below switch it
// into the mode they need before each read.
type Sensor struct {
	dir     string
	address string
	driver  string
	mode    string
}

func OpenSensor(fs Sysfs, address string, drivers ...string) (*Sensor, error) {
	dir, driver, err := fs.FindDevice(ClassSensor, address, drivers...)
	if err != nil {
		return nil, err
	}
	s := &Sensor{
		dir:     dir,
		address: address,
		driver:  driver,
	}
	// Not fatal; we'll just write the mode on first use.
	s.mode, _ = readAttr(dir, "mode")
	return s, nil
}

func (s *Sensor) Address() string {
	return s.address
}

func (s *Sensor) Driver() string {
	return s.driver
}

func (s *Sensor) Mode() string {
	return s.mode
}

func (s *Sensor) SetMode(mode string) error {
	if s.mode == mode {
		return nil
	}
	if err := writeAttr(s.dir, "mode", mode); err != nil {
		return err
	}
	s.mode = mode
	return nil
}

// Value returns the raw integer in value<n>.
func (s *Sensor) Value(n int) (int, error) {
	return readIntAttr(s.dir, fmt.Sprintf("value%d", n))
}

// FloatValue returns value<n> scaled by the mode's decimals attribute.
func (s *Sensor) FloatValue(n int) (float64, error) {
	v, err := s.Value(n)
	if err != nil {
		return 0, err
	}
	dec, err := readIntAttr(s.dir, "decimals")
	if err != nil {
		dec = 0
	}
	return float64(v) / math.Pow10(dec), nil
}

func (s *Sensor) Command(cmd string) error {
	return writeAttr(s.dir, "command", cmd)
}

func (s *Sensor) readMode(mode string, n int) (int, error) {
	if err := s.SetMode(mode); err != nil {
		return 0, err
	}
	return s.Value(n)
}

type TouchSensor struct {
	*Sensor
}

func OpenTouchSensor(fs Sysfs, address string) (*TouchSensor, error) {
	s, err := OpenSensor(fs, address, DriverEV3Touch, DriverNXTTouch)
	if err != nil {
		return nil, err
	}
	return &TouchSensor{s}, nil
}

func (t *TouchSensor) IsPressed() (bool, error) {
	v, err := t.readMode("TOUCH", 0)
	return v != 0, err
}

type UltrasonicSensor struct {
	*Sensor
}

func OpenUltrasonicSensor(fs Sysfs, address string) (*UltrasonicSensor, error) {
	s, err := OpenSensor(fs, address, DriverEV3Ultrasonic, DriverNXTUltrasonic)
	if err != nil {
		return nil, err
	}
	return &UltrasonicSensor{s}, nil
}

func (u *UltrasonicSensor) Distance() (physic.Distance, error) {
	if err := u.SetMode("US-DIST-CM"); err != nil {
		return 0, err
	}
	cm, err := u.FloatValue(0)
	if err != nil {
		return 0, err
	}
	return physic.Distance(cm * 10 * float64(physic.MilliMetre)), nil
}

// DefaultWhiteMax is the raw channel value treated as full intensity until
// CalibrateWhite is called.
const DefaultWhiteMax = 300

type ColorSensor struct {
	*Sensor

	RedMax, GreenMax, BlueMax int
}

func OpenColorSensor(fs Sysfs, address string) (*ColorSensor, error) {
	s, err := OpenSensor(fs, address, DriverEV3Color)
	if err != nil {
		return nil, err
	}
	return &ColorSensor{
		Sensor:   s,
		RedMax:   DefaultWhiteMax,
		GreenMax: DefaultWhiteMax,
		BlueMax:  DefaultWhiteMax,
	}, nil
}

// ReflectedLightIntensity is in percent, 0-100.
func (c *ColorSensor) ReflectedLightIntensity() (float64, error) {
	v, err := c.readMode("COL-REFLECT", 0)
	return float64(v), err
}

// AmbientLightIntensity is in percent, 0-100.
func (c *ColorSensor) AmbientLightIntensity() (float64, error) {
	v, err := c.readMode("COL-AMBIENT", 0)
	return float64(v), err
}

// Color returns the detected colour code, 0 (none) to 7 (brown).
func (c *ColorSensor) Color() (int, error) {
	return c.readMode("COL-COLOR", 0)
}

// Raw returns the unscaled red, green and blue channels (up to ~1020).
func (c *ColorSensor) Raw() (r, g, b int, err error) {
	if err = c.SetMode("RGB-RAW"); err != nil {
		return
	}
	if r, err = c.Value(0); err != nil {
		return
	}
	if g, err = c.Value(1); err != nil {
		return
	}
	b, err = c.Value(2)
	return
}

// RGB returns the channels scaled to 0-255 against the white maxima.
func (c *ColorSensor) RGB() (r, g, b int, err error) {
	r, g, b, err = c.Raw()
	if err != nil {
		return
	}
	return scaleChannel(r, c.RedMax), scaleChannel(g, c.GreenMax), scaleChannel(b, c.BlueMax), nil
}

// CalibrateWhite records the current raw reading as full intensity.  The
// sensor should be looking at something white.
func (c *ColorSensor) CalibrateWhite() error {
	r, g, b, err := c.Raw()
	if err != nil {
		return err
	}
	c.RedMax, c.GreenMax, c.BlueMax = atLeastOne(r), atLeastOne(g), atLeastOne(b)
	return nil
}

func scaleChannel(v, full int) int {
	if full <= 0 {
		full = DefaultWhiteMax
	}
	scaled := v * 255 / full
	if scaled > 255 {
		return 255
	}
	if scaled < 0 {
		return 0
	}
	return scaled
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

type GyroSensor struct {
	*Sensor
}

func OpenGyroSensor(fs Sysfs, address string) (*GyroSensor, error) {
	s, err := OpenSensor(fs, address, DriverEV3Gyro)
	if err != nil {
		return nil, err
	}
	return &GyroSensor{s}, nil
}

// Angle is the cumulative rotation in degrees since the sensor was last
// reset.  It is not wrapped.
func (g *GyroSensor) Angle() (int, error) {
	return g.readMode("GYRO-ANG", 0)
}
