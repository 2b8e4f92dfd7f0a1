package robot

import (
	"periph.io/x/periph/conn/physic"

	"github.com/tigerbot-team/basicbot/pkg/hardware"
)

const centimetre = 10 * physic.MilliMetre

// ReadTouch reports both touch sensors.  A side with no sensor bound is None,
// not false.
func (c *Controller) ReadTouch() (left, right Maybe[bool]) {
	if !c.leftTouch.IsSet() && !c.rightTouch.IsSet() {
		c.logf("Warning, no touch sensor connected")
		return None[bool](), None[bool]()
	}
	return c.readPressed("left", c.leftTouch), c.readPressed("right", c.rightTouch)
}

func (c *Controller) readPressed(side string, m Maybe[handle[hardware.TouchSensor]]) Maybe[bool] {
	h, ok := m.Get()
	if !ok {
		return None[bool]()
	}
	pressed, err := h.dev.IsPressed()
	if err != nil {
		c.logf("Failed to read %s touch sensor: %v", side, err)
		return None[bool]()
	}
	return Some(pressed)
}

// ReadUltra reports the ultrasonic distance in centimetres.
func (c *Controller) ReadUltra() Maybe[float64] {
	h, ok := c.ultrasonic.Get()
	if !ok {
		c.logf("Warning, no ultrasonic sensor connected")
		return None[float64]()
	}
	d, err := h.dev.Distance()
	if err != nil {
		c.logf("Failed to read ultrasonic sensor: %v", err)
		return None[float64]()
	}
	return Some(float64(d) / float64(centimetre))
}

// ReadReflect reports reflected light intensity as the driver gives it: a
// percentage, 0 to 100.
func (c *Controller) ReadReflect() Maybe[float64] {
	return readColorSensor(c, "reflected light", hardware.ColorSensor.ReflectedLightIntensity)
}

// ReadAmbientLight reports ambient light intensity, 0 to 100.
func (c *Controller) ReadAmbientLight() Maybe[float64] {
	return readColorSensor(c, "ambient light", hardware.ColorSensor.AmbientLightIntensity)
}

func (c *Controller) ReadColor() Maybe[Color] {
	code := readColorSensor(c, "color", hardware.ColorSensor.Color)
	v, ok := code.Get()
	if !ok {
		return None[Color]()
	}
	return Some(Color(v))
}

// ReadRGBColor reports the red, green and blue channels, scaled to 0-255 by
// the driver.
func (c *Controller) ReadRGBColor() Maybe[RGB] {
	return readColorSensor(c, "RGB", func(s hardware.ColorSensor) (RGB, error) {
		r, g, b, err := s.RGB()
		return RGB{r, g, b}, err
	})
}

// CalibrateWhite takes the current reading as white, which adjusts what
// ReadRGBColor reports.
func (c *Controller) CalibrateWhite() {
	_ = readColorSensor(c, "white calibration", func(s hardware.ColorSensor) (struct{}, error) {
		return struct{}{}, s.CalibrateWhite()
	})
}

func readColorSensor[T any](c *Controller, what string, read func(hardware.ColorSensor) (T, error)) Maybe[T] {
	h, ok := c.color.Get()
	if !ok {
		c.logf("Warning, no color sensor connected")
		return None[T]()
	}
	v, err := read(h.dev)
	if err != nil {
		c.logf("Failed to read %s: %v", what, err)
		return None[T]()
	}
	return Some(v)
}

// ReadGyroAngle reports the degrees turned since the gyro was reset.  The
// angle keeps counting past +/-180.
func (c *Controller) ReadGyroAngle() Maybe[float64] {
	h, ok := c.gyro.Get()
	if !ok {
		c.logf("Warning, no gyro sensor connected")
		return None[float64]()
	}
	a, err := h.dev.Angle()
	if err != nil {
		c.logf("Failed to read gyro sensor: %v", err)
		return None[float64]()
	}
	return Some(float64(a))
}
