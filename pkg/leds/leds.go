package leds

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const DefaultRoot = "/sys/class/leds"

type Group int

const (
	Left Group = iota
	Right
)

func (g Group) String() string {
	if g == Left {
		return "left"
	}
	return "right"
}

// Color is a pair of red and green intensities, each 0 to 1.
type Color struct {
	Red, Green float64
}

var (
	Black  = Color{0, 0}
	Red    = Color{1, 0}
	Green  = Color{0, 1}
	Amber  = Color{1, 1}
	Orange = Color{1, 0.5}
	Yellow = Color{0.1, 1}
)

var named = map[string]Color{
	"black":  Black,
	"red":    Red,
	"green":  Green,
	"amber":  Amber,
	"orange": Orange,
	"yellow": Yellow,
}

var ErrUnknownColor = errors.New("unknown LED color")

func ParseColor(name string) (Color, error) {
	c, ok := named[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Color{}, errors.Wrapf(ErrUnknownColor, "%q", name)
	}
	return c, nil
}

// LEDs drives the two bi-colour status LEDs under the brick's buttons.
type LEDs struct {
	Root string
}

func New(root string) *LEDs {
	if root == "" {
		root = DefaultRoot
	}
	return &LEDs{Root: root}
}

func (l *LEDs) dir(g Group, colour string) string {
	return filepath.Join(l.Root, fmt.Sprintf("led%d:%s:brick-status", int(g), colour))
}

func (l *LEDs) SetColor(g Group, c Color) error {
	if err := l.setBrightness(l.dir(g, "red"), c.Red); err != nil {
		return err
	}
	return l.setBrightness(l.dir(g, "green"), c.Green)
}

func (l *LEDs) SetNamedColor(g Group, name string) error {
	c, err := ParseColor(name)
	if err != nil {
		return err
	}
	return l.SetColor(g, c)
}

func (l *LEDs) AllOff() error {
	if err := l.SetColor(Left, Black); err != nil {
		return err
	}
	return l.SetColor(Right, Black)
}

func (l *LEDs) setBrightness(dir string, intensity float64) error {
	if intensity < 0 || intensity > 1 || math.IsNaN(intensity) {
		return errors.Errorf("LED intensity %v out of range 0-1", intensity)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "max_brightness"))
	if err != nil {
		return errors.Wrap(err, "failed to read LED max_brightness")
	}
	full, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return errors.Wrapf(err, "bad max_brightness in %s", dir)
	}
	value := int(math.Round(intensity * float64(full)))
	f, err := os.OpenFile(filepath.Join(dir, "brightness"), os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return errors.Wrap(err, "failed to open LED")
	}
	defer f.Close()
	_, err = f.WriteString(strconv.Itoa(value))
	return err
}
