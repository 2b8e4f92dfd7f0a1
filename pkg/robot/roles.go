package robot

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidRole = errors.New("invalid role description")

type MotorRole int

const (
	LeftMotor MotorRole = iota
	RightMotor
	ServoMotor
)

func (r MotorRole) String() string {
	switch r {
	case LeftMotor:
		return "leftMotor"
	case RightMotor:
		return "rightMotor"
	case ServoMotor:
		return "servoMotor"
	default:
		return fmt.Sprintf("motorRole(%d)", int(r))
	}
}

func (r MotorRole) isDrive() bool {
	return r == LeftMotor || r == RightMotor
}

// ParseMotorRole accepts "leftMotor", "rightMotor" and "servoMotor" (or just
// "left", "right", "servo"), ignoring case.
func ParseMotorRole(s string) (MotorRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "leftmotor", "left":
		return LeftMotor, nil
	case "rightmotor", "right":
		return RightMotor, nil
	case "servomotor", "servo":
		return ServoMotor, nil
	}
	return 0, errors.Wrapf(ErrInvalidRole, "%q", s)
}

// Side picks one of the two touch sensors.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, errors.Wrapf(ErrInvalidRole, "%q", s)
}

// Color is the colour code reported by the color sensor.
type Color int

const (
	ColorNone Color = iota
	ColorBlack
	ColorBlue
	ColorGreen
	ColorYellow
	ColorRed
	ColorWhite
	ColorBrown
)

var colorNames = []string{"none", "black", "blue", "green", "yellow", "red", "white", "brown"}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

type RGB struct {
	R, G, B int
}
