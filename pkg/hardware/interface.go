package hardware

import (
	"time"

	"periph.io/x/periph/conn/physic"

	"github.com/tigerbot-team/basicbot/pkg/drive"
	"github.com/tigerbot-team/basicbot/pkg/ports"
)

type MotorKind int

const (
	LargeMotor MotorKind = iota
	MediumMotor
)

func (k MotorKind) String() string {
	switch k {
	case LargeMotor:
		return "large"
	case MediumMotor:
		return "medium"
	default:
		return "unknown"
	}
}

type StopAction string

const (
	Coast StopAction = "coast"
	Brake StopAction = "brake"
	Hold  StopAction = "hold"
)

// Interface opens devices by port.  Opening fails if nothing suitable is
// plugged into the port.
type Interface interface {
	OpenMotor(port ports.Descriptor, kind MotorKind) (Motor, error)
	OpenTouchSensor(port ports.Descriptor) (TouchSensor, error)
	OpenUltrasonicSensor(port ports.Descriptor) (UltrasonicSensor, error)
	OpenColorSensor(port ports.Descriptor) (ColorSensor, error)
	OpenGyroSensor(port ports.Descriptor) (GyroSensor, error)

	// DifferentialDrive pairs two motors into a drive.
	DifferentialDrive(left, right Motor) DifferentialDrive
}

type Motor interface {
	drive.Motor
	Address() string
	SetStopAction(StopAction) error
}

// DifferentialDrive speeds and steer values are in [-100, 100].  The
// ...ForDuration variants block until the motors have stopped.
type DifferentialDrive interface {
	On(left, right float64) error
	OnForDuration(left, right float64, d time.Duration) error
	Steer(steer, speed float64) error
	SteerForDuration(steer, speed float64, d time.Duration) error
	Off() error
}

type TouchSensor interface {
	IsPressed() (bool, error)
}

type UltrasonicSensor interface {
	Distance() (physic.Distance, error)
}

type ColorSensor interface {
	ReflectedLightIntensity() (float64, error)
	AmbientLightIntensity() (float64, error)
	Color() (int, error)
	RGB() (r, g, b int, err error)
	CalibrateWhite() error
}

type GyroSensor interface {
	Angle() (int, error)
}

var _ DifferentialDrive = (*drive.Differential)(nil)
