package ev3dev

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DriverLargeMotor  = "lego-ev3-l-motor"
	DriverMediumMotor = "lego-ev3-m-motor"
	DriverNXTMotor    = "lego-nxt-motor"
)

// Stop actions understood by the tacho-motor class.
const (
	StopCoast = "coast"
	StopBrake = "brake"
	StopHold  = "hold"
)

// PollInterval is how often a blocked caller re-reads the motor state.
var PollInterval = 10 * time.Millisecond

type TachoMotor struct {
	dir      string
	address  string
	driver   string
	maxSpeed int
}

// OpenTachoMotor finds the motor plugged into address.
func OpenTachoMotor(fs Sysfs, address string, drivers ...string) (*TachoMotor, error) {
	dir, driver, err := fs.FindDevice(ClassTachoMotor, address, drivers...)
	if err != nil {
		return nil, err
	}
	maxSpeed, err := readIntAttr(dir, "max_speed")
	if err != nil {
		return nil, err
	}
	return &TachoMotor{
		dir:      dir,
		address:  address,
		driver:   driver,
		maxSpeed: maxSpeed,
	}, nil
}

func (m *TachoMotor) Address() string {
	return m.address
}

func (m *TachoMotor) Driver() string {
	return m.driver
}

func (m *TachoMotor) MaxSpeed() int {
	return m.maxSpeed
}

func (m *TachoMotor) SetStopAction(action string) error {
	return writeAttr(m.dir, "stop_action", action)
}

// SpeedSetpoint converts a percentage of full speed into tacho counts/sec.
func (m *TachoMotor) SpeedSetpoint(percent float64) int {
	return int(math.Round(percent / 100 * float64(m.maxSpeed)))
}

// Run starts the motor at percent of full speed and returns immediately.
func (m *TachoMotor) Run(percent float64) error {
	if err := writeAttr(m.dir, "speed_sp", strconv.Itoa(m.SpeedSetpoint(percent))); err != nil {
		return err
	}
	return m.command("run-forever")
}

// RunTimed starts the motor for d; the kernel applies the stop action when the
// time is up.  It does not wait.
func (m *TachoMotor) RunTimed(percent float64, d time.Duration) error {
	if err := writeAttr(m.dir, "speed_sp", strconv.Itoa(m.SpeedSetpoint(percent))); err != nil {
		return err
	}
	if err := writeAttr(m.dir, "time_sp", strconv.FormatInt(timeSetpoint(d), 10)); err != nil {
		return err
	}
	return m.command("run-timed")
}

// timeSetpoint is d in whole milliseconds, rounded up so that a short
// positive run is never sent as zero.
func timeSetpoint(d time.Duration) int64 {
	return int64((d + time.Millisecond - 1) / time.Millisecond)
}

func (m *TachoMotor) Stop() error {
	return m.command("stop")
}

func (m *TachoMotor) State() ([]string, error) {
	s, err := readAttr(m.dir, "state")
	if err != nil {
		return nil, err
	}
	return strings.Fields(s), nil
}

func (m *TachoMotor) IsRunning() (bool, error) {
	state, err := m.State()
	if err != nil {
		return false, err
	}
	for _, f := range state {
		if f == "running" {
			return true, nil
		}
	}
	return false, nil
}

// WaitUntilStopped blocks until the motor no longer reports "running".
func (m *TachoMotor) WaitUntilStopped() error {
	for {
		running, err := m.IsRunning()
		if err != nil || !running {
			return err
		}
		time.Sleep(PollInterval)
	}
}

func (m *TachoMotor) command(cmd string) error {
	return writeAttr(m.dir, "command", cmd)
}
