package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/tigerbot-team/basicbot/pkg/hardware"
	"github.com/tigerbot-team/basicbot/pkg/ports"
	"github.com/tigerbot-team/basicbot/pkg/robot"
)

const sample = `
name: Dobby
ports:
  outA: "spi0.1:MA"
motors:
  left: outA
  right: outB
  servo: outC
touch:
  left: in1
color: in3
gyro: IN2
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "Dobby" {
		t.Errorf("Name = %v", cfg.Name)
	}
	if cfg.SysfsRoot != "/sys/class" || cfg.Framebuffer != "/dev/fb0" {
		t.Errorf("Defaults not kept: %#v", cfg)
	}
	table, err := cfg.PortTable()
	if err != nil {
		t.Fatal(err)
	}
	if table[ports.OutA] != "spi0.1:MA" || table[ports.OutB] != "ev3-ports:outB" {
		t.Errorf("Unexpected port table %v", table)
	}
}

func TestParseRejectsBadPortTable(t *testing.T) {
	cfg, err := Parse([]byte("name: X\nports:\n  outZ: foo\n"))
	if errors.Cause(err) != ports.ErrInvalidPortName {
		t.Fatalf("Expected ErrInvalidPortName, got %v", err)
	}
	if cfg.Name != Default().Name {
		t.Fatalf("Expected defaults on error, got %#v", cfg)
	}

	if _, err := Parse([]byte("motors: [")); err == nil {
		t.Fatal("Expected YAML error")
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg.Name != Default().Name {
		t.Fatalf("Expected defaults, got %#v", cfg)
	}

	path := filepath.Join(t.TempDir(), "basicbot.yaml")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	if cfg := Load(path); cfg.Name != "Dobby" {
		t.Fatalf("Load() = %#v", cfg)
	}
}

func TestApply(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	table, _ := cfg.PortTable()
	var out bytes.Buffer
	r := robot.New(cfg.Name, table, &hardware.Dummy{Out: &out}, &out)
	cfg.Apply(r)

	got := map[string]string{}
	for _, b := range r.Bindings() {
		if d, ok := b.Port.Get(); ok {
			got[b.Role] = d.Port.String()
		}
	}
	expected := map[string]string{
		"left motor":  "outA",
		"right motor": "outB",
		"servo motor": "outC",
		"left touch":  "in1",
		"color":       "in3",
		"gyro":        "in2",
	}
	if len(got) != len(expected) {
		t.Fatalf("Bindings = %v, expected %v", got, expected)
	}
	for role, port := range expected {
		if got[role] != port {
			t.Errorf("%v bound to %q, expected %q", role, got[role], port)
		}
	}
	if !strings.Contains(out.String(), "DHW: OpenMotor port=outA(spi0.1:MA) kind=large") {
		t.Errorf("Port override not used:\n%s", out.String())
	}
}

func TestDumpRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Dump(&buf); err != nil {
		t.Fatal(err)
	}
	cfg, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != Default().Name || cfg.Motors != Default().Motors {
		t.Fatalf("Dump/Parse changed the config: %#v", cfg)
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("BASICBOT_CONFIG", "")
	if p := PathFromEnv(); p != DefaultPath {
		t.Errorf("PathFromEnv() = %q", p)
	}
	t.Setenv("BASICBOT_CONFIG", "/tmp/dobby.yaml")
	if p := PathFromEnv(); p != "/tmp/dobby.yaml" {
		t.Errorf("PathFromEnv() = %q", p)
	}
}

func TestNewRobotWithDummyHardware(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cfg.Hardware(true).(*hardware.Dummy); !ok {
		t.Fatal("Expected dummy hardware")
	}
	cfg.UltraI2C = true
	if hw, ok := cfg.Hardware(false).(*hardware.Hardware); !ok || !hw.UltrasonicOverI2C {
		t.Fatalf("Expected real hardware with I2C ultrasonic, got %#v", cfg.Hardware(false))
	}

	r, err := cfg.NewRobot(true)
	if err != nil {
		t.Fatal(err)
	}
	if r.Name() != "Dobby" {
		t.Errorf("Name() = %q", r.Name())
	}
	if b := r.Bindings()[2]; b.Role != "servo motor" || !b.Port.IsSet() {
		t.Errorf("Servo not bound: %v", b)
	}
}

func TestDriveStopperUsesItsOwnHandles(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	hw := &hardware.Dummy{Out: &out}
	r, err := cfg.NewRobotOn(hw)
	if err != nil {
		t.Fatal(err)
	}
	stop := cfg.DriveStopper(hw)

	out.Reset()
	stop()
	for _, expected := range []string{"DHW: Stop spi0.1:MA", "DHW: Stop ev3-ports:outB"} {
		if !strings.Contains(out.String(), expected) {
			t.Errorf("Missing %q in:\n%s", expected, out.String())
		}
	}
	if !r.HasDrive() {
		t.Error("Controller lost its drive")
	}

	cfg.Motors = MotorPorts{Left: "outZ"}
	out.Reset()
	cfg.DriveStopper(hw)()
	if strings.Contains(out.String(), "DHW: Stop") {
		t.Errorf("Stopped motors that aren't configured:\n%s", out.String())
	}
}
