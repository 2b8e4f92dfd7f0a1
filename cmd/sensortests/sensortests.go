package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tigerbot-team/basicbot/pkg/buttons"
	"github.com/tigerbot-team/basicbot/pkg/config"
	"github.com/tigerbot-team/basicbot/pkg/leds"
	"github.com/tigerbot-team/basicbot/pkg/robot"
	"github.com/tigerbot-team/basicbot/pkg/sound"
)

var starSong = []sound.Note{
	{Pitch: "C4", Value: "q"}, {Pitch: "C4", Value: "q"}, {Pitch: "G4", Value: "q"}, {Pitch: "G4", Value: "q"},
	{Pitch: "A4", Value: "q"}, {Pitch: "A4", Value: "q"}, {Pitch: "G4", Value: "h"},
	{Pitch: "F4", Value: "q"}, {Pitch: "F4", Value: "q"}, {Pitch: "E4", Value: "q"}, {Pitch: "E4", Value: "q"},
	{Pitch: "D4", Value: "q"}, {Pitch: "D4", Value: "q"}, {Pitch: "C4", Value: "h"},
}

type tests struct {
	cfg config.Config
	r   *robot.Controller
}

func main() {
	configPath := flag.String("config", config.PathFromEnv(), "robot config file")
	dummy := flag.Bool("dummy", false, "print hardware calls instead of driving the brick")
	test := flag.String("test", "calibrate", "one of color, othercolor, calibrate, ultra, gyro, buttons, leds")
	flag.Parse()

	cfg := config.Load(*configPath)
	r, err := cfg.NewRobot(*dummy)
	if err != nil {
		fmt.Println("Failed to create robot:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	registerSignalHandlers(cancel)

	t := &tests{cfg: cfg, r: r}
	all := map[string]func(context.Context) error{
		"color":      t.testColor,
		"othercolor": t.testOtherColor,
		"calibrate":  t.testWithCalibrate,
		"ultra":      t.testUltra,
		"gyro":       t.testGyro,
		"buttons":    t.testButtons,
		"leds":       t.testLEDs,
	}
	f, ok := all[*test]
	if !ok {
		fmt.Println("Unknown test:", *test)
		flag.Usage()
		os.Exit(2)
	}
	if err := f(ctx); err != nil && ctx.Err() == nil {
		fmt.Println("Test failed:", err)
		os.Exit(1)
	}
	fmt.Println("DONE")
}

func (t *tests) port(configured, fallback string) string {
	if configured != "" {
		return configured
	}
	return fallback
}

// openButtons starts tracking the brick buttons until ctx is done.
func (t *tests) openButtons(ctx context.Context) (*buttons.Buttons, error) {
	b, err := buttons.Open(t.cfg.ButtonsDevice)
	if err != nil {
		return nil, err
	}
	go b.Loop(ctx)
	return b, nil
}

// testColor drives forward until the colour sensor sees something dark.
func (t *tests) testColor(ctx context.Context) error {
	t.r.BindColorSensor(t.port(t.cfg.Color, "in1"))
	t.r.Forward(30)
	defer t.r.Stop()
	for ctx.Err() == nil {
		v, ok := t.r.ReadReflect().Get()
		fmt.Println("Color", v)
		if ok && v < 5 {
			break
		}
	}
	return ctx.Err()
}

func (t *tests) testWithCalibrate(ctx context.Context) error {
	b, err := t.openButtons(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Place sensor close to brightest white")
	t.r.BindColorSensor(t.port(t.cfg.Color, "in1"))
	if err := b.WaitForBump(ctx, buttons.KeyEnter); err != nil {
		return err
	}
	t.r.CalibrateWhite()
	return t.testOtherColor(ctx)
}

func (t *tests) testOtherColor(ctx context.Context) error {
	t.r.BindColorSensor(t.port(t.cfg.Color, "in1"))
	for i := 0; i < 100 && ctx.Err() == nil; i++ {
		fmt.Println("Color =", t.r.ReadRGBColor(), t.r.ReadColor())
		time.Sleep(500 * time.Millisecond)
	}
	return ctx.Err()
}

func (t *tests) testUltra(ctx context.Context) error {
	b, err := t.openButtons(ctx)
	if err != nil {
		return err
	}
	t.r.BindUltrasonicSensor(t.port(t.cfg.Ultra, "in4"))
	for !b.Any() && ctx.Err() == nil {
		fmt.Println("Ultra value:", t.r.ReadUltra())
		time.Sleep(100 * time.Millisecond)
	}
	return ctx.Err()
}

// testGyro waits for the robot to be turned by hand and then turns it back
// to within 10 degrees of where it started.
func (t *tests) testGyro(ctx context.Context) error {
	b, err := t.openButtons(ctx)
	if err != nil {
		return err
	}
	t.r.BindGyroSensor(t.port(t.cfg.Gyro, "in2"))
	for !b.Any() && ctx.Err() == nil {
		fmt.Println("turn robot...", t.r.ReadGyroAngle())
		time.Sleep(100 * time.Millisecond)
	}
	for ctx.Err() == nil {
		rot, ok := t.r.ReadGyroAngle().Get()
		if !ok {
			return fmt.Errorf("no gyro reading")
		}
		if math.Abs(rot) <= 10 {
			break
		}
		fmt.Println(".... rot = ", rot)
		rotSpeed := -30.0
		if rot < 0 {
			rotSpeed = 30
		}
		fmt.Println("rotSpeed = ", rotSpeed)
		t.r.TurnRightFor(rotSpeed, 200*time.Millisecond)
	}
	return ctx.Err()
}

func (t *tests) testButtons(ctx context.Context) error {
	b, err := t.openButtons(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Waiting for the left button...")
	for !b.Pressed(buttons.KeyLeft) && ctx.Err() == nil {
		fmt.Println("Waiting...")
		time.Sleep(100 * time.Millisecond)
	}
	return ctx.Err()
}

func (t *tests) testLEDs(ctx context.Context) error {
	snd := sound.NewPlayer(t.cfg.SoundsDir)
	l := leds.New("")
	if err := snd.Beep(); err != nil {
		fmt.Println("Beep failed:", err)
	}

	fmt.Println("All off...")
	if err := l.AllOff(); err != nil {
		return err
	}
	time.Sleep(2 * time.Second)

	if err := sound.Speak("Amber..."); err != nil {
		fmt.Println("Speak failed:", err)
	}
	_ = l.SetNamedColor(leds.Left, "amber")
	_ = l.SetNamedColor(leds.Right, "amber")
	time.Sleep(2 * time.Second)

	fmt.Println("Left fading red, right green...")
	go func() {
		if err := snd.PlayFile("GoatBah.wav"); err != nil {
			fmt.Println("Failed to play sound:", err)
		}
	}()
	for i := 0; i < 6 && ctx.Err() == nil; i++ {
		x := float64(i) / 6
		fmt.Println(i, x)
		if err := l.SetColor(leds.Left, leds.Color{Red: x, Green: 1}); err != nil {
			return err
		}
		if err := l.SetColor(leds.Right, leds.Green); err != nil {
			return err
		}
		time.Sleep(time.Second)
	}
	if err := l.AllOff(); err != nil {
		return err
	}
	return snd.PlaySong(starSong, sound.DefaultTempo)
}

func registerSignalHandlers(cancelFunc context.CancelFunc) {
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.Println("Signal: ", s)
		cancelFunc()
	}()
}
