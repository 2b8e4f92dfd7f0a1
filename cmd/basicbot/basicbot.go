package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tigerbot-team/basicbot/pkg/config"
	"github.com/tigerbot-team/basicbot/pkg/screen"
)

func main() {
	configPath := flag.String("config", config.PathFromEnv(), "robot config file")
	dummy := flag.Bool("dummy", false, "print hardware calls instead of driving the brick")
	flag.Parse()

	cfg := config.Load(*configPath)
	fmt.Printf("---- %s ----\n", cfg.Name)
	_ = cfg.Dump(os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hw := cfg.Hardware(*dummy)
	r, err := cfg.NewRobotOn(hw)
	if err != nil {
		fmt.Println("Failed to create robot:", err)
		os.Exit(1)
	}
	registerSignalHandlers(cancel, cfg.DriveStopper(hw))

	if !*dummy {
		fb, err := screen.OpenFramebuffer(cfg.Framebuffer, cfg.SysfsRoot)
		if err != nil {
			fmt.Println("Failed to open screen, ignoring:", err)
		} else {
			go screen.LoopUpdatingScreen(ctx, fb, func() screen.Status { return screen.RobotStatus(r) })
		}
	}

	r.SteerCurveFor(-30, 50, time.Second)
	fmt.Println("Done")
}

func registerSignalHandlers(cancelFunc context.CancelFunc, stop func()) {
	// Hook Ctrl-C to stop the motors before exiting.  stop must not use the
	// controller, which main may be blocked in.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.Println("Signal: ", s)
		stop()
		cancelFunc()
		time.Sleep(500 * time.Millisecond)
		os.Exit(0)
	}()
}
