//go:build linux && !tinygo

// Command linux runs the button/timer controller on a Raspberry Pi (or any
// Linux board periph.io supports), with LEDs and buttons on header GPIOs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"periph.io/x/host/v3"

	"apptimer/app"
	"apptimer/core"
	"apptimer/logger"
)

var (
	configPath = flag.String("config", "", "YAML board file (defaults to the reference wiring)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	cfg := DefaultBoardConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadBoardConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if *verbose {
		level = logger.DebugLevel
	}
	log := logger.New(logger.Options{Level: level}).With("board", cfg.Name)

	core.SetDebugWriter(func(s string) { log.Debug(s) })
	core.SetDebugEnabled(*verbose)
	core.SetFaultHandler(func(err error) {
		core.DumpTimingRing()
		log.Error("fatal fault", "error", err)
		os.Exit(1)
	})

	if _, err := host.Init(); err != nil {
		core.ErrorCheck(&core.PeripheralInitError{Peripheral: "host", Err: err})
	}
	core.SetTimerFreq(cfg.TickHz)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drv := NewPeriphGPIO(ctx, cfg.Debounce)
	defer drv.Close()

	sys, err := app.Start(cfg.Board(drv))
	core.ErrorCheck(err)

	log.Info("controller running",
		"buttons", cfg.Buttons,
		"leds", cfg.LEDs,
		"tick_hz", core.TimerFreq(),
		"deferred", cfg.Deferred)

	poll := func() int {
		n := sys.Poll()
		core.DrainTiming(func(evt core.TimingEvent) {
			log.Debug("trace",
				"seq", evt.Seq,
				"event", core.EventName(evt.EventType),
				"oid", evt.OID,
				"clock", evt.Clock,
				"v1", evt.Value1,
				"v2", evt.Value2)
		})
		return n
	}
	core.NewTickSource().Run(ctx, cfg.PollInterval, poll)

	log.Info("shutting down", "escalating_timeout_ms", sys.Controller.EscalatingTimeout())
	if err := sys.Shutdown(); err != nil {
		log.Warn("shutdown", "error", err)
	}
}

