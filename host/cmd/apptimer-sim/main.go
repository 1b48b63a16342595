package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"apptimer/app"
	"apptimer/core"
	"apptimer/host/sim"
	"apptimer/logger"
)

var (
	interval = flag.Duration("interval", time.Millisecond, "Main loop period")
	deferred = flag.Bool("deferred", false, "Route button events through the event queue")
	verbose  = flag.Bool("verbose", false, "Enable verbose output")
)

// Simulated board wiring: buttons on pins 13-16, LEDs on 17-20 (nRF52 DK)
var (
	buttonPins = [core.NumLines]core.GPIOPin{13, 14, 15, 16}
	ledPins    = [core.NumLines]core.GPIOPin{17, 18, 19, 20}
)

func main() {
	flag.Parse()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "board> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	level := logger.InfoLevel
	if *verbose {
		level = logger.DebugLevel
	}
	log, session := logger.WithSession(logger.New(logger.Options{
		Level:   level,
		Output:  rl.Stderr(),
		Console: true,
	}))

	core.SetDebugWriter(func(s string) { log.Debug(s) })
	core.SetDebugEnabled(*verbose)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gpio := sim.NewGPIO()
	core.SetFaultHandler(func(err error) {
		core.DumpTimingRing()
		log.Error("fatal fault", "error", err)
		cancel()
		_ = rl.Close()
	})

	sys, err := app.Start(app.Board{
		Outputs:    ledPins,
		Inputs:     buttonPins,
		OutputGPIO: gpio,
		InputGPIO:  gpio,
		Edges:      gpio,
		Deferred:   *deferred,
	})
	if err != nil {
		log.Error("board start failed", "error", err)
		os.Exit(1)
	}
	log.Info("simulated board up", "session", session, "deferred", *deferred, "tick_hz", core.TimerFreq())

	go core.NewTickSource().Run(ctx, *interval, sys.Poll)

	s := &shell{rl: rl, out: rl.Stdout(), gpio: gpio, sys: sys}
	s.run(ctx, cancel)

	if err := sys.Shutdown(); err != nil {
		log.Warn("shutdown", "error", err)
	}
}

type shell struct {
	rl   *readline.Instance
	out  io.Writer
	gpio *sim.GPIO
	sys  *app.System
}

func (s *shell) run(ctx context.Context, cancel context.CancelFunc) {
	s.printHelp()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			cancel()
			return
		}

		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()
		case "press", "p":
			s.cmdPress(args)
		case "route":
			s.cmdRoute(args)
		case "leds", "l":
			s.cmdLEDs()
		case "timers", "t":
			s.cmdTimers()
		case "trace":
			core.DrainTiming(func(evt core.TimingEvent) {
				fmt.Fprintln(s.out, core.FormatTimingEvent(evt))
			})
		case "quit", "exit", "q":
			cancel()
			return
		default:
			fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out, `
Board Commands:
  press <1-4>   - Press a button (1 start blink, 2 stop blink, 3 escalating one-shot, 4 LED2 off)
  route <id>    - Route a raw line id, bypassing the buttons
  leds          - Show LED states
  timers        - Show timer states and the escalating timeout
  trace         - Print events recorded since the last trace
  quit          - Exit`)
}

func parseLine(args []string) (core.LineID, bool) {
	if len(args) != 1 {
		return 0, false
	}
	n, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return 0, false
	}
	return core.LineID(n), true
}

func (s *shell) cmdPress(args []string) {
	line, ok := parseLine(args)
	if !ok || !line.Valid() {
		fmt.Fprintln(s.out, "Usage: press <1-4>")
		return
	}
	if err := s.gpio.Press(buttonPins[line-1]); err != nil {
		fmt.Fprintf(s.out, "press failed: %v\n", err)
	}
}

func (s *shell) cmdRoute(args []string) {
	line, ok := parseLine(args)
	if !ok {
		fmt.Fprintln(s.out, "Usage: route <id>")
		return
	}
	s.sys.Router.Route(line)
}

func (s *shell) cmdLEDs() {
	for line := core.Line1; line <= core.Line4; line++ {
		state := "off"
		if !s.gpio.Level(s.sys.Outputs.Pin(line)) {
			state = "ON"
		}
		fmt.Fprintf(s.out, "  LED%d: %s\n", line, state)
	}
}

func (s *shell) cmdTimers() {
	ctrl := s.sys.Controller
	for _, id := range []core.TimerID{ctrl.TimerA(), ctrl.TimerB()} {
		state := "idle"
		if s.sys.Timers.IsRunning(id) {
			state = "running"
		}
		fmt.Fprintf(s.out, "  timer %d (%s): %s\n", id, s.sys.Timers.Mode(id), state)
	}
	fmt.Fprintf(s.out, "  escalating timeout: %d ms\n", ctrl.EscalatingTimeout())
}
