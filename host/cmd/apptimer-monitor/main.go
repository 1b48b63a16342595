package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"apptimer/host/monitor"
	"apptimer/host/serial"
	"apptimer/logger"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", serial.DefaultBaud, "Baud rate of the trace UART")
	verbose = flag.Bool("verbose", false, "Enable verbose output")
	console = flag.Bool("console", true, "Human-readable output instead of JSON")
)

func main() {
	flag.Parse()

	level := logger.InfoLevel
	if *verbose {
		level = logger.DebugLevel
	}
	log, session := logger.WithSession(logger.New(logger.Options{
		Level:   level,
		Console: *console,
	}))

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	if err := port.Flush(); err != nil {
		log.Warn("flush failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("monitoring trace link", "device", cfg.Device, "baud", cfg.Baud, "session", session)

	mon := monitor.New(log)
	err = mon.Run(ctx, port, true)

	stats := mon.Stats()
	log.Info("session summary",
		"frames", stats.Frames,
		"faults", stats.Faults,
		"gaps", stats.Gaps,
		"restarts", stats.Restarts,
		"bad_frames", stats.BadFrames)
	if err != nil {
		log.Error("serial read failed", "error", err)
		os.Exit(1)
	}
}
