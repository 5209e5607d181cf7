package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omnishock/omnishock/device/ps2ce"
	"github.com/omnishock/omnishock/internal/gamepad"
	"github.com/omnishock/omnishock/internal/link"
	"github.com/omnishock/omnishock/internal/log"
	"github.com/omnishock/omnishock/internal/session"
)

type PS2CE struct {
	Device          string        `arg:"" help:"Serial port (COM3, /dev/ttyUSB0) or tcp://host:port of the emulator"`
	TriggerMode     string        `help:"How the analog triggers are sent: normal, right-stick or cross-and-square" default:"normal" enum:"normal,right-stick,cross-and-square" env:"OMNISHOCK_TRIGGER_MODE"`
	NormalizeSticks bool          `help:"Scale stick input so diagonals reach the corners of the PS2 range" default:"true" negatable:"" env:"OMNISHOCK_NORMALIZE_STICKS"`
	FrameRate       int           `help:"Updates per second" default:"60" env:"OMNISHOCK_FRAME_RATE"`
	Mappings        string        `help:"SDL gamecontrollerdb.txt with extra controller mappings" type:"path" env:"OMNISHOCK_MAPPINGS"`
	ControllerWait  time.Duration `help:"Wait this long for a controller before starting (0 starts immediately)" default:"0s" env:"OMNISHOCK_CONTROLLER_WAIT"`
	Serial          link.Config   `embed:"" prefix:"serial."`
}

// Run is called by Kong when the ps2ce command is executed.
func (c *PS2CE) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trigger, err := ps2ce.ParseTriggerMode(c.TriggerMode)
	if err != nil {
		return err
	}

	driver, shutdown, err := gamepad.InitSDL(c.Mappings)
	if err != nil {
		return err
	}
	defer shutdown()
	pads := gamepad.NewManager(driver, logger)
	defer pads.Close()

	logger.Info("Opening device", "device", c.Device, "baud", c.Serial.Baud)
	port, err := link.Open(c.Device, c.Serial)
	if err != nil {
		return err
	}
	defer port.Close()

	mode, err := session.NewNegotiator(port, logger, rawLogger).Negotiate()
	if err != nil {
		return fmt.Errorf("negotiate with %s: %w", c.Device, err)
	}

	if c.ControllerWait > 0 {
		waitForController(ctx, pads, c.ControllerWait, logger)
	}

	pump := session.NewPump(session.PumpConfig{
		Transport: port,
		Registry:  pads,
		Events:    pads,
		Clock:     session.NewFrameClock(c.FrameRate),
		Mode:      mode,
		Options: ps2ce.Options{
			Trigger:         trigger,
			NormalizeSticks: c.NormalizeSticks,
		},
	}, logger, rawLogger)
	pump.Run(ctx)
	return nil
}

// waitForController polls for hotplug until a controller is open, the wait
// expires or ctx is cancelled.
func waitForController(ctx context.Context, pads *gamepad.Manager, wait time.Duration, logger *slog.Logger) {
	logger.Info("Waiting for a controller", "timeout", wait)
	deadline := time.Now().Add(wait)
	clock := session.NewFrameClock(session.DefaultFrameRate)
	for ctx.Err() == nil && time.Now().Before(deadline) {
		for {
			ev, ok := pads.Poll()
			if !ok {
				break
			}
			if ev.Kind != session.EventControllerAdded {
				continue
			}
			if err := pads.Add(ev.Which); err != nil {
				logger.Warn("Could not initialise connected controller", "id", ev.Which, "error", err)
				continue
			}
			logger.Info("Controllers connected", "count", pads.Len())
		}
		if pads.Len() > 0 {
			return
		}
		clock.Wait()
	}
	logger.Warn("No controller connected, starting anyway")
}
