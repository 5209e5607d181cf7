package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/omnishock/omnishock/device/ps2ce"
	"github.com/omnishock/omnishock/internal/gamepad"
	"github.com/omnishock/omnishock/internal/session"
)

// Test prints controller events without a device attached. Moving an axis
// plays a short rumble.
type Test struct {
	Mappings string `help:"SDL gamecontrollerdb.txt with extra controller mappings" type:"path" env:"OMNISHOCK_MAPPINGS"`
	NoRumble bool   `help:"Do not rumble on axis motion" env:"OMNISHOCK_TEST_NO_RUMBLE"`
}

// Run is called by Kong when the test command is executed.
func (t *Test) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, shutdown, err := gamepad.InitSDL(t.Mappings)
	if err != nil {
		return err
	}
	defer shutdown()
	pads := gamepad.NewManager(driver, logger)
	defer pads.Close()

	logger.Info("Printing controller events, press Ctrl+C to stop")
	w := &eventPrinter{pads: pads, logger: logger, rumble: !t.NoRumble, last: map[uint32]ps2ce.State{}}
	clock := session.NewFrameClock(session.DefaultFrameRate)
	for ctx.Err() == nil {
		for {
			ev, ok := pads.Poll()
			if !ok {
				break
			}
			w.handle(ev)
		}
		clock.Wait()
	}
	return nil
}

type eventPrinter struct {
	pads   *gamepad.Manager
	logger *slog.Logger
	rumble bool
	last   map[uint32]ps2ce.State
}

func (w *eventPrinter) handle(ev session.Event) {
	switch ev.Kind {
	case session.EventControllerAdded:
		if err := w.pads.Add(ev.Which); err != nil {
			w.logger.Warn("Could not initialise connected controller", "id", ev.Which, "error", err)
			return
		}
		p, _ := w.pads.Pad(ev.Which)
		w.last[ev.Which] = p.State()
		w.logger.Info("Controller added", "id", ev.Which, "name", p.Name(), "count", w.pads.Len())
	case session.EventControllerRemoved:
		if w.pads.Remove(ev.Which) {
			delete(w.last, ev.Which)
			w.logger.Info("Controller removed", "id", ev.Which, "count", w.pads.Len())
		}
	case session.EventInput:
		p, ok := w.pads.Pad(ev.Which)
		if !ok {
			return
		}
		w.diff(p, w.last[ev.Which])
		w.last[ev.Which] = p.State()
	}
}

func (w *eventPrinter) diff(p *gamepad.Pad, prev ps2ce.State) {
	cur := p.State()
	for b := ps2ce.Button(0); b < ps2ce.ButtonCount; b++ {
		if cur.Buttons[b] == prev.Buttons[b] {
			continue
		}
		if cur.Buttons[b] {
			w.logger.Info("Button down", "id", p.ID(), "button", b)
		} else {
			w.logger.Info("Button up", "id", p.ID(), "button", b)
		}
	}
	moved := false
	for a := ps2ce.Axis(0); a < ps2ce.AxisCount; a++ {
		if cur.Axes[a] != prev.Axes[a] {
			moved = true
			w.logger.Info("Axis motion", "id", p.ID(), "axis", a, "value", cur.Axes[a])
		}
	}
	if moved && w.rumble {
		if err := p.SetRumble(0xFFFF, 0xFFFF, ps2ce.RumbleDuration); err != nil {
			w.logger.Debug("Rumble failed", "id", p.ID(), "error", err)
		}
	}
}
