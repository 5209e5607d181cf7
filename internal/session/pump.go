package session

import (
	"context"
	"log/slog"

	"github.com/omnishock/omnishock/device/ps2ce"
	"github.com/omnishock/omnishock/internal/log"
)

// fpsLogInterval is the number of frames between frame rate reports.
const fpsLogInterval = 600

type PumpConfig struct {
	Transport Transport
	Registry  Registry
	Events    EventSource
	Clock     Clock
	Mode      Mode
	Options   ps2ce.Options
}

// Stats counts what a Pump did.
type Stats struct {
	Frames      uint64
	Updates     uint64
	WriteErrors uint64
	ReadErrors  uint64
	Naks        uint64
	Rumbles     uint64
	Resyncs     uint64
}

// Pump sends the tracked controller's state to the device once per frame at
// most, and relays what the device answers.
type Pump struct {
	transport Transport
	registry  Registry
	events    EventSource
	clock     Clock
	mode      Mode
	opts      ps2ce.Options
	logger    *slog.Logger
	rawLogger log.RawLogger

	response   []byte
	lastRumble ps2ce.Rumble
	idle       bool
	stats      Stats
}

func NewPump(cfg PumpConfig, logger *slog.Logger, rawLogger log.RawLogger) *Pump {
	return &Pump{
		transport: cfg.Transport,
		registry:  cfg.Registry,
		events:    cfg.Events,
		clock:     cfg.Clock,
		mode:      cfg.Mode,
		opts:      cfg.Options,
		logger:    logger,
		rawLogger: rawLogger,
		response:  make([]byte, cfg.Mode.ResponseSize()),
	}
}

func (p *Pump) Stats() Stats {
	return p.stats
}

// Run loops until ctx is cancelled or the event source asks to quit. Each
// iteration drains all pending events, performs at most one update and then
// waits for the next frame.
func (p *Pump) Run(ctx context.Context) {
	p.logger.Info("Starting session",
		"mode", p.mode,
		"triggerMode", p.opts.Trigger,
		"normalizeSticks", p.opts.NormalizeSticks)

	for ctx.Err() == nil {
		dirty, quit := p.drainEvents()
		if quit {
			p.logger.Info("Quit requested")
			break
		}

		if dirty || p.mode.NeedsRefresh() {
			p.update(dirty)
		}

		p.clock.Wait()
		p.stats.Frames++
		if p.stats.Frames%fpsLogInterval == 0 {
			p.logger.Debug("Frame rate", "fps", p.clock.FPS(), "updates", p.stats.Updates)
		}
	}

	p.stopRumble()
	p.logger.Info("Session ended",
		"frames", p.stats.Frames,
		"updates", p.stats.Updates,
		"writeErrors", p.stats.WriteErrors,
		"readErrors", p.stats.ReadErrors,
		"resyncs", p.stats.Resyncs)
}

func (p *Pump) drainEvents() (dirty, quit bool) {
	for {
		ev, ok := p.events.Poll()
		if !ok {
			return dirty, false
		}
		switch ev.Kind {
		case EventControllerAdded:
			if err := p.registry.Add(ev.Which); err != nil {
				p.logger.Warn("Could not initialise connected controller", "id", ev.Which, "error", err)
				continue
			}
			p.logger.Info("Controllers connected", "count", p.registry.Len())
		case EventControllerRemoved:
			if p.registry.Remove(ev.Which) {
				p.logger.Info("Controllers connected", "count", p.registry.Len())
			}
		case EventInput:
			if _, which, ok := p.registry.Tracked(); ok && which == ev.Which {
				dirty = true
			}
		case EventQuit:
			return dirty, true
		}
	}
}

func (p *Pump) update(eventDriven bool) {
	c, _, ok := p.registry.Tracked()
	if !ok {
		if !p.idle {
			p.logger.Debug("No controller is connected, not sending updates")
			p.idle = true
		}
		return
	}
	if p.idle {
		p.logger.Debug("Controller available, resuming updates", "name", c.Name())
		p.idle = false
	}

	pkt := p.mode.Build(c, p.opts)
	p.stats.Updates++
	if !p.mode.Transmits() {
		p.rawLogger.Log(true, pkt)
		return
	}
	if !eventDriven {
		p.logger.Log(context.Background(), log.LevelTrace, "Sending update due to timeout")
	}

	if err := writeAll(p.transport, pkt); err != nil {
		p.stats.WriteErrors++
		p.logger.Error("Failed writing packet", "error", err)
	}
	p.rawLogger.Log(true, pkt)

	n, err := readResponse(p.transport, p.response)
	if err != nil {
		p.stats.ReadErrors++
		p.logger.Debug("Error reading response", "error", err)
	}
	resp := p.response[:n]
	p.rawLogger.Log(false, resp)

	switch p.mode {
	case ModeMinimal:
		p.checkAck(resp)
	case ModeExtended:
		if len(resp) > 0 && resp[0] != ps2ce.ExtendedHeader {
			p.resync(resp)
			return
		}
		p.relayRumble(c, resp)
	}
}

// resync drops whatever is left of a reply that did not start with the
// header, so the next read lines up with the next reply again.
func (p *Pump) resync(resp []byte) {
	p.stats.Resyncs++
	p.logger.Debug("Response out of step, clearing serial buffer", "response", log.Hex(resp))
	if err := ClearBuffer(p.transport); err != nil {
		p.logger.Warn("Failed clearing serial buffer", "error", err)
	}
}

func (p *Pump) checkAck(resp []byte) {
	if len(resp) == 0 {
		p.logger.Log(context.Background(), log.LevelTrace, "No acknowledgement received")
		return
	}
	if !ps2ce.MinimalAckOK(resp) {
		p.stats.Naks++
		p.logger.Warn("Adapter responded with an error status", "response", log.Hex(resp))
	}
}

// relayRumble forwards the device's vibration state. Controllers without
// rumble support fail silently.
func (p *Pump) relayRumble(c ps2ce.Controller, resp []byte) {
	r, ok := ps2ce.ParseRumble(resp)
	if !ok {
		return
	}
	if r.Stop() && p.lastRumble.Stop() {
		return
	}
	p.lastRumble = r
	p.stats.Rumbles++
	_ = c.SetRumble(r.Low, r.High, r.Duration)
}

func (p *Pump) stopRumble() {
	if p.lastRumble.Stop() {
		return
	}
	if c, _, ok := p.registry.Tracked(); ok {
		_ = c.SetRumble(0, 0, 0)
	}
	p.lastRumble = ps2ce.Rumble{}
}
