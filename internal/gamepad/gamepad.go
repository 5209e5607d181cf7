// Package gamepad turns the host's game controllers into the controller
// registry and event source a session runs on.
//
// Controllers are polled rather than event driven: every frame the driver
// is refreshed, hotplug is detected by comparing the connected set with the
// previous one, and input changes by comparing state snapshots.
package gamepad

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/omnishock/omnishock/device/ps2ce"
	"github.com/omnishock/omnishock/internal/session"
)

var ErrInit = errors.New("failed to initialise game controller support")

// Device is an opened controller.
type Device interface {
	Name() string
	Button(ps2ce.Button) bool
	Axis(ps2ce.Axis) int16
	Rumble(low, high uint16, d time.Duration) error
	Close()
}

// Driver is the input backend.
type Driver interface {
	// Update refreshes the backend's view of all controllers.
	Update()
	// Connected lists the ids of the controllers currently plugged in.
	Connected() ([]uint32, error)
	Open(id uint32) (Device, error)
}

// padName falls back to the id for controllers the backend has no name for.
func padName(name string, id uint32) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("gamepad %d", id)
}

// Pad is a connected controller. Its inputs are the snapshot taken at the
// last poll, so a packet built from it is consistent.
type Pad struct {
	id    uint32
	dev   Device
	state ps2ce.State
}

func (p *Pad) ID() uint32 { return p.id }

func (p *Pad) Name() string { return p.dev.Name() }

func (p *Pad) Button(b ps2ce.Button) bool { return p.state.Button(b) }

func (p *Pad) Axis(a ps2ce.Axis) int16 { return p.state.Axis(a) }

// State returns a copy of the last snapshot.
func (p *Pad) State() ps2ce.State { return p.state }

func (p *Pad) SetRumble(low, high uint16, d time.Duration) error {
	return p.dev.Rumble(low, high, d)
}

// sample refreshes the snapshot and reports whether anything changed.
func (p *Pad) sample() bool {
	var s ps2ce.State
	for b := ps2ce.Button(0); b < ps2ce.ButtonCount; b++ {
		s.Buttons[b] = p.dev.Button(b)
	}
	for a := ps2ce.Axis(0); a < ps2ce.AxisCount; a++ {
		s.Axes[a] = p.dev.Axis(a)
	}
	changed := s != p.state
	p.state = s
	return changed
}

// Manager is both the session's Registry and its EventSource. The tracked
// controller is the earliest connected one still present.
type Manager struct {
	driver Driver
	logger *slog.Logger

	pads    map[uint32]*Pad
	order   []uint32
	present []uint32

	queue   []session.Event
	scanned bool
}

var (
	_ session.Registry    = (*Manager)(nil)
	_ session.EventSource = (*Manager)(nil)
)

func NewManager(driver Driver, logger *slog.Logger) *Manager {
	return &Manager{
		driver: driver,
		logger: logger,
		pads:   make(map[uint32]*Pad),
	}
}

// Poll scans the driver on the first call of a round and then hands out the
// resulting events one at a time. The round ends when it reports false.
func (m *Manager) Poll() (session.Event, bool) {
	if !m.scanned {
		m.scan()
		m.scanned = true
	}
	if len(m.queue) == 0 {
		m.scanned = false
		return session.Event{}, false
	}
	ev := m.queue[0]
	m.queue = m.queue[1:]
	return ev, true
}

func (m *Manager) scan() {
	m.driver.Update()

	ids, err := m.driver.Connected()
	if err != nil {
		m.logger.Debug("Failed listing controllers", "error", err)
		ids = m.present
	}
	for _, id := range ids {
		if !slices.Contains(m.present, id) {
			m.queue = append(m.queue, session.Event{Kind: session.EventControllerAdded, Which: id})
		}
	}
	for _, id := range m.present {
		if !slices.Contains(ids, id) {
			m.queue = append(m.queue, session.Event{Kind: session.EventControllerRemoved, Which: id})
		}
	}
	m.present = slices.Clone(ids)

	for _, id := range m.order {
		if !slices.Contains(m.present, id) {
			continue
		}
		if m.pads[id].sample() {
			m.queue = append(m.queue, session.Event{Kind: session.EventInput, Which: id})
		}
	}
}

// Add opens controller which. Adding an open controller is a no-op.
func (m *Manager) Add(which uint32) error {
	if _, ok := m.pads[which]; ok {
		return nil
	}
	dev, err := m.driver.Open(which)
	if err != nil {
		return err
	}
	p := &Pad{id: which, dev: dev}
	p.sample()
	m.pads[which] = p
	m.order = append(m.order, which)
	m.logger.Debug("Opened controller", "id", which, "name", dev.Name())
	return nil
}

func (m *Manager) Remove(which uint32) bool {
	p, ok := m.pads[which]
	if !ok {
		return false
	}
	p.dev.Close()
	delete(m.pads, which)
	m.order = slices.DeleteFunc(m.order, func(id uint32) bool { return id == which })
	return true
}

func (m *Manager) Tracked() (ps2ce.Controller, uint32, bool) {
	if len(m.order) == 0 {
		return nil, 0, false
	}
	id := m.order[0]
	return m.pads[id], id, true
}

// Pad returns the open controller with the given id.
func (m *Manager) Pad(which uint32) (*Pad, bool) {
	p, ok := m.pads[which]
	return p, ok
}

func (m *Manager) Len() int {
	return len(m.order)
}

// Close closes every open controller.
func (m *Manager) Close() {
	for _, id := range m.order {
		m.pads[id].dev.Close()
	}
	clear(m.pads)
	m.order = nil
}
