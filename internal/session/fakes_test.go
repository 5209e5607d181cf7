package session

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/omnishock/omnishock/device/ps2ce"
	"github.com/omnishock/omnishock/internal/log"
)

type readResult struct {
	data []byte
	err  error
}

// scriptedTransport replays reads in order and records writes. Once the
// script is exhausted every read times out.
type scriptedTransport struct {
	reads    []readResult
	readN    int
	writes   [][]byte
	writeErr error
	// respond, when set, is queued as a read after every successful write.
	respond []byte
}

func timeout() readResult { return readResult{err: os.ErrDeadlineExceeded} }

func data(b ...byte) readResult { return readResult{data: b} }

func (t *scriptedTransport) Read(p []byte) (int, error) {
	t.readN++
	if len(t.reads) == 0 {
		return 0, os.ErrDeadlineExceeded
	}
	r := t.reads[0]
	n := copy(p, r.data)
	if n < len(r.data) {
		t.reads[0].data = r.data[n:]
		return n, nil
	}
	t.reads = t.reads[1:]
	return n, r.err
}

func (t *scriptedTransport) Write(p []byte) (int, error) {
	if t.writeErr != nil {
		return 0, t.writeErr
	}
	t.writes = append(t.writes, append([]byte(nil), p...))
	if t.respond != nil {
		t.reads = append(t.reads, data(t.respond...))
	}
	return len(p), nil
}

type fakeController struct {
	ps2ce.State
	name      string
	rumbles   []ps2ce.Rumble
	rumbleErr error
}

func (c *fakeController) Name() string { return c.name }

func (c *fakeController) SetRumble(low, high uint16, d time.Duration) error {
	c.rumbles = append(c.rumbles, ps2ce.Rumble{Low: low, High: high, Duration: d})
	return c.rumbleErr
}

// fakeRegistry tracks the lowest connected id.
type fakeRegistry struct {
	available map[uint32]*fakeController
	connected map[uint32]*fakeController
}

func newFakeRegistry(available map[uint32]*fakeController) *fakeRegistry {
	return &fakeRegistry{available: available, connected: map[uint32]*fakeController{}}
}

func (r *fakeRegistry) Add(which uint32) error {
	c, ok := r.available[which]
	if !ok {
		return errors.New("no such device")
	}
	r.connected[which] = c
	return nil
}

func (r *fakeRegistry) Remove(which uint32) bool {
	if _, ok := r.connected[which]; !ok {
		return false
	}
	delete(r.connected, which)
	return true
}

func (r *fakeRegistry) Tracked() (ps2ce.Controller, uint32, bool) {
	if len(r.connected) == 0 {
		return nil, 0, false
	}
	ids := make([]int, 0, len(r.connected))
	for id := range r.connected {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	id := uint32(ids[0])
	return r.connected[id], id, true
}

func (r *fakeRegistry) Len() int { return len(r.connected) }

type fakeEvents struct {
	queue []Event
}

func (e *fakeEvents) push(evs ...Event) { e.queue = append(e.queue, evs...) }

func (e *fakeEvents) Poll() (Event, bool) {
	if len(e.queue) == 0 {
		return Event{}, false
	}
	ev := e.queue[0]
	e.queue = e.queue[1:]
	return ev, true
}

// fakeClock calls onWait with the number of the frame that just ended.
type fakeClock struct {
	frames int
	onWait func(frame int)
}

func (c *fakeClock) Wait() {
	c.frames++
	if c.onWait != nil {
		c.onWait(c.frames)
	}
}

func (c *fakeClock) FPS() float64 { return DefaultFrameRate }

func testLogger() (*slog.Logger, log.RawLogger) {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: log.LevelTrace})), log.NewRaw(nil)
}
