package session

import "github.com/omnishock/omnishock/device/ps2ce"

type EventKind uint8

const (
	// EventInput is a button or axis change of controller Which.
	EventInput EventKind = iota
	EventControllerAdded
	EventControllerRemoved
	// EventQuit asks the session to end.
	EventQuit
)

type Event struct {
	Kind  EventKind
	Which uint32
}

// EventSource yields pending input events without blocking.
type EventSource interface {
	Poll() (Event, bool)
}

// Registry tracks connected controllers. The session sends the state of the
// tracked one.
type Registry interface {
	Add(which uint32) error
	Remove(which uint32) bool
	Tracked() (c ps2ce.Controller, which uint32, ok bool)
	Len() int
}
