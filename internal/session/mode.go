package session

import (
	"fmt"

	"github.com/omnishock/omnishock/device/ps2ce"
)

// Mode is the wire dialect of a session.
type Mode uint8

const (
	// ModeUndetermined only logs the packets it would send.
	ModeUndetermined Mode = iota
	// ModeMinimal speaks the 7-byte dialect of Johnny Chung Lee's firmware.
	ModeMinimal
	// ModeExtended speaks the 20-byte dialect of Aaron Clovsky's firmware.
	ModeExtended
)

func (m Mode) String() string {
	switch m {
	case ModeUndetermined:
		return "undetermined"
	case ModeMinimal:
		return "minimal"
	case ModeExtended:
		return "extended"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Transmits reports whether packets are written to the device at all.
func (m Mode) Transmits() bool {
	return m == ModeMinimal || m == ModeExtended
}

// NeedsRefresh reports whether the device reverts to a default state unless
// it receives a packet every frame.
func (m Mode) NeedsRefresh() bool {
	return m == ModeExtended
}

// ResponseSize is how many bytes the device answers each packet with, so a
// read can stop without waiting for the timeout.
func (m Mode) ResponseSize() int {
	if m == ModeMinimal {
		return ps2ce.MinimalResponseSize
	}
	return ps2ce.ResponseSize
}

// Build encodes s in the packet shape of m. ModeUndetermined uses the
// 20-byte shape so the log shows everything.
func (m Mode) Build(s ps2ce.Snapshot, o ps2ce.Options) ps2ce.Packet {
	if m == ModeMinimal {
		return ps2ce.BuildMinimal(s, o)
	}
	return ps2ce.BuildExtended(s, o)
}
