package ps2ce

import (
	"errors"
	"fmt"
)

var ErrUnknownTriggerMode = errors.New("unknown trigger mode")

// TriggerMode selects which physical inputs feed L2, R2, Cross, Square and
// the right stick's Y axis.
type TriggerMode uint8

const (
	// TriggerNormal maps the analog triggers onto L2 and R2.
	TriggerNormal TriggerMode = iota
	// TriggerRightStick maps the right stick's Y axis onto L2/R2 and the
	// combined triggers onto the right stick's Y axis.
	TriggerRightStick
	// TriggerCrossSquare swaps the triggers with Cross and Square, for games
	// that read the face buttons' pressure as throttle and brake.
	TriggerCrossSquare
)

var TriggerModeNames = []string{"normal", "right-stick", "cross-and-square"}

func (m TriggerMode) String() string {
	if int(m) < len(TriggerModeNames) {
		return TriggerModeNames[m]
	}
	return fmt.Sprintf("TriggerMode(%d)", uint8(m))
}

func ParseTriggerMode(s string) (TriggerMode, error) {
	for i, name := range TriggerModeNames {
		if s == name {
			return TriggerMode(i), nil
		}
	}
	return TriggerNormal, fmt.Errorf("%w: %q", ErrUnknownTriggerMode, s)
}

// Options are the packet building flags of a session.
type Options struct {
	Trigger         TriggerMode
	NormalizeSticks bool
}

// Packet is a complete frame, always MinimalPacketSize or ExtendedPacketSize
// bytes long.
type Packet []byte

// BuildExtended encodes s as a 20-byte frame.
//
// Layout (indices in the returned slice):
//
//	 0: Magic
//	 1: Left Down Right Up Start R3 L3 Select (MSB first, 0 = pressed)
//	 2: Square Cross Circle Triangle R1 L1 R2 L2 (MSB first, 0 = pressed)
//	 3-6: right X, right Y, left X, left Y (0x80 = centred)
//	 7-18: pressure of Right Left Up Down Triangle Circle Cross Square L1 R1 L2 R2
//	19: ModeFooterAnalog while Guide is held, ModeFooterNormal otherwise
func BuildExtended(s Snapshot, o Options) Packet {
	button := func(b Button) int16 { return ButtonToAnalog(I16, s.Button(b)) }

	left := button(ButtonDPadLeft)
	down := button(ButtonDPadDown)
	right := button(ButtonDPadRight)
	up := button(ButtonDPadUp)
	start := button(ButtonStart)
	r3 := button(ButtonRightStick)
	l3 := button(ButtonLeftStick)
	sel := button(ButtonBack)

	square := button(ButtonX)
	cross := button(ButtonA)
	circle := button(ButtonB)
	triangle := button(ButtonY)
	r1 := button(ButtonRightShoulder)
	l1 := button(ButtonLeftShoulder)
	r2 := HalfAxisPositive(s.Axis(AxisTriggerRight))
	l2 := HalfAxisPositive(s.Axis(AxisTriggerLeft))

	rx, ry := s.Axis(AxisRightX), s.Axis(AxisRightY)
	lx, ly := s.Axis(AxisLeftX), s.Axis(AxisLeftY)

	switch o.Trigger {
	case TriggerRightStick:
		l2 = HalfAxisNegative(ry)
		r2 = HalfAxisPositive(ry)
		// Both triggers share one axis, so pressing both cancels out.
		ry = clampI16(int32(s.Axis(AxisTriggerLeft)) - int32(s.Axis(AxisTriggerRight)))
	case TriggerCrossSquare:
		l2 = cross
		r2 = square
		cross = HalfAxisPositive(s.Axis(AxisTriggerRight))
		square = HalfAxisPositive(s.Axis(AxisTriggerLeft))
	}

	if o.NormalizeSticks {
		rx, ry = NormalizeStick(rx, ry)
		lx, ly = NormalizeStick(lx, ly)
	}

	buttons1 := mustCollapse([]int16{left, down, right, up, start, r3, l3, sel})
	buttons2 := mustCollapse([]int16{square, cross, circle, triangle, r1, l1, r2, l2})

	footer := ModeFooterNormal
	if s.Button(ButtonGuide) {
		footer = ModeFooterAnalog
	}

	return Packet{
		Magic,
		^buttons1,
		^buttons2,
		ScaleForWire(rx),
		ScaleForWire(ry),
		ScaleForWire(lx),
		ScaleForWire(ly),
		ScaleForWire(right),
		ScaleForWire(left),
		ScaleForWire(up),
		ScaleForWire(down),
		ScaleForWire(triangle),
		ScaleForWire(circle),
		ScaleForWire(cross),
		ScaleForWire(square),
		ScaleForWire(l1),
		ScaleForWire(r1),
		ScaleForWire(l2),
		ScaleForWire(r2),
		footer,
	}
}

// BuildMinimal encodes s as a 7-byte frame, which is the head of the 20-byte
// frame.
func BuildMinimal(s Snapshot, o Options) Packet {
	return BuildExtended(s, o)[:MinimalPacketSize:MinimalPacketSize]
}

// NeutralPacket is a released, centred controller in the 20-byte shape. Both
// firmwares accept it, which makes it the handshake probe.
func NeutralPacket() Packet {
	return BuildExtended(&State{}, Options{})
}

func mustCollapse(values []int16) byte {
	b, err := CollapseBits(I16, values)
	if err != nil {
		panic(err)
	}
	return b
}
