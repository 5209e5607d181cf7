// Package ps2ce encodes controller state into the serial packets of PS2
// Controller Emulator firmwares and decodes what they send back.
package ps2ce

// The DualShock protocol uses 0x5A in many places.
const Magic byte = 0x5A

const (
	MinimalPacketSize  = 7
	ExtendedPacketSize = 20

	// ResponseSize is the largest response read back after each packet.
	ResponseSize = 4
	// MinimalResponseSize is the single acknowledgement byte of the minimal
	// firmware.
	MinimalResponseSize = 1
)

// Johnny Chung Lee's firmware answers every 7-byte packet with a single
// character; Aaron Clovsky's firmware answers 20-byte packets with vibration
// data starting with Magic.
const (
	MinimalOKAck    byte = 'k'
	MinimalErrorAck byte = 'x'
	ExtendedHeader  byte = Magic
)

// Mode footer of the 20-byte packet.
const (
	ModeFooterNormal byte = 0x55
	ModeFooterAnalog byte = 0xAA
)

// Packet offsets.
const (
	OffsetMagic    = 0
	OffsetButtons1 = 1
	OffsetButtons2 = 2
	OffsetRightX   = 3
	OffsetRightY   = 4
	OffsetLeftX    = 5
	OffsetLeftY    = 6
	OffsetPressure = 7
	OffsetFooter   = 19

	PressureCount = 12
)

// Button bits of the first button byte, before inversion.
const (
	Buttons1Left   byte = 1 << 7
	Buttons1Down   byte = 1 << 6
	Buttons1Right  byte = 1 << 5
	Buttons1Up     byte = 1 << 4
	Buttons1Start  byte = 1 << 3
	Buttons1R3     byte = 1 << 2
	Buttons1L3     byte = 1 << 1
	Buttons1Select byte = 1 << 0
)

// Button bits of the second button byte, before inversion.
const (
	Buttons2Square   byte = 1 << 7
	Buttons2Cross    byte = 1 << 6
	Buttons2Circle   byte = 1 << 5
	Buttons2Triangle byte = 1 << 4
	Buttons2R1       byte = 1 << 3
	Buttons2L1       byte = 1 << 2
	Buttons2R2       byte = 1 << 1
	Buttons2L2       byte = 1 << 0
)

// Response offsets of the extended dialect.
const (
	ResponseOffsetSmallMotor = 1
	ResponseOffsetLargeMotor = 2
)
