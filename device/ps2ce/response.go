package ps2ce

import "time"

// RumbleDuration is how long a relayed vibration command lasts. The device
// answers every frame, so a running effect is renewed long before it ends.
const RumbleDuration = 500 * time.Millisecond

// Rumble is a vibration command for the source controller. Low drives the
// large, low-frequency motor and High the small, high-frequency one.
type Rumble struct {
	Low, High uint16
	Duration  time.Duration
}

// Stop reports whether r cancels vibration instead of starting it.
func (r Rumble) Stop() bool {
	return r.Low == 0 && r.High == 0
}

// ParseRumble decodes the vibration data the extended firmware sends back.
// ok is false when the response is too short to carry both motors or does
// not start with ExtendedHeader.
func ParseRumble(resp []byte) (r Rumble, ok bool) {
	if len(resp) <= ResponseOffsetLargeMotor || resp[0] != ExtendedHeader {
		return Rumble{}, false
	}
	r = Rumble{
		Low:  widenIntensity(resp[ResponseOffsetLargeMotor]),
		High: widenIntensity(resp[ResponseOffsetSmallMotor]),
	}
	if !r.Stop() {
		r.Duration = RumbleDuration
	}
	return r, true
}

// widenIntensity maps 0..255 linearly onto 0..65535.
func widenIntensity(v uint8) uint16 {
	return uint16(v) * 0x0101
}

// MinimalAckOK reports whether the first response byte of the minimal
// firmware acknowledges the last packet.
func MinimalAckOK(resp []byte) bool {
	return len(resp) > 0 && resp[0] == MinimalOKAck
}
