package ps2ce

import "time"

// Button identifies a digital input of the source controller, named after
// the Xbox layout used by SDL's gamepad database.
type Button uint8

const (
	ButtonDPadUp Button = iota
	ButtonDPadDown
	ButtonDPadLeft
	ButtonDPadRight
	ButtonStart
	ButtonBack
	ButtonLeftStick
	ButtonRightStick
	ButtonA
	ButtonB
	ButtonX
	ButtonY
	ButtonLeftShoulder
	ButtonRightShoulder
	ButtonGuide

	ButtonCount
)

var buttonNames = [ButtonCount]string{
	"dpup", "dpdown", "dpleft", "dpright", "start", "back", "leftstick", "rightstick",
	"a", "b", "x", "y", "leftshoulder", "rightshoulder", "guide",
}

func (b Button) String() string {
	if b < ButtonCount {
		return buttonNames[b]
	}
	return "unknown"
}

// Axis identifies an analog input. Sticks range over the full int16 range,
// triggers over 0..MaxInt16.
type Axis uint8

const (
	AxisLeftX Axis = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisTriggerLeft
	AxisTriggerRight

	AxisCount
)

var axisNames = [AxisCount]string{"leftx", "lefty", "rightx", "righty", "lefttrigger", "righttrigger"}

func (a Axis) String() string {
	if a < AxisCount {
		return axisNames[a]
	}
	return "unknown"
}

// Snapshot is a read-only view of a controller's inputs.
type Snapshot interface {
	Button(Button) bool
	Axis(Axis) int16
}

// Controller is a connected source controller.
type Controller interface {
	Snapshot
	Name() string
	// SetRumble plays both motors for d. Zero intensities and duration stop
	// any running effect.
	SetRumble(low, high uint16, d time.Duration) error
}

// State is a plain Snapshot. The zero value is a neutral controller.
type State struct {
	Buttons [ButtonCount]bool
	Axes    [AxisCount]int16
}

func (s *State) Button(b Button) bool {
	if b >= ButtonCount {
		return false
	}
	return s.Buttons[b]
}

func (s *State) Axis(a Axis) int16 {
	if a >= AxisCount {
		return 0
	}
	return s.Axes[a]
}

