package gamepad

import (
	"fmt"
	"os"
	"time"

	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/sdl"

	"github.com/omnishock/omnishock/device/ps2ce"
)

// mappingsEnv is read by SDL during initialisation.
const mappingsEnv = "SDL_GAMECONTROLLERCONFIG_FILE"

var sdlButtons = [ps2ce.ButtonCount]sdl.GamepadButton{
	ps2ce.ButtonDPadUp:        sdl.GAMEPAD_BUTTON_DPAD_UP,
	ps2ce.ButtonDPadDown:      sdl.GAMEPAD_BUTTON_DPAD_DOWN,
	ps2ce.ButtonDPadLeft:      sdl.GAMEPAD_BUTTON_DPAD_LEFT,
	ps2ce.ButtonDPadRight:     sdl.GAMEPAD_BUTTON_DPAD_RIGHT,
	ps2ce.ButtonStart:         sdl.GAMEPAD_BUTTON_START,
	ps2ce.ButtonBack:          sdl.GAMEPAD_BUTTON_BACK,
	ps2ce.ButtonLeftStick:     sdl.GAMEPAD_BUTTON_LEFT_STICK,
	ps2ce.ButtonRightStick:    sdl.GAMEPAD_BUTTON_RIGHT_STICK,
	ps2ce.ButtonA:             sdl.GAMEPAD_BUTTON_SOUTH,
	ps2ce.ButtonB:             sdl.GAMEPAD_BUTTON_EAST,
	ps2ce.ButtonX:             sdl.GAMEPAD_BUTTON_WEST,
	ps2ce.ButtonY:             sdl.GAMEPAD_BUTTON_NORTH,
	ps2ce.ButtonLeftShoulder:  sdl.GAMEPAD_BUTTON_LEFT_SHOULDER,
	ps2ce.ButtonRightShoulder: sdl.GAMEPAD_BUTTON_RIGHT_SHOULDER,
	ps2ce.ButtonGuide:         sdl.GAMEPAD_BUTTON_GUIDE,
}

var sdlAxes = [ps2ce.AxisCount]sdl.GamepadAxis{
	ps2ce.AxisLeftX:        sdl.GAMEPAD_AXIS_LEFTX,
	ps2ce.AxisLeftY:        sdl.GAMEPAD_AXIS_LEFTY,
	ps2ce.AxisRightX:       sdl.GAMEPAD_AXIS_RIGHTX,
	ps2ce.AxisRightY:       sdl.GAMEPAD_AXIS_RIGHTY,
	ps2ce.AxisTriggerLeft:  sdl.GAMEPAD_AXIS_LEFT_TRIGGER,
	ps2ce.AxisTriggerRight: sdl.GAMEPAD_AXIS_RIGHT_TRIGGER,
}

// InitSDL loads the bundled SDL library and starts its gamepad subsystem.
// mappings optionally names a gamecontrollerdb.txt with extra controller
// mappings. The returned function shuts SDL down.
func InitSDL(mappings string) (Driver, func(), error) {
	if mappings != "" {
		if _, err := os.Stat(mappings); err != nil {
			return nil, nil, fmt.Errorf("%w: mappings file: %w", ErrInit, err)
		}
		if err := os.Setenv(mappingsEnv, mappings); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInit, err)
		}
	}

	lib := binsdl.Load()
	if err := sdl.Init(sdl.INIT_GAMEPAD); err != nil {
		lib.Unload()
		return nil, nil, fmt.Errorf("%w: %w", ErrInit, err)
	}
	return sdlDriver{}, func() {
		sdl.Quit()
		lib.Unload()
	}, nil
}

type sdlDriver struct{}

func (sdlDriver) Update() {
	sdl.UpdateGamepads()
}

func (sdlDriver) Connected() ([]uint32, error) {
	ids, err := sdl.GetGamepads()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out, nil
}

func (sdlDriver) Open(id uint32) (Device, error) {
	g, err := sdl.JoystickID(id).OpenGamepad()
	if err != nil {
		return nil, fmt.Errorf("open gamepad %d: %w", id, err)
	}
	return &sdlPad{g: g, name: padName(g.Name(), id)}, nil
}

type sdlPad struct {
	g    *sdl.Gamepad
	name string
}

func (p *sdlPad) Name() string { return p.name }

func (p *sdlPad) Button(b ps2ce.Button) bool {
	return p.g.Button(sdlButtons[b])
}

func (p *sdlPad) Axis(a ps2ce.Axis) int16 {
	return p.g.Axis(sdlAxes[a])
}

func (p *sdlPad) Rumble(low, high uint16, d time.Duration) error {
	return p.g.Rumble(low, high, uint32(d.Milliseconds()))
}

func (p *sdlPad) Close() {
	p.g.Close()
}
