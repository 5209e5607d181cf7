package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/omnishock/omnishock/device/ps2ce"
	"github.com/omnishock/omnishock/internal/log"
)

var ErrAlreadyNegotiated = errors.New("session already negotiated")

// State is a step of the dialect handshake. StateMinimal, StateExtended and
// StateUnknown are final.
type State uint8

const (
	StateStart State = iota
	StateProbed
	StateMinimal
	StateExtended
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateProbed:
		return "probed"
	case StateMinimal:
		return "minimal"
	case StateExtended:
		return "extended"
	case StateUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Mode returns the dialect a final state selects.
func (s State) Mode() Mode {
	switch s {
	case StateMinimal:
		return ModeMinimal
	case StateExtended:
		return ModeExtended
	default:
		return ModeUndetermined
	}
}

// Negotiator finds out which firmware is on the other end of a transport. It
// runs exactly once; a wrong guess needs a new session.
type Negotiator struct {
	transport Transport
	logger    *slog.Logger
	rawLogger log.RawLogger
	state     State
}

func NewNegotiator(t Transport, logger *slog.Logger, rawLogger log.RawLogger) *Negotiator {
	return &Negotiator{
		transport: t,
		logger:    logger,
		rawLogger: rawLogger,
		state:     StateStart,
	}
}

func (n *Negotiator) State() State {
	return n.state
}

// Negotiate probes the device with a neutral 20-byte packet and classifies
// its reply. Only failures to clear the serial buffer or to send the probe
// are errors; an unrecognised reply yields ModeUndetermined.
func (n *Negotiator) Negotiate() (Mode, error) {
	if n.state != StateStart {
		return n.state.Mode(), ErrAlreadyNegotiated
	}

	n.logger.Debug("Clearing serial buffer")
	if err := ClearBuffer(n.transport); err != nil {
		return ModeUndetermined, err
	}

	n.logger.Debug("Determining device type")
	probe := ps2ce.NeutralPacket()
	if err := writeAll(n.transport, probe); err != nil {
		return ModeUndetermined, fmt.Errorf("send probe: %w", err)
	}
	n.rawLogger.Log(true, probe)
	n.state = StateProbed

	resp := make([]byte, ps2ce.ResponseSize)
	m, err := readResponse(n.transport, resp)
	resp = resp[:m]
	n.rawLogger.Log(false, resp)
	if err != nil {
		n.logger.Warn("Failed reading from device", "error", err)
		n.state = StateUnknown
	} else {
		n.state = classify(resp)
	}

	switch n.state {
	case StateExtended:
		n.logger.Info("Response began with the DualShock magic: this is probably Aaron Clovsky's firmware", "response", log.Hex(resp))
	case StateMinimal:
		n.logger.Info("Response began with 'x': this is probably Johnny Chung Lee's firmware", "response", log.Hex(resp))
	default:
		n.logger.Warn("Unrecognised response, only logging packets", "response", log.Hex(resp), "bytes", len(resp))
	}

	n.logger.Debug("Clearing serial buffer")
	if err := ClearBuffer(n.transport); err != nil {
		return n.state.Mode(), err
	}
	return n.state.Mode(), nil
}

// classify maps the first reply byte to a dialect. An empty reply is not
// taken as a hint for either firmware.
func classify(resp []byte) State {
	if len(resp) == 0 {
		return StateUnknown
	}
	switch resp[0] {
	case ps2ce.ExtendedHeader:
		return StateExtended
	case ps2ce.MinimalErrorAck:
		return StateMinimal
	default:
		return StateUnknown
	}
}
