// Package session drives a PS2 Controller Emulator over a serial link: it
// negotiates the firmware dialect once and then pumps controller state to it
// at a fixed frame rate.
package session

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Transport is the byte stream to the emulator. Reads must be bounded by a
// short timeout, reported either as a zero-length read or as an error
// matching os.ErrDeadlineExceeded.
type Transport interface {
	io.Reader
	io.Writer
}

var ErrBufferNotDrained = errors.New("serial buffer did not drain")

// maxDrain bounds ClearBuffer for devices that never stop sending.
const maxDrain = 64 * 1024

func isTimeout(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded)
}

// ClearBuffer discards whatever the device still has queued, e.g. replies to
// a previous session. A read timeout ends it; any other error is returned.
func ClearBuffer(t Transport) error {
	buf := make([]byte, 64)
	drained := 0
	for {
		n, err := t.Read(buf)
		if err != nil {
			if isTimeout(err) {
				return nil
			}
			return fmt.Errorf("clear serial buffer: %w", err)
		}
		if n == 0 {
			return nil
		}
		drained += n
		if drained > maxDrain {
			return fmt.Errorf("%w after %d bytes", ErrBufferNotDrained, drained)
		}
	}
}

// readResponse fills buf until it is full or a read times out. A timeout is
// not an error; n may be zero.
func readResponse(t Transport, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := t.Read(buf[n:])
		n += m
		if err != nil {
			if isTimeout(err) {
				return n, nil
			}
			return n, err
		}
		if m == 0 {
			break
		}
	}
	return n, nil
}

func writeAll(t Transport, p []byte) error {
	for len(p) > 0 {
		n, err := t.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}
