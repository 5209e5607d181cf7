// Package link opens the byte stream to the emulator: a local serial port,
// or a TCP socket for adapters exposed through a serial-to-network bridge.
package link

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"go.bug.st/serial"
)

var ErrUnsupportedScheme = errors.New("unsupported device scheme")

type Config struct {
	Baud        int           `help:"Serial baud rate" default:"9600" env:"OMNISHOCK_SERIAL_BAUD"`
	ReadTimeout time.Duration `help:"How long to wait for the device to answer a packet" default:"8ms" env:"OMNISHOCK_SERIAL_READ_TIMEOUT"`
	DialTimeout time.Duration `help:"Connection timeout for tcp:// devices" default:"5s" env:"OMNISHOCK_SERIAL_DIAL_TIMEOUT"`
}

// Open connects to device, which is either a serial port name (COM3,
// /dev/ttyUSB0) or a tcp://host:port URL. Reads on the returned stream time
// out after cfg.ReadTimeout with an error matching os.ErrDeadlineExceeded.
func Open(device string, cfg Config) (io.ReadWriteCloser, error) {
	if !strings.Contains(device, "://") {
		return openSerial(device, cfg)
	}
	u, err := url.Parse(device)
	if err != nil {
		return nil, fmt.Errorf("parse device %q: %w", device, err)
	}
	switch u.Scheme {
	case "tcp":
		return dialTCP(u.Host, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func openSerial(name string, cfg Config) (io.ReadWriteCloser, error) {
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}
	return &serialPort{Port: port}, nil
}

// serialPort reports a read timeout, which go.bug.st/serial signals with a
// zero-length read, as os.ErrDeadlineExceeded.
type serialPort struct {
	serial.Port
}

func (p *serialPort) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)
	if n == 0 && err == nil && len(b) > 0 {
		return 0, os.ErrDeadlineExceeded
	}
	return n, err
}

func dialTCP(addr string, cfg Config) (io.ReadWriteCloser, error) {
	conn, err := net.DialTimeout("tcp", addr, cfg.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
	}
	return &tcpPort{Conn: conn, readTimeout: cfg.ReadTimeout}, nil
}

// tcpPort arms a fresh deadline before every read, mirroring a serial
// port's inter-read timeout.
type tcpPort struct {
	net.Conn
	readTimeout time.Duration
}

func (p *tcpPort) Read(b []byte) (int, error) {
	if err := p.Conn.SetReadDeadline(time.Now().Add(p.readTimeout)); err != nil {
		return 0, err
	}
	return p.Conn.Read(b)
}
