package link

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

var testConfig = Config{Baud: 9600, ReadTimeout: 20 * time.Millisecond, DialTimeout: time.Second}

func TestOpenTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	port, err := Open("tcp://"+ln.Addr().String(), testConfig)
	require.NoError(t, err)
	defer port.Close()

	var peer net.Conn
	select {
	case peer = <-accepted:
	case <-time.After(time.Second):
		t.Fatal("no connection accepted")
	}
	defer peer.Close()

	_, err = port.Write([]byte{0x5A, 0x00})
	require.NoError(t, err)
	got := make([]byte, 2)
	_, err = io.ReadFull(peer, got)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x5A, 0x00}, got)

	_, err = peer.Write([]byte{'k'})
	require.NoError(t, err)
	buf := make([]byte, 4)
	n, err := port.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{'k'}, buf[:n])

	// Nothing more arrives: the read times out.
	_, err = port.Read(buf)
	assert.ErrorIs(t, err, os.ErrDeadlineExceeded)
}

func TestOpenTCPRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = Open("tcp://"+addr, testConfig)
	assert.Error(t, err)
}

func TestOpenUnsupportedScheme(t *testing.T) {
	_, err := Open("udp://127.0.0.1:9000", testConfig)
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestOpenMissingSerialPort(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "ttyNOPE"), testConfig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open serial port")
}

// stubPort embeds serial.Port so only Read needs an implementation.
type stubPort struct {
	serial.Port
	n   int
	err error
}

func (s *stubPort) Read(b []byte) (int, error) {
	for i := 0; i < s.n && i < len(b); i++ {
		b[i] = 0x5A
	}
	return s.n, s.err
}

func TestSerialPortTimeout(t *testing.T) {
	buf := make([]byte, 4)

	p := &serialPort{Port: &stubPort{}}
	_, err := p.Read(buf)
	assert.ErrorIs(t, err, os.ErrDeadlineExceeded)

	p = &serialPort{Port: &stubPort{n: 2}}
	n, err := p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p = &serialPort{Port: &stubPort{err: io.EOF}}
	_, err = p.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestPortInfoString(t *testing.T) {
	assert.Equal(t, "/dev/ttyS0", PortInfo{Name: "/dev/ttyS0"}.String())
	assert.Equal(t, "/dev/ttyACM0 [2341:0043] Arduino Uno serial=7543",
		PortInfo{Name: "/dev/ttyACM0", USB: true, VID: "2341", PID: "0043", Product: "Arduino Uno", Serial: "7543"}.String())
}
