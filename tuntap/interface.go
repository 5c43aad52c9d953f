package tuntap

import (
	"errors"
	"net"
)

var (
	ErrClosed      = errors.New("device was closed")
	ErrUnsupported = errors.New("device is unsupported on this platform")

	// error kinds carried by *Error
	ErrDeviceUnavailable    = errors.New("device unavailable")
	ErrInterfaceSetupFailed = errors.New("interface setup failed")
	ErrInterfaceNotFound    = errors.New("interface not found")
	ErrQueryFailed          = errors.New("query failed")
	ErrIO                   = errors.New("i/o error")
	ErrEndOfStream          = errors.New("end of stream")
)

// Interface represents one attached TUN/TAP network interface.
//
// A single Interface may be used by one reading goroutine and one writing
// goroutine at the same time. Concurrent reads (or concurrent writes) on the
// same Interface are not supported.
type Interface interface {
	// return name of TUN/TAP interface as attached by the OS
	Name() string

	// implement io.Reader interface, read one frame into p from TUN/TAP interface.
	// A frame longer than p is truncated, n never exceeds len(p).
	Read(p []byte) (n int, err error)

	// implement io.Writer interface, write p as one frame to TUN/TAP interface.
	// A short write is reported as an error together with the real n.
	Write(p []byte) (n int, err error)

	// return the 6-byte hardware address, only valid while the interface is open
	HardwareAddr() (net.HardwareAddr, error)

	// implement io.Closer interface, must be called done with TUN/TAP interface
	Close() error

	// return string representation of TUN/TAP interface
	String() string
}

// Tap attaches to the layer-2 TAP interface name. On Linux name is the kernel
// interface name, on Windows the connection name shown by the OS.
func Tap(name string) (Interface, error) {
	return newTAP(name)
}

// Tun attaches to a layer-3 TUN interface through wireguard-go.
func Tun(name string) (Interface, error) {
	return newTUN(name)
}
