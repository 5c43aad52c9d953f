package netdevice

import "net"

// Handler receives every frame read from a Device. The frame is owned by the
// handler.
type Handler interface {
	HandleFrame(frame []byte, from Device)
}

type HandlerFunc func(frame []byte, from Device)

func (f HandlerFunc) HandleFrame(frame []byte, from Device) {
	f(frame, from)
}

type Device interface {
	Name() string
	Type() string
	// HardwareAddr is nil for layer 3 devices.
	HardwareAddr() net.HardwareAddr
	Send(frame []byte) error
	// Subscribe replaces the current handler, nil drops incoming frames.
	Subscribe(h Handler)
	// Done is closed once the device stops delivering frames.
	Done() <-chan struct{}
	Close() error
}
