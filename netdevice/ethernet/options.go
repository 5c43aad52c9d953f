package ethernet

import (
	"github.com/feifeigood/ethertap/lg"
	"github.com/feifeigood/ethertap/netdevice"
)

type Option func(*Ethernet)

func WithLogger(logger lg.Logger) Option {
	return func(e *Ethernet) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithLogLevel(lvl lg.LogLevel) Option {
	return func(e *Ethernet) {
		e.logLevel = lvl
	}
}

// WithBufferSize sets the read buffer size, frames longer than n are
// truncated by the device.
func WithBufferSize(n int) Option {
	return func(e *Ethernet) {
		if n > 0 {
			e.bufSize = n
		}
	}
}

// WithHandler subscribes h before the reader starts, so no early frame is
// dropped.
func WithHandler(h netdevice.Handler) Option {
	return func(e *Ethernet) {
		e.Subscribe(h)
	}
}

// WithoutHardwareAddr skips the hardware address query, needed for layer 3
// interfaces.
func WithoutHardwareAddr() Option {
	return func(e *Ethernet) {
		e.noAddr = true
	}
}
