// Package tun opens a layer 3 tunnel as a netdevice.Device.
package tun

import (
	"fmt"

	"github.com/feifeigood/ethertap/netdevice"
	"github.com/feifeigood/ethertap/netdevice/ethernet"
	"github.com/feifeigood/ethertap/tuntap"
)

const defaultName = "utun"

type Option func(*config)

type config struct {
	name string
	opts []ethernet.Option
}

func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithDeviceOptions passes opts to the frame pump behind the tunnel.
func WithDeviceOptions(opts ...ethernet.Option) Option {
	return func(c *config) {
		c.opts = append(c.opts, opts...)
	}
}

func Open(opts ...Option) (netdevice.Device, error) {
	c := &config{name: defaultName}
	for _, fn := range opts {
		fn(c)
	}

	ifce, err := tuntap.Tun(c.name)
	if err != nil {
		return nil, fmt.Errorf("create tun: %w", err)
	}

	dev, err := ethernet.New(ifce, append(c.opts, ethernet.WithoutHardwareAddr())...)
	if err != nil {
		ifce.Close()
		return nil, fmt.Errorf("create device: %w", err)
	}
	return dev, nil
}
