//go:build linux || darwin || freebsd || openbsd || windows

package tuntap

import (
	"net"
	"sync"
	"sync/atomic"

	"golang.zx2c4.com/wireguard/tun"
)

const (
	// headroom in front of every packet, wireguard-go writes the virtio
	// header (linux) or the address family (bsd) there
	tunOffset = 16

	defaultMTU = 1500
)

// tunDevice adapts the batched wireguard-go tun.Device to one packet per
// Read/Write call.
type tunDevice struct {
	name   string
	nt     tun.Device
	closed atomic.Bool

	rmu         sync.Mutex
	bufs        [][]byte
	sizes       []int
	next, count int

	wmu  sync.Mutex
	wbuf []byte
}

func newTUN(name string) (Interface, error) {
	nt, err := createTUN(name, defaultMTU)
	if err != nil {
		return nil, newError("open", name, ErrDeviceUnavailable, err)
	}
	t, err := wrapTUN(nt)
	if err != nil {
		nt.Close()
		return nil, newError("open", name, ErrInterfaceSetupFailed, err)
	}
	return t, nil
}

func wrapTUN(nt tun.Device) (*tunDevice, error) {
	actual, err := nt.Name()
	if err != nil {
		return nil, err
	}
	mtu, err := nt.MTU()
	if err != nil || mtu <= 0 {
		mtu = defaultMTU
	}

	batch := nt.BatchSize()
	t := &tunDevice{
		name:  actual,
		nt:    nt,
		bufs:  make([][]byte, batch),
		sizes: make([]int, batch),
	}
	for i := range t.bufs {
		t.bufs[i] = make([]byte, tunOffset+mtu)
	}

	// link state events are not used, but the device blocks its listeners
	// once the channel is full. Close closes the channel.
	go func() {
		for range nt.Events() {
		}
	}()
	return t, nil
}

func (t *tunDevice) Name() string   { return t.name }
func (t *tunDevice) String() string { return "TUN" }

func (t *tunDevice) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	t.rmu.Lock()
	defer t.rmu.Unlock()

	// hand out what the last batch read left over first
	for t.next == t.count {
		n, err := t.nt.Read(t.bufs, t.sizes, tunOffset)
		if err != nil {
			return readResult(t.name, 0, err)
		}
		t.next, t.count = 0, n
	}

	i := t.next
	t.next++
	return copy(p, t.bufs[i][tunOffset:tunOffset+t.sizes[i]]), nil
}

func (t *tunDevice) Write(p []byte) (int, error) {
	t.wmu.Lock()
	defer t.wmu.Unlock()

	if cap(t.wbuf) < tunOffset+len(p) {
		t.wbuf = make([]byte, tunOffset+len(p))
	}
	buf := t.wbuf[:tunOffset+len(p)]
	copy(buf[tunOffset:], p)

	if _, err := t.nt.Write([][]byte{buf}, tunOffset); err != nil {
		return writeResult(t.name, len(p), 0, err)
	}
	return len(p), nil
}

// HardwareAddr always fails, a layer 3 device has no link address.
func (t *tunDevice) HardwareAddr() (net.HardwareAddr, error) {
	return nil, newError("hwaddr", t.name, ErrQueryFailed, ErrUnsupported)
}

func (t *tunDevice) Close() error {
	if t.closed.Swap(true) {
		return newError("close", t.name, ErrIO, ErrClosed)
	}
	if err := t.nt.Close(); err != nil {
		return newError("close", t.name, ErrIO, err)
	}
	return nil
}
