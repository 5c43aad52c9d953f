//go:build !linux && !darwin && !freebsd && !openbsd && !windows

package tuntap

func newTUN(name string) (Interface, error) {
	return nil, newError("open", name, ErrDeviceUnavailable, ErrUnsupported)
}
