//go:build !linux && !windows

package tuntap

func newTAP(name string) (Interface, error) {
	return nil, newError("open", name, ErrDeviceUnavailable, ErrUnsupported)
}
