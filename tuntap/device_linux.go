//go:build linux

package tuntap

import (
	"net"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const cloneDevice = "/dev/net/tun"

// struct ifreq with ifr_flags, 40 bytes on every linux ABI we build for
type ifreqFlags struct {
	Name  [ifnameSize]byte
	Flags uint16
	_     [22]byte
}

// struct ifreq with ifr_hwaddr
type ifreqHwaddr struct {
	Name   [ifnameSize]byte
	Hwaddr unix.RawSockaddr
	_      [8]byte
}

type device struct {
	name   string
	file   *os.File
	closed atomic.Bool
}

func (d *device) Name() string   { return d.name }
func (d *device) String() string { return "TAP" }

func (d *device) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err = d.file.Read(p)
	// tun reports the frame length even when it copied less
	if n > len(p) {
		n = len(p)
	}
	return readResult(d.name, n, err)
}

func (d *device) Write(p []byte) (n int, err error) {
	n, err = d.file.Write(p)
	return writeResult(d.name, len(p), n, err)
}

// HardwareAddr asks the kernel for the MAC of the attached interface through
// a throwaway control socket.
func (d *device) HardwareAddr() (net.HardwareAddr, error) {
	if d.closed.Load() {
		return nil, newError("hwaddr", d.name, ErrQueryFailed, ErrClosed)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, newError("hwaddr", d.name, ErrQueryFailed, err)
	}
	defer unix.Close(fd)

	var ifr ifreqHwaddr
	copyIfname(ifr.Name[:], d.name)
	if err := ioctl(fd, unix.SIOCGIFHWADDR, unsafe.Pointer(&ifr)); err != nil {
		return nil, newError("hwaddr", d.name, ErrQueryFailed, err)
	}

	addr := make(net.HardwareAddr, 6)
	for i := range addr {
		addr[i] = byte(ifr.Hwaddr.Data[i])
	}
	return addr, nil
}

func (d *device) Close() error {
	d.closed.Store(true)
	if err := d.file.Close(); err != nil {
		if isClosed(err) {
			return newError("close", d.name, ErrIO, ErrClosed)
		}
		return newError("close", d.name, ErrIO, unwrapSyscall(err))
	}
	return nil
}

func newTAP(name string) (Interface, error) {
	fd, err := unix.Open(cloneDevice, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, newError("open", name, ErrDeviceUnavailable, err)
	}

	var ifr ifreqFlags
	copyIfname(ifr.Name[:], name)
	ifr.Flags = unix.IFF_TAP | unix.IFF_NO_PI
	if err := ioctl(fd, unix.TUNSETIFF, unsafe.Pointer(&ifr)); err != nil {
		unix.Close(fd)
		return nil, newError("open", name, ErrInterfaceSetupFailed, err)
	}

	// reads and writes still block the caller, but through the runtime
	// poller, so Close wakes up a goroutine parked in Read
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, newError("open", name, ErrInterfaceSetupFailed, err)
	}

	return &device{
		name: ifnameString(ifr.Name[:]),
		file: os.NewFile(uintptr(fd), cloneDevice),
	}, nil
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
