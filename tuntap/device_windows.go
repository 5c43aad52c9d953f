//go:build windows

package tuntap

import (
	"net"

	"golang.org/x/sys/windows"
)

const (
	usermodeDeviceDir = `\\.\Global\`
	tapSuffix         = ".tap"

	fileDeviceUnknown = 0x00000022
	methodBuffered    = 0
	fileAnyAccess     = 0
)

// tap-windows driver control codes
var (
	tapIoctlGetMAC         = ctlCode(fileDeviceUnknown, 1, methodBuffered, fileAnyAccess)
	tapIoctlSetMediaStatus = ctlCode(fileDeviceUnknown, 6, methodBuffered, fileAnyAccess)
)

// ctlCode is the CTL_CODE macro from winioctl.h.
func ctlCode(deviceType, function, method, access uint32) uint32 {
	return deviceType<<16 | access<<14 | function<<2 | method
}

func devicePath(id string) string {
	return usermodeDeviceDir + id + tapSuffix
}

type ioFunc func(h windows.Handle, p []byte, done *uint32, o *windows.Overlapped) error

type device struct {
	name   string
	handle windows.Handle

	gate ioGate

	// one completion context per direction, each bound to its own event for
	// the lifetime of the device
	read, write windows.Overlapped
}

func (d *device) Name() string   { return d.name }
func (d *device) String() string { return "TAP" }

func (d *device) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err = d.do(&d.read, p, windows.ReadFile)
	return readResult(d.name, n, err)
}

func (d *device) Write(p []byte) (n int, err error) {
	n, err = d.do(&d.write, p, windows.WriteFile)
	return writeResult(d.name, len(p), n, err)
}

// do issues one overlapped operation and blocks until it completes.
func (d *device) do(o *windows.Overlapped, p []byte, fn ioFunc) (int, error) {
	var done uint32
	return d.gate.run(func() error {
		err := fn(d.handle, p, &done, o)
		if err == windows.ERROR_IO_PENDING {
			return nil
		}
		return err
	}, func() (int, error) {
		if err := windows.GetOverlappedResult(d.handle, o, &done, true); err != nil {
			if err == windows.ERROR_OPERATION_ABORTED {
				return int(done), ErrClosed
			}
			return int(done), err
		}
		return int(done), nil
	})
}

func (d *device) HardwareAddr() (net.HardwareAddr, error) {
	addr := make(net.HardwareAddr, 6)
	err := d.gate.locked(func() error {
		_, err := deviceIoControl(d.handle, tapIoctlGetMAC, nil, addr)
		return err
	})
	if err != nil {
		return nil, newError("hwaddr", d.name, ErrQueryFailed, err)
	}
	return addr, nil
}

func (d *device) Close() error {
	// wake up callers parked in GetOverlappedResult
	if !d.gate.shut(func() { windows.CancelIoEx(d.handle, nil) }) {
		return newError("close", d.name, ErrIO, ErrClosed)
	}
	if err := d.release(); err != nil {
		return newError("close", d.name, ErrIO, err)
	}
	return nil
}

// release closes both events and the device handle, each exactly once.
func (d *device) release() error {
	for _, o := range []*windows.Overlapped{&d.read, &d.write} {
		if o.HEvent != 0 {
			windows.CloseHandle(o.HEvent)
			o.HEvent = 0
		}
	}
	return windows.CloseHandle(d.handle)
}

func newTAP(name string) (Interface, error) {
	id, err := lookupDeviceID(name)
	if err != nil {
		if err == ErrInterfaceNotFound {
			err = nil
		}
		return nil, newError("open", name, ErrInterfaceNotFound, err)
	}

	path, err := windows.UTF16PtrFromString(devicePath(id))
	if err != nil {
		return nil, newError("open", name, ErrDeviceUnavailable, err)
	}
	h, err := windows.CreateFile(path,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0, nil, windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_SYSTEM|windows.FILE_FLAG_OVERLAPPED, 0)
	if err != nil {
		return nil, newError("open", name, ErrDeviceUnavailable, err)
	}

	// "plug the cable", the driver drops frames while disconnected
	status := []byte{1, 0, 0, 0}
	if _, err := deviceIoControl(h, tapIoctlSetMediaStatus, status, status); err != nil {
		windows.CloseHandle(h)
		return nil, newError("open", name, ErrInterfaceSetupFailed, err)
	}

	d := &device{name: name, handle: h}
	for _, o := range []*windows.Overlapped{&d.read, &d.write} {
		ev, err := windows.CreateEvent(nil, 1, 1, nil)
		if err != nil {
			d.release()
			return nil, newError("open", name, ErrDeviceUnavailable, err)
		}
		o.HEvent = ev
	}
	return d, nil
}

// deviceIoControl runs one control request on an overlapped handle and
// waits for it, using a private event.
func deviceIoControl(h windows.Handle, code uint32, in, out []byte) (uint32, error) {
	ev, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return 0, err
	}
	defer windows.CloseHandle(ev)

	o := windows.Overlapped{HEvent: ev}
	var n uint32
	err = windows.DeviceIoControl(h, code, bufPtr(in), uint32(len(in)), bufPtr(out), uint32(len(out)), &n, &o)
	if err == windows.ERROR_IO_PENDING {
		err = windows.GetOverlappedResult(h, &o, &n, true)
	}
	return n, err
}

func bufPtr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}
