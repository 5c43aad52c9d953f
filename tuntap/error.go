package tuntap

import (
	"errors"
	"io"
	"os"
	"syscall"
)

// Error is returned by every operation on an Interface. Kind is one of the
// ErrXxx kinds declared in this package, Err is the underlying cause, usually
// a syscall.Errno.
type Error struct {
	Op   string
	Name string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	s := "tuntap: " + e.Op
	if e.Name != "" {
		s += " " + e.Name
	}
	s += ": " + e.Kind.Error()
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Errno returns the OS error code carried by e, if any.
func (e *Error) Errno() (syscall.Errno, bool) {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return errno, true
	}
	return 0, false
}

func newError(op, name string, kind, err error) error {
	return &Error{Op: op, Name: name, Kind: kind, Err: err}
}

// readResult maps the raw outcome of one read into the package contract.
func readResult(name string, n int, err error) (int, error) {
	switch {
	case err == nil && n == 0:
		return 0, newError("read", name, ErrEndOfStream, io.EOF)
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF):
		return 0, newError("read", name, ErrEndOfStream, io.EOF)
	case isClosed(err):
		return n, newError("read", name, ErrIO, ErrClosed)
	}
	return n, newError("read", name, ErrIO, unwrapSyscall(err))
}

// writeResult maps the raw outcome of one write into the package contract.
func writeResult(name string, want, n int, err error) (int, error) {
	switch {
	case err == nil && n < want:
		return n, newError("write", name, ErrIO, io.ErrShortWrite)
	case err == nil:
		return n, nil
	case isClosed(err):
		return n, newError("write", name, ErrIO, ErrClosed)
	}
	return n, newError("write", name, ErrIO, unwrapSyscall(err))
}

// unwrapSyscall strips *os.PathError / *os.SyscallError wrappers so the
// error message is not repeated by Error.
func unwrapSyscall(err error) error {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return err
}

func isClosed(err error) bool {
	return errors.Is(err, ErrClosed) || errors.Is(err, os.ErrClosed)
}
