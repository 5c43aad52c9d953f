// Package ethernet pumps frames between a tuntap.Interface and a
// netdevice.Handler.
package ethernet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/feifeigood/ethertap/lg"
	"github.com/feifeigood/ethertap/netdevice"
	"github.com/feifeigood/ethertap/tuntap"
)

// MTU is the default read buffer size, a full 802.1Q tagged frame.
const MTU = 1522

var _ netdevice.Device = (*Ethernet)(nil)

type Ethernet struct {
	ifce tuntap.Interface
	addr net.HardwareAddr

	bufSize  int
	noAddr   bool
	logger   lg.Logger
	logLevel lg.LogLevel

	handler atomic.Pointer[netdevice.Handler]

	sendMu sync.Mutex

	// failing reads are retried at retry pace and reported at most at report
	// pace
	retry  *rate.Limiter
	report *rate.Limiter

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

// New starts reading frames from ifce. On success the returned device owns
// ifce, on failure ifce is left to the caller.
func New(ifce tuntap.Interface, opts ...Option) (*Ethernet, error) {
	e := &Ethernet{
		ifce:     ifce,
		bufSize:  MTU,
		logger:   lg.NilLogger{},
		logLevel: lg.INFO,
		retry:    rate.NewLimiter(rate.Every(10*time.Millisecond), 10),
		report:   rate.NewLimiter(rate.Every(time.Second), 1),
		done:     make(chan struct{}),
	}
	for _, fn := range opts {
		fn(e)
	}

	if !e.noAddr {
		addr, err := ifce.HardwareAddr()
		if err != nil {
			return nil, fmt.Errorf("ethernet: %s: %w", ifce.Name(), err)
		}
		e.addr = addr
	}

	e.ctx, e.cancel = context.WithCancel(context.Background())
	go e.readLoop()

	e.logf(lg.INFO, "%s: started (%s, hwaddr %s)", ifce.Name(), ifce, e.addr)
	return e, nil
}

func (e *Ethernet) logf(lvl lg.LogLevel, f string, args ...interface{}) {
	lg.Logf(e.logger, e.logLevel, lvl, f, args...)
}

func (e *Ethernet) Name() string { return e.ifce.Name() }

func (e *Ethernet) Type() string { return strings.ToLower(e.ifce.String()) }

func (e *Ethernet) HardwareAddr() net.HardwareAddr { return e.addr }

func (e *Ethernet) Subscribe(h netdevice.Handler) {
	if h == nil {
		e.handler.Store(nil)
		return
	}
	e.handler.Store(&h)
}

// Send writes one frame. Concurrent senders are serialised.
func (e *Ethernet) Send(frame []byte) error {
	e.sendMu.Lock()
	defer e.sendMu.Unlock()

	n, err := e.ifce.Write(frame)
	if err != nil {
		if n > 0 && n < len(frame) {
			e.logf(lg.WARN, "%s: didn't write all data (%d / %d)", e.Name(), n, len(frame))
		}
		return fmt.Errorf("ethernet: send on %s: %w", e.Name(), err)
	}
	return nil
}

// Done is closed once the reader has stopped, after Close or at the end of
// the stream.
func (e *Ethernet) Done() <-chan struct{} { return e.done }

func (e *Ethernet) Close() error {
	return e.shutdown(true)
}

// shutdown stops the reader and closes the interface once. With wait it also
// blocks until the reader goroutine has returned.
func (e *Ethernet) shutdown(wait bool) error {
	e.closeOnce.Do(func() {
		e.cancel()
		if err := e.ifce.Close(); err != nil && !errors.Is(err, tuntap.ErrClosed) {
			e.closeErr = err
		}
		e.logf(lg.INFO, "%s: closed", e.Name())
	})
	if wait {
		<-e.done
	}
	return e.closeErr
}

// handlerSide is the Device handed to handlers. It runs on the reader
// goroutine, so its Close must not wait for that goroutine.
type handlerSide struct {
	*Ethernet
}

func (h handlerSide) Close() error {
	return h.shutdown(false)
}

func (e *Ethernet) readLoop() {
	defer close(e.done)

	buf := make([]byte, e.bufSize)
	for {
		n, err := e.ifce.Read(buf)
		if err != nil {
			if errors.Is(err, tuntap.ErrEndOfStream) || errors.Is(err, tuntap.ErrClosed) || e.ctx.Err() != nil {
				e.logf(lg.DEBUG, "%s: reader stopped: %s", e.Name(), err)
				return
			}
			if e.report.Allow() {
				e.logf(lg.ERROR, "%s: read: %s", e.Name(), err)
			}
			if e.retry.Wait(e.ctx) != nil {
				return
			}
			continue
		}

		frame := make([]byte, n)
		copy(frame, buf[:n])
		e.dispatch(frame)
	}
}

func (e *Ethernet) dispatch(frame []byte) {
	h := e.handler.Load()
	if h == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logf(lg.ERROR, "%s: handler panic: %v", e.Name(), r)
		}
	}()
	(*h).HandleFrame(frame, handlerSide{e})
}
