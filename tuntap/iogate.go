package tuntap

import "sync"

// ioGate serialises issuing of blocking operations against close. Issuing
// happens under the lock, waiting for completion does not, so a reader and
// a writer can both be parked while Close cancels them.
type ioGate struct {
	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// run calls issue under the lock, then wait outside of it. Once the gate is
// shut nothing is issued, and an operation failing after shut reports
// ErrClosed.
func (g *ioGate) run(issue func() error, wait func() (int, error)) (int, error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return 0, ErrClosed
	}
	g.inflight.Add(1)
	defer g.inflight.Done()

	err := issue()
	g.mu.Unlock()
	if err != nil {
		return 0, err
	}

	n, err := wait()
	if err != nil && g.isShut() {
		return n, ErrClosed
	}
	return n, err
}

// locked runs fn with no operation being issued concurrently.
func (g *ioGate) locked(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	return fn()
}

// shut stops issuing, calls cancel to abort issued operations and waits for
// them to return. It reports false if the gate was already shut.
func (g *ioGate) shut(cancel func()) bool {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return false
	}
	g.closed = true
	cancel()
	g.mu.Unlock()

	g.inflight.Wait()
	return true
}

func (g *ioGate) isShut() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}
