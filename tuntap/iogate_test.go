package tuntap

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errAborted = errors.New("the I/O operation has been aborted")

// parked returns an issue/wait pair whose wait blocks until abort is closed.
func parked(abort <-chan struct{}, issued chan<- struct{}, finished *atomic.Int32) (func() error, func() (int, error)) {
	return func() error {
			issued <- struct{}{}
			return nil
		}, func() (int, error) {
			<-abort
			finished.Add(1)
			return 0, errAborted
		}
}

func TestIOGateRunsOperation(t *testing.T) {
	var g ioGate
	n, err := g.run(func() error { return nil }, func() (int, error) { return 60, nil })
	require.NoError(t, err)
	assert.Equal(t, 60, n)
}

func TestIOGateIssueFailure(t *testing.T) {
	var g ioGate
	issueErr := errors.New("the parameter is incorrect")
	waited := false
	_, err := g.run(func() error { return issueErr }, func() (int, error) {
		waited = true
		return 0, nil
	})
	assert.Equal(t, issueErr, err)
	assert.False(t, waited)
}

func TestIOGateWaitFailureWhileOpen(t *testing.T) {
	var g ioGate
	waitErr := errors.New("the network name is no longer available")
	_, err := g.run(func() error { return nil }, func() (int, error) { return 0, waitErr })
	assert.Equal(t, waitErr, err)
}

func TestIOGateShutCancelsParkedOperations(t *testing.T) {
	var g ioGate
	abort := make(chan struct{})
	issued := make(chan struct{}, 2)

	var finished atomic.Int32
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		issue, wait := parked(abort, issued, &finished)
		go func() {
			_, err := g.run(issue, wait)
			results <- err
		}()
	}
	<-issued
	<-issued

	cancelled := 0
	require.True(t, g.shut(func() {
		cancelled++
		close(abort)
	}))
	assert.Equal(t, 1, cancelled)

	assert.Equal(t, int32(2), finished.Load(), "shut returned before the parked operations")
	for i := 0; i < 2; i++ {
		select {
		case err := <-results:
			assert.Equal(t, ErrClosed, err)
		case <-time.After(2 * time.Second):
			t.Fatal("parked operation did not return")
		}
	}
}

func TestIOGateAfterShut(t *testing.T) {
	var g ioGate
	require.True(t, g.shut(func() {}))
	assert.False(t, g.shut(func() { t.Fatal("cancel called twice") }))

	_, err := g.run(func() error {
		t.Fatal("issued after shut")
		return nil
	}, func() (int, error) { return 0, nil })
	assert.Equal(t, ErrClosed, err)

	assert.Equal(t, ErrClosed, g.locked(func() error {
		t.Fatal("locked ran after shut")
		return nil
	}))
}

func TestIOGateLockedExcludesIssue(t *testing.T) {
	var g ioGate
	inside := make(chan struct{})
	release := make(chan struct{})
	go g.locked(func() error {
		close(inside)
		<-release
		return nil
	})
	<-inside

	issued := make(chan struct{})
	go g.run(func() error {
		close(issued)
		return nil
	}, func() (int, error) { return 0, nil })

	select {
	case <-issued:
		t.Fatal("operation issued while locked")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	select {
	case <-issued:
	case <-time.After(2 * time.Second):
		t.Fatal("operation never issued")
	}
}
