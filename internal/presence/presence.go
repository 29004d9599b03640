// Package presence keeps the display awake while a workout is running.
package presence

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

// ErrUnsupported indicates the platform has no way to hold a wake lock.
var ErrUnsupported = errors.New("wake lock unsupported")

// Handle is a held wake lock.
type Handle interface {
	// Released reports whether the platform has dropped the lock on its own.
	Released() bool
}

// Port wraps a platform wake-lock API. Acquire may return a nil Handle and a
// nil error when the capability is absent.
type Port interface {
	Acquire(ctx context.Context) (Handle, error)
	Release(ctx context.Context, h Handle) error
}

// DefaultTimeout bounds each acquire or release call.
const DefaultTimeout = 5 * time.Second

// Coordinator tracks whether the timer wants the screen awake and reconciles
// the platform lock with that wish in the background. Hold and Release never
// block on the platform.
type Coordinator struct {
	port    Port
	log     *slog.Logger
	timeout time.Duration
	spawn   func(func())

	mu        sync.Mutex
	wg        sync.WaitGroup
	want      bool
	acquiring bool
	handle    Handle
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.timeout = d }
}

// WithSpawner replaces the goroutine launcher. Tests pass a function that
// runs work inline.
func WithSpawner(spawn func(func())) Option {
	return func(c *Coordinator) { c.spawn = spawn }
}

// New returns a coordinator over port. A nil port disables wake locking.
func New(port Port, log *slog.Logger, opts ...Option) *Coordinator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Coordinator{
		port:    port,
		log:     log,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.spawn == nil {
		c.spawn = func(f func()) { go f() }
	}
	return c
}

// Held reports whether a live lock is currently held.
func (c *Coordinator) Held() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != nil && !c.handle.Released()
}

// Hold asks for the screen to stay awake. A lock the platform has silently
// dropped is requested again.
func (c *Coordinator) Hold() {
	if c.port == nil {
		return
	}
	c.mu.Lock()
	c.want = true
	if c.acquiring || (c.handle != nil && !c.handle.Released()) {
		c.mu.Unlock()
		return
	}
	if c.handle != nil {
		c.log.Debug("wake lock was revoked, requesting again")
		c.handle = nil
	}
	c.acquiring = true
	c.wg.Add(1)
	c.mu.Unlock()

	c.spawn(c.acquire)
}

// Release lets the screen sleep again.
func (c *Coordinator) Release() {
	if c.port == nil {
		return
	}
	c.mu.Lock()
	c.want = false
	h := c.handle
	c.handle = nil
	if h == nil {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	c.spawn(func() {
		defer c.wg.Done()
		c.release(h)
	})
}

// Close releases any held lock and waits for background calls to finish or
// for ctx to expire.
func (c *Coordinator) Close(ctx context.Context) error {
	c.Release()
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) acquire() {
	defer c.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	h, err := c.port.Acquire(ctx)
	cancel()

	c.mu.Lock()
	c.acquiring = false
	switch {
	case errors.Is(err, ErrUnsupported):
		c.mu.Unlock()
		c.log.Debug("wake lock unavailable", "error", err)
		return
	case err != nil:
		c.mu.Unlock()
		c.log.Warn("wake lock request failed", "error", err)
		return
	case h == nil:
		c.mu.Unlock()
		return
	}
	if !c.want {
		// Released while the request was in flight.
		c.mu.Unlock()
		c.release(h)
		return
	}
	c.handle = h
	c.mu.Unlock()
	c.log.Debug("wake lock acquired")
}

func (c *Coordinator) release(h Handle) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if err := c.port.Release(ctx, h); err != nil {
		c.log.Warn("wake lock release failed", "error", err)
		return
	}
	c.log.Debug("wake lock released")
}
