// Package lifecycle coordinates startup and shutdown hooks and reports readiness.
package lifecycle

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup
	ready      bool
	checks     map[string]ReadinessChecker
	readyMu    sync.RWMutex
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		checks: make(map[string]ReadinessChecker),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// AddCheck registers a named readiness check consulted by Ready and Checks.
func (c *Coordinator) AddCheck(name string, check ReadinessChecker) {
	c.readyMu.Lock()
	defer c.readyMu.Unlock()
	c.checks[name] = check
}

// Ready returns true after all startup hooks have completed and every registered check passes.
func (c *Coordinator) Ready() bool {
	c.readyMu.RLock()
	defer c.readyMu.RUnlock()

	if !c.ready {
		return false
	}
	for _, check := range c.checks {
		if !check.Ready() {
			return false
		}
	}
	return true
}

// Checks reports the current result of each registered readiness check.
func (c *Coordinator) Checks() map[string]bool {
	c.readyMu.RLock()
	checks := maps.Clone(c.checks)
	c.readyMu.RUnlock()

	result := make(map[string]bool, len(checks))
	for name, check := range checks {
		result[name] = check.Ready()
	}
	return result
}

// WaitForStartup blocks until all startup hooks have completed and sets the ready flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.readyMu.Lock()
	c.ready = true
	c.readyMu.Unlock()
}

// Shutdown clears readiness, cancels the context, and waits for shutdown hooks
// to complete within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.readyMu.Lock()
	c.ready = false
	c.readyMu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
