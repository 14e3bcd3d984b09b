// Package sim provides an in-process LiDAR driver that synthesises scans of a
// rectangular room, for running the viewer without hardware.
package sim

import "sync/atomic"

// Runtime is the simulated driver lifecycle. It reports OK until Shutdown.
type Runtime struct {
	stopped atomic.Bool
}

// NewRuntime returns a running Runtime.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// OK reports whether Shutdown has not been called yet.
func (r *Runtime) OK() bool {
	return !r.stopped.Load()
}

// Shutdown marks the runtime stopped. It is safe to call more than once.
func (r *Runtime) Shutdown() {
	r.stopped.Store(true)
}
