//go:build !ydlidar

package ydsdk

import (
	"context"
	"sync/atomic"

	"github.com/banshee-data/lidarview/internal/lidar"
)

// Available reports whether the SDK binding is compiled in.
const Available = false

// Runtime stands in for the SDK lifecycle. Shutdown may be called from a
// signal handler while the loop polls OK.
type Runtime struct{ stopped atomic.Bool }

// NewRuntime returns a Runtime that is OK until Shutdown.
func NewRuntime() *Runtime { return &Runtime{} }

func (r *Runtime) OK() bool  { return !r.stopped.Load() }
func (r *Runtime) Shutdown() { r.stopped.Store(true) }

// Driver discovers ports but fails every device operation with
// ErrUnavailable.
type Driver struct {
	PortLister
}

// New returns a Driver. rt is unused without the SDK.
func New(rt *Runtime) *Driver {
	return &Driver{}
}

func (d *Driver) Configure(lidar.Options) error { return ErrUnavailable }

func (d *Driver) Initialize(context.Context) error { return ErrUnavailable }

func (d *Driver) StartScanning(context.Context) error { return ErrUnavailable }

func (d *Driver) FetchFrame(context.Context) (*lidar.Frame, error) { return nil, ErrUnavailable }

func (d *Driver) StopScanning() error { return nil }

func (d *Driver) Disconnect() error { return nil }
