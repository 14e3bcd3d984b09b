package lidar

import (
	"context"
	"errors"
)

var (
	// ErrNoData is returned by FetchFrame when no complete frame is available
	// yet. Callers retry after a short delay.
	ErrNoData = errors.New("no lidar data available")

	// ErrDeviceLost marks a fault that further fetches cannot recover from,
	// such as a disconnected device. Drivers wrap it with detail.
	ErrDeviceLost = errors.New("lidar device lost")
)

// Port is a communication endpoint reported by a driver's port discovery.
type Port struct {
	ID          string // driver-assigned identifier, e.g. a USB serial number
	Path        string // OS-level path passed to the driver as the serial port
	Description string
}

// Driver is the contract consumed from a LiDAR SDK binding. Methods are called
// from a single goroutine.
type Driver interface {
	// ListPorts returns the candidate ports in a stable order.
	ListPorts(ctx context.Context) ([]Port, error)

	// Configure hands the complete option set to the driver before
	// Initialize. It is called once.
	Configure(opts Options) error

	// Initialize connects to the device. The returned error carries the
	// driver's human-readable description of the failure.
	Initialize(ctx context.Context) error

	// StartScanning starts the motor and the scan stream.
	StartScanning(ctx context.Context) error

	// FetchFrame returns one complete frame. ErrNoData is retryable; errors
	// wrapping ErrDeviceLost are not.
	FetchFrame(ctx context.Context) (*Frame, error)

	// StopScanning stops the scan stream and the motor.
	StopScanning() error

	// Disconnect releases the device.
	Disconnect() error
}

// Runtime is the driver subsystem's process-wide lifecycle. OK turns false
// once the subsystem is asked to shut down (for example on SIGINT).
type Runtime interface {
	OK() bool
	Shutdown()
}

// IsRetryable reports whether err is a transient acquisition failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNoData)
}
