// Package serialport discovers and probes the serial endpoints a LiDAR can be
// reached on. It never speaks the sensor protocol; that stays with the driver.
package serialport

import (
	"io"
)

// SerialPorter is an open serial port. Probing only ever closes it again.
type SerialPorter interface {
	io.Closer
}

// SerialPortFactory defines an interface for creating serial ports.
type SerialPortFactory interface {
	// Open opens a serial port at the specified path with the given options.
	Open(path string, opts PortOptions) (SerialPorter, error)
}

// SerialPortOpener is a function type for opening serial ports.
// It satisfies SerialPortFactory.
type SerialPortOpener func(path string, opts PortOptions) (SerialPorter, error)

// Open calls f.
func (f SerialPortOpener) Open(path string, opts PortOptions) (SerialPorter, error) {
	return f(path, opts)
}
