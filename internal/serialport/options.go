package serialport

import (
	"go.bug.st/serial"
)

// DefaultBaudRate is the line rate of Tmini class triangulation sensors.
const DefaultBaudRate = 230400

// PortOptions describes how a port is opened for probing. YDLidar sensors
// always frame 8N1, so the baud rate is the only setting.
type PortOptions struct {
	BaudRate int
}

// Normalise applies the default baud rate when none is set.
func (o PortOptions) Normalise() PortOptions {
	if o.BaudRate <= 0 {
		o.BaudRate = DefaultBaudRate
	}
	return o
}

// SerialMode converts the options into the 8N1 serial.Mode opened by
// go.bug.st/serial.
func (o PortOptions) SerialMode() *serial.Mode {
	return &serial.Mode{
		BaudRate: o.Normalise().BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}
