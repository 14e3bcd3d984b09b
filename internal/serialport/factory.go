package serialport

import (
	"go.bug.st/serial"
)

// RealFactory opens ports through go.bug.st/serial.
var RealFactory SerialPortFactory = SerialPortOpener(openReal)

func openReal(path string, opts PortOptions) (SerialPorter, error) {
	port, err := serial.Open(path, opts.SerialMode())
	if err != nil {
		return nil, err
	}
	return port, nil
}
