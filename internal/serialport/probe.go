package serialport

import (
	"fmt"

	"go.uber.org/multierr"
)

// Probe checks that the port at path can be opened with opts and closes it
// again. Nothing is written to the device.
func Probe(factory SerialPortFactory, path string, opts PortOptions) (err error) {
	if factory == nil {
		factory = RealFactory
	}

	port, err := factory.Open(path, opts)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := port.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close %s: %w", path, cerr))
		}
	}()
	return nil
}
