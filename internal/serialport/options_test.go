package serialport

import (
	"testing"

	"go.bug.st/serial"
)

func TestPortOptions_Normalise(t *testing.T) {
	tests := []struct {
		name string
		baud int
		want int
	}{
		{"unset", 0, DefaultBaudRate},
		{"negative", -5, DefaultBaudRate},
		{"explicit", 115200, 115200},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PortOptions{BaudRate: tc.baud}.Normalise()
			if got.BaudRate != tc.want {
				t.Errorf("BaudRate = %d, want %d", got.BaudRate, tc.want)
			}
		})
	}
}

func TestPortOptions_SerialMode(t *testing.T) {
	mode := PortOptions{BaudRate: 512000}.SerialMode()
	if mode.BaudRate != 512000 {
		t.Errorf("BaudRate = %d, want 512000", mode.BaudRate)
	}
	if mode.DataBits != 8 {
		t.Errorf("DataBits = %d, want 8", mode.DataBits)
	}
	if mode.Parity != serial.NoParity {
		t.Errorf("Parity = %v, want %v", mode.Parity, serial.NoParity)
	}
	if mode.StopBits != serial.OneStopBit {
		t.Errorf("StopBits = %v, want %v", mode.StopBits, serial.OneStopBit)
	}

	if got := (PortOptions{}).SerialMode().BaudRate; got != DefaultBaudRate {
		t.Errorf("default BaudRate = %d, want %d", got, DefaultBaudRate)
	}
}
