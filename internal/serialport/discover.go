package serialport

import (
	"fmt"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// knownBridges lists the USB-UART bridges shipped on YDLidar adapter boards,
// keyed by "VID:PID" in upper case.
var knownBridges = map[string]string{
	"10C4:EA60": "Silicon Labs CP210x",
	"1A86:7523": "QinHeng CH340",
	"1A86:55D4": "QinHeng CH9102",
}

// Candidate is a serial port that may have a LiDAR attached.
type Candidate struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
	// Bridge names the matched USB-UART bridge, empty when the port did not
	// match a known adapter.
	Bridge string
}

// Label returns a one-line human readable description of the candidate.
func (c Candidate) Label() string {
	switch {
	case c.Bridge != "":
		return fmt.Sprintf("%s (%s %s:%s)", c.Name, c.Bridge, c.VID, c.PID)
	case c.IsUSB:
		return fmt.Sprintf("%s (USB %s:%s)", c.Name, c.VID, c.PID)
	default:
		return c.Name
	}
}

// Enumerator returns the detailed port list of the host.
type Enumerator func() ([]*enumerator.PortDetails, error)

// SystemEnumerator is the go.bug.st/serial enumerator for the host OS.
var SystemEnumerator Enumerator = enumerator.GetDetailedPortsList

// Discover lists candidate ports sorted by name. Unless all is set only ports
// behind a known LiDAR USB bridge are returned.
func Discover(enum Enumerator, all bool) ([]Candidate, error) {
	if enum == nil {
		enum = SystemEnumerator
	}

	ports, err := enum()
	if err != nil {
		return nil, fmt.Errorf("enumerator error: %w", err)
	}

	candidates := make([]Candidate, 0, len(ports))
	for _, p := range ports {
		if p == nil || p.Name == "" {
			continue
		}
		c := Candidate{
			Name:         p.Name,
			IsUSB:        p.IsUSB,
			VID:          strings.ToUpper(p.VID),
			PID:          strings.ToUpper(p.PID),
			SerialNumber: p.SerialNumber,
			Product:      p.Product,
		}
		if c.IsUSB {
			c.Bridge = knownBridges[c.VID+":"+c.PID]
		}
		if !all && c.Bridge == "" {
			continue
		}
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Name < candidates[j].Name
	})
	return candidates, nil
}
