// Package ydsdk binds the YDLidar-SDK C API to lidar.Driver. The binding is
// compiled with the ydlidar build tag; without it the Driver still discovers
// ports but cannot reach a device.
package ydsdk

import (
	"context"
	"errors"

	"github.com/banshee-data/lidarview/internal/lidar"
	"github.com/banshee-data/lidarview/internal/serialport"
)

// ErrUnavailable is returned by device operations when the binary was built
// without the ydlidar tag.
var ErrUnavailable = errors.New("YDLidar SDK support not compiled in (rebuild with -tags ydlidar)")

// PortLister discovers candidate ports for the driver.
type PortLister struct {
	// Enumerate defaults to serialport.SystemEnumerator.
	Enumerate serialport.Enumerator

	// All includes ports that are not behind a known LiDAR USB bridge.
	All bool
}

// ListPorts returns the discovered ports sorted by path.
func (l PortLister) ListPorts(ctx context.Context) ([]lidar.Port, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates, err := serialport.Discover(l.Enumerate, l.All)
	if err != nil {
		return nil, err
	}

	ports := make([]lidar.Port, 0, len(candidates))
	for _, c := range candidates {
		id := c.SerialNumber
		if id == "" {
			id = c.Name
		}
		ports = append(ports, lidar.Port{
			ID:          id,
			Path:        c.Name,
			Description: c.Label(),
		})
	}
	return ports, nil
}
