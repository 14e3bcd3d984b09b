package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/banshee-data/lidarview/internal/config"
	"github.com/banshee-data/lidarview/internal/lidar"
	"github.com/banshee-data/lidarview/internal/lidar/sim"
	"github.com/banshee-data/lidarview/internal/lidar/ydsdk"
	"github.com/banshee-data/lidarview/internal/monitoring"
	"github.com/banshee-data/lidarview/internal/portselect"
	"github.com/banshee-data/lidarview/internal/serialport"
)

const (
	driverSDK = "sdk"
	driverSim = "sim"
)

// loadConfig reads --config, or the defaults file when it exists in the
// working directory. Without either every value takes its built-in default.
func (a *app) loadConfig() (*config.Config, error) {
	path := a.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath); err != nil {
			return config.EmptyConfig(), nil
		}
		path = config.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config %s", path)
	}
	monitoring.Logger.WithField("path", path).Debug("Loaded config")
	return cfg, nil
}

// openDriver returns the driver selected by --driver with its runtime. all
// widens SDK port discovery to every serial port.
func (a *app) openDriver(all bool) (lidar.Driver, lidar.Runtime, error) {
	switch a.driver {
	case driverSim:
		rt := sim.NewRuntime()
		return sim.New(rt, a.seed), rt, nil
	case driverSDK, "":
		if !ydsdk.Available {
			monitoring.Logger.Warn("Built without the YDLidar SDK; only port discovery works. Use --driver sim to try the viewer.")
		}
		rt := ydsdk.NewRuntime()
		d := ydsdk.New(rt)
		d.All = all
		return d, rt, nil
	default:
		return nil, nil, errors.Errorf("unknown driver %q: want %s or %s", a.driver, driverSDK, driverSim)
	}
}

// probePorts keeps the ports that can be opened at baud.
func probePorts(factory serialport.SerialPortFactory, ports []lidar.Port, baud int) []lidar.Port {
	var ok []lidar.Port
	for _, p := range ports {
		err := serialport.Probe(factory, p.Path, serialport.PortOptions{BaudRate: baud})
		if err != nil {
			monitoring.Logger.WithFields(logrus.Fields{"port": p.Path, "error": err}).Warn("Skipping port that failed to open")
			continue
		}
		ok = append(ok, p)
	}
	return ok
}

// portRequest collects what resolvePort needs beyond the driver.
type portRequest struct {
	Port        string // explicit --port; skips discovery
	Probe       bool
	BaudRate    int
	MaxAttempts int
	Factory     serialport.SerialPortFactory
}

// resolvePort returns the port to configure: the explicit one, or the
// operator's choice among the discovered candidates.
func resolvePort(ctx context.Context, d lidar.Driver, req portRequest, in io.Reader, out io.Writer) (string, error) {
	if req.Port != "" {
		return req.Port, nil
	}

	ports, err := d.ListPorts(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to list LiDAR ports")
	}
	if req.Probe {
		ports = probePorts(req.Factory, ports, req.BaudRate)
	}

	paths := make([]string, len(ports))
	for i, p := range ports {
		paths[i] = p.Path
	}

	sel := portselect.New(in, out)
	sel.MaxAttempts = req.MaxAttempts
	port, err := sel.Select(ctx, paths)
	if err != nil {
		return "", errors.Wrap(err, "failed to select LiDAR port")
	}
	return port, nil
}
