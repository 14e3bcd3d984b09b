//go:build ydlidar

package ydsdk

// #cgo CFLAGS: -I/usr/local/include/src -I/usr/local/include
// #cgo LDFLAGS: -lydlidar_sdk -lstdc++ -lpthread
// #include <stdlib.h>
// #include <stdbool.h>
// #include "ydlidar_sdk.h"
import "C"

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/banshee-data/lidarview/internal/lidar"
	"github.com/banshee-data/lidarview/internal/monitoring"
)

// Available reports whether the SDK binding is compiled in.
const Available = true

// Runtime wraps the SDK's process-wide os_init/os_isOk/os_shutdown lifecycle.
type Runtime struct {
	once sync.Once
}

// NewRuntime initialises the SDK runtime.
func NewRuntime() *Runtime {
	C.os_init()
	return &Runtime{}
}

// OK reports whether the SDK runtime is still running. The SDK clears it on
// SIGINT or after Shutdown.
func (r *Runtime) OK() bool {
	return bool(C.os_isOk())
}

// Shutdown stops the SDK runtime.
func (r *Runtime) Shutdown() {
	r.once.Do(func() { C.os_shutdown() })
}

// Driver is a lidar.Driver backed by one SDK lidar instance.
type Driver struct {
	PortLister

	runtime *Runtime
	handle  *C.YDLidar
	opts    lidar.Options
}

// New creates an SDK lidar instance bound to rt.
func New(rt *Runtime) *Driver {
	return &Driver{runtime: rt, handle: C.lidarCreate()}
}

// Configure pushes every option to the SDK. Options the SDK does not know
// are logged and skipped.
func (d *Driver) Configure(opts lidar.Options) error {
	if d.handle == nil {
		return errors.New("lidar instance released")
	}
	d.opts = opts

	if err := d.setString(C.LidarPropSerialPort, opts.SerialPort); err != nil {
		return err
	}
	if err := d.setString(C.LidarPropIgnoreArray, opts.IgnoreArray); err != nil {
		return err
	}

	ints := []struct {
		prop C.int
		v    int
	}{
		{C.LidarPropSerialBaudrate, opts.BaudRate},
		{C.LidarPropLidarType, lidarType(opts.LidarType)},
		{C.LidarPropDeviceType, deviceType(opts.DeviceType)},
		{C.LidarPropSampleRate, opts.SampleRate},
		{C.LidarPropIntenstiyBit, opts.IntensityBits},
	}
	for _, o := range ints {
		if err := d.setInt(o.prop, o.v); err != nil {
			return err
		}
	}

	bools := []struct {
		prop C.int
		v    bool
	}{
		{C.LidarPropFixedResolution, opts.FixedResolution},
		{C.LidarPropReversion, opts.Reversion},
		{C.LidarPropInverted, opts.Inverted},
		{C.LidarPropAutoReconnect, opts.AutoReconnect},
		{C.LidarPropSingleChannel, opts.SingleChannel},
		{C.LidarPropIntenstiy, opts.Intensity},
		{C.LidarPropSupportMotorDtrCtrl, opts.MotorDTRControl},
		{C.LidarPropSupportHeartBeat, opts.HeartBeat},
	}
	for _, o := range bools {
		if err := d.setBool(o.prop, o.v); err != nil {
			return err
		}
	}

	floats := []struct {
		prop C.int
		v    float64
	}{
		{C.LidarPropMaxAngle, opts.MaxAngle},
		{C.LidarPropMinAngle, opts.MinAngle},
		{C.LidarPropMaxRange, opts.MaxRange},
		{C.LidarPropMinRange, opts.MinRange},
		{C.LidarPropScanFrequency, opts.ScanFrequency},
	}
	for _, o := range floats {
		if err := d.setFloat(o.prop, o.v); err != nil {
			return err
		}
	}

	// The C API has no glass or sun noise switches.
	monitoring.Logger.WithFields(map[string]interface{}{
		"glass_noise": opts.GlassNoise,
		"sun_noise":   opts.SunNoise,
	}).Warn("Noise filtering methods not available")
	return nil
}

func (d *Driver) setString(prop C.int, v string) error {
	cs := C.CString(v)
	defer C.free(unsafe.Pointer(cs))
	if !C.setlidaropt(d.handle, prop, unsafe.Pointer(cs), C.int(len(v))) {
		return fmt.Errorf("failed to set lidar option %d", int(prop))
	}
	return nil
}

func (d *Driver) setInt(prop C.int, v int) error {
	cv := C.int(v)
	if !C.setlidaropt(d.handle, prop, unsafe.Pointer(&cv), C.int(C.sizeof_int)) {
		return fmt.Errorf("failed to set lidar option %d", int(prop))
	}
	return nil
}

func (d *Driver) setBool(prop C.int, v bool) error {
	cv := C.bool(v)
	if !C.setlidaropt(d.handle, prop, unsafe.Pointer(&cv), C.int(C.sizeof_bool)) {
		return fmt.Errorf("failed to set lidar option %d", int(prop))
	}
	return nil
}

func (d *Driver) setFloat(prop C.int, v float64) error {
	cv := C.float(v)
	if !C.setlidaropt(d.handle, prop, unsafe.Pointer(&cv), C.int(C.sizeof_float)) {
		return fmt.Errorf("failed to set lidar option %d", int(prop))
	}
	return nil
}

// Initialize connects to the device.
func (d *Driver) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !C.initialize(d.handle) {
		return fmt.Errorf("failed to initialize lidar: %s", d.describe())
	}
	return nil
}

// StartScanning turns the motor and scan stream on.
func (d *Driver) StartScanning(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !C.turnOn(d.handle) {
		return fmt.Errorf("failed to start scan: %s", d.describe())
	}
	return nil
}

// FetchFrame blocks until the SDK delivers one sweep. A failed read while the
// runtime is OK is retryable; after the runtime stopped it is fatal.
func (d *Driver) FetchFrame(ctx context.Context) (*lidar.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var fan C.LaserFan
	C.LaserFanInit(&fan)
	defer C.LaserFanDestroy(&fan)

	if !C.doProcessSimple(d.handle, &fan) {
		if d.runtime != nil && !d.runtime.OK() {
			return nil, fmt.Errorf("%w: %s", lidar.ErrDeviceLost, d.describe())
		}
		return nil, lidar.ErrNoData
	}

	n := int(fan.npoints)
	frame := &lidar.Frame{
		Stamp:   time.Unix(0, int64(fan.stamp)),
		Samples: make([]lidar.Sample, n),
	}
	if st := float64(fan.config.scan_time); st > 0 {
		frame.ScanFrequency = 1 / st
	}
	if n > 0 {
		points := unsafe.Slice(fan.points, n)
		for i, p := range points {
			frame.Samples[i] = lidar.Sample{
				Range:     float64(p._range),
				Angle:     float64(p.angle),
				Intensity: float64(p.intensity),
			}
		}
	}
	return frame, nil
}

// StopScanning turns the motor off.
func (d *Driver) StopScanning() error {
	if d.handle == nil {
		return nil
	}
	if !C.turnOff(d.handle) {
		return fmt.Errorf("failed to stop scan: %s", d.describe())
	}
	return nil
}

// Disconnect closes the device and releases the SDK instance.
func (d *Driver) Disconnect() error {
	if d.handle == nil {
		return nil
	}
	C.disconnecting(d.handle)
	C.lidarDestroy(&d.handle)
	d.handle = nil
	return nil
}

func (d *Driver) describe() string {
	if d.handle == nil {
		return "lidar instance released"
	}
	return C.GoString(C.DescribeError(d.handle))
}

func lidarType(t lidar.LidarType) int {
	switch t {
	case lidar.TypeTOF:
		return int(C.TYPE_TOF)
	case lidar.TypeTOFNet:
		return int(C.TYPE_TOF_NET)
	default:
		return int(C.TYPE_TRIANGLE)
	}
}

func deviceType(t lidar.DeviceType) int {
	switch t {
	case lidar.DeviceTCP:
		return int(C.YDLIDAR_TYPE_TCP)
	case lidar.DeviceUDP:
		return int(C.YDLIDAR_TYPE_UDP)
	default:
		return int(C.YDLIDAR_TYPE_SERIAL)
	}
}
