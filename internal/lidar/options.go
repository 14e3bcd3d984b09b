package lidar

import (
	"fmt"
	"strings"
)

// LidarType identifies the ranging principle of the sensor.
type LidarType int

const (
	TypeTOF LidarType = iota
	TypeTriangle
	TypeTOFNet
)

// String returns the string representation of a LidarType.
func (t LidarType) String() string {
	switch t {
	case TypeTOF:
		return "tof"
	case TypeTriangle:
		return "triangle"
	case TypeTOFNet:
		return "tof-net"
	default:
		return "unknown"
	}
}

// ParseLidarType parses a string into a LidarType.
func ParseLidarType(s string) (LidarType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tof":
		return TypeTOF, nil
	case "triangle", "":
		return TypeTriangle, nil
	case "tof-net", "tof_net":
		return TypeTOFNet, nil
	default:
		return TypeTriangle, fmt.Errorf("unsupported lidar type %q", s)
	}
}

// DeviceType identifies the transport between host and sensor.
type DeviceType int

const (
	DeviceSerial DeviceType = iota
	DeviceTCP
	DeviceUDP
)

// String returns the string representation of a DeviceType.
func (t DeviceType) String() string {
	switch t {
	case DeviceSerial:
		return "serial"
	case DeviceTCP:
		return "tcp"
	case DeviceUDP:
		return "udp"
	default:
		return "unknown"
	}
}

// ParseDeviceType parses a string into a DeviceType.
func ParseDeviceType(s string) (DeviceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "serial", "":
		return DeviceSerial, nil
	case "tcp":
		return DeviceTCP, nil
	case "udp":
		return DeviceUDP, nil
	default:
		return DeviceSerial, fmt.Errorf("unsupported device type %q", s)
	}
}

// Options is the flat device configuration handed to Driver.Configure. It is
// assembled once before initialization and not mutated afterwards.
type Options struct {
	SerialPort  string
	IgnoreArray string

	BaudRate      int
	LidarType     LidarType
	DeviceType    DeviceType
	SampleRate    int // kHz
	IntensityBits int

	FixedResolution bool
	Reversion       bool
	Inverted        bool
	AutoReconnect   bool
	SingleChannel   bool
	Intensity       bool
	MotorDTRControl bool
	HeartBeat       bool

	MaxAngle      float64 // degrees
	MinAngle      float64 // degrees
	MaxRange      float64 // metres
	MinRange      float64 // metres
	ScanFrequency float64 // Hz

	GlassNoise bool
	SunNoise   bool
}

// DefaultOptions returns the configuration for a Tmini Pro/Plus triangulation
// sensor on a serial port. The port itself is left empty.
func DefaultOptions() Options {
	return Options{
		BaudRate:        230400,
		LidarType:       TypeTriangle,
		DeviceType:      DeviceSerial,
		SampleRate:      4,
		IntensityBits:   8,
		FixedResolution: true,
		AutoReconnect:   true,
		Intensity:       true,
		MaxAngle:        180,
		MinAngle:        -180,
		MaxRange:        64,
		MinRange:        0.05,
		ScanFrequency:   10,
	}
}

// Validate checks the option set for values no driver can accept.
func (o Options) Validate() error {
	if strings.TrimSpace(o.SerialPort) == "" {
		return fmt.Errorf("serial port is required")
	}
	if o.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate %d", o.BaudRate)
	}
	if o.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", o.SampleRate)
	}
	if o.MinAngle < -180 || o.MaxAngle > 180 || o.MinAngle >= o.MaxAngle {
		return fmt.Errorf("invalid angle range [%g, %g]: must lie within [-180, 180] with min < max", o.MinAngle, o.MaxAngle)
	}
	if o.MinRange < 0 || o.MinRange >= o.MaxRange {
		return fmt.Errorf("invalid distance range [%g, %g]", o.MinRange, o.MaxRange)
	}
	if o.ScanFrequency <= 0 {
		return fmt.Errorf("invalid scan frequency %g", o.ScanFrequency)
	}
	return nil
}

// Property is one key/value entry of the configuration.
type Property struct {
	Key   string
	Value interface{}
}

// Properties returns the configuration as an ordered key/value list: string
// options first, then integers, booleans and floats.
func (o Options) Properties() []Property {
	return []Property{
		{"serial_port", o.SerialPort},
		{"ignore_array", o.IgnoreArray},
		{"baud_rate", o.BaudRate},
		{"lidar_type", o.LidarType.String()},
		{"device_type", o.DeviceType.String()},
		{"sample_rate", o.SampleRate},
		{"intensity_bits", o.IntensityBits},
		{"fixed_resolution", o.FixedResolution},
		{"reversion", o.Reversion},
		{"inverted", o.Inverted},
		{"auto_reconnect", o.AutoReconnect},
		{"single_channel", o.SingleChannel},
		{"intensity", o.Intensity},
		{"motor_dtr_ctrl", o.MotorDTRControl},
		{"heartbeat", o.HeartBeat},
		{"max_angle", o.MaxAngle},
		{"min_angle", o.MinAngle},
		{"max_range", o.MaxRange},
		{"min_range", o.MinRange},
		{"scan_frequency", o.ScanFrequency},
		{"glass_noise", o.GlassNoise},
		{"sun_noise", o.SunNoise},
	}
}
