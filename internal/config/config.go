package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/lidarview/internal/display"
	"github.com/banshee-data/lidarview/internal/lidar"
	"github.com/banshee-data/lidarview/internal/render"
	"github.com/banshee-data/lidarview/internal/viewer"
)

// DefaultConfigPath is the path to the canonical defaults file for a Tmini
// Pro/Plus on a serial port.
const DefaultConfigPath = "config/lidarview.defaults.json"

// Config is the root configuration. Every field is optional: nil falls back
// to the default returned by the matching Get* method, so partial files are
// safe.
type Config struct {
	// Device options
	BaudRate        *int     `json:"baud_rate,omitempty"`
	LidarType       *string  `json:"lidar_type,omitempty"`
	DeviceType      *string  `json:"device_type,omitempty"`
	SampleRate      *int     `json:"sample_rate,omitempty"` // kHz; ignored when single_channel is set
	SingleChannel   *bool    `json:"single_channel,omitempty"`
	IntensityBits   *int     `json:"intensity_bits,omitempty"`
	FixedResolution *bool    `json:"fixed_resolution,omitempty"`
	Reversion       *bool    `json:"reversion,omitempty"`
	Inverted        *bool    `json:"inverted,omitempty"`
	AutoReconnect   *bool    `json:"auto_reconnect,omitempty"`
	Intensity       *bool    `json:"intensity,omitempty"`
	MotorDTRControl *bool    `json:"motor_dtr_ctrl,omitempty"`
	HeartBeat       *bool    `json:"heartbeat,omitempty"`
	MaxAngle        *float64 `json:"max_angle,omitempty"`
	MinAngle        *float64 `json:"min_angle,omitempty"`
	MaxRange        *float64 `json:"max_range,omitempty"`
	MinRange        *float64 `json:"min_range,omitempty"`
	ScanFrequency   *float64 `json:"scan_frequency,omitempty"`
	IgnoreArray     *string  `json:"ignore_array,omitempty"`
	GlassNoise      *bool    `json:"glass_noise,omitempty"`
	SunNoise        *bool    `json:"sun_noise,omitempty"`

	// Viewer
	WindowSize             *int     `json:"window_size,omitempty"`
	Scale                  *float64 `json:"scale,omitempty"`       // pixels per metre
	RetryDelay             *string  `json:"retry_delay,omitempty"` // duration string like "50ms"
	KeyPoll                *string  `json:"key_poll,omitempty"`
	MaxConsecutiveFailures *int     `json:"max_consecutive_failures,omitempty"`
	Listen                 *string  `json:"listen,omitempty"`
	JPEGQuality            *int     `json:"jpeg_quality,omitempty"`

	// Port selection
	MaxAttempts *int  `json:"max_attempts,omitempty"`
	Probe       *bool `json:"probe,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyConfig returns a Config with every field nil.
func EmptyConfig() *Config {
	return &Config{}
}

// LoadConfig loads a Config from a JSON file with a .json extension no
// larger than 1MB. Fields omitted from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory
// or one of its parents. Panics if the file cannot be loaded, intended for
// test setup.
func MustLoadDefaultConfig() *Config {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/lidar/sim/
	}
	for _, path := range candidates {
		if cfg, err := LoadConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that are set. Device level cross-checks such
// as angle ordering happen again in lidar.Options.Validate once the port is
// known.
func (c *Config) Validate() error {
	if c.LidarType != nil {
		if _, err := lidar.ParseLidarType(*c.LidarType); err != nil {
			return err
		}
	}
	if c.DeviceType != nil {
		if _, err := lidar.ParseDeviceType(*c.DeviceType); err != nil {
			return err
		}
	}
	if c.BaudRate != nil && *c.BaudRate <= 0 {
		return fmt.Errorf("baud_rate must be positive, got %d", *c.BaudRate)
	}
	if c.SampleRate != nil && *c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", *c.SampleRate)
	}
	if c.IntensityBits != nil && (*c.IntensityBits < 0 || *c.IntensityBits > 16) {
		return fmt.Errorf("intensity_bits must be between 0 and 16, got %d", *c.IntensityBits)
	}
	if c.MaxAngle != nil && (*c.MaxAngle < -180 || *c.MaxAngle > 180) {
		return fmt.Errorf("max_angle must be between -180 and 180, got %f", *c.MaxAngle)
	}
	if c.MinAngle != nil && (*c.MinAngle < -180 || *c.MinAngle > 180) {
		return fmt.Errorf("min_angle must be between -180 and 180, got %f", *c.MinAngle)
	}
	if c.MinRange != nil && *c.MinRange < 0 {
		return fmt.Errorf("min_range must be non-negative, got %f", *c.MinRange)
	}
	if c.MaxRange != nil && *c.MaxRange <= 0 {
		return fmt.Errorf("max_range must be positive, got %f", *c.MaxRange)
	}
	if c.ScanFrequency != nil && *c.ScanFrequency <= 0 {
		return fmt.Errorf("scan_frequency must be positive, got %f", *c.ScanFrequency)
	}

	if c.WindowSize != nil && *c.WindowSize < 2 {
		return fmt.Errorf("window_size must be at least 2, got %d", *c.WindowSize)
	}
	if c.Scale != nil && *c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %f", *c.Scale)
	}
	if c.RetryDelay != nil && *c.RetryDelay != "" {
		if _, err := time.ParseDuration(*c.RetryDelay); err != nil {
			return fmt.Errorf("invalid retry_delay '%s': %w", *c.RetryDelay, err)
		}
	}
	if c.KeyPoll != nil && *c.KeyPoll != "" {
		if _, err := time.ParseDuration(*c.KeyPoll); err != nil {
			return fmt.Errorf("invalid key_poll '%s': %w", *c.KeyPoll, err)
		}
	}
	if c.MaxConsecutiveFailures != nil && *c.MaxConsecutiveFailures < 0 {
		return fmt.Errorf("max_consecutive_failures must be non-negative, got %d", *c.MaxConsecutiveFailures)
	}
	if c.JPEGQuality != nil && (*c.JPEGQuality < 1 || *c.JPEGQuality > 100) {
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", *c.JPEGQuality)
	}
	if c.MaxAttempts != nil && *c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must be non-negative, got %d", *c.MaxAttempts)
	}
	return nil
}

func getBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func getFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func getDuration(p *string, def time.Duration) time.Duration {
	if p == nil || *p == "" {
		return def
	}
	d, err := time.ParseDuration(*p)
	if err != nil {
		return def
	}
	return d
}

// GetBaudRate returns the baud_rate value or the default.
func (c *Config) GetBaudRate() int {
	if c.BaudRate == nil {
		return lidar.DefaultOptions().BaudRate
	}
	return *c.BaudRate
}

// GetSampleRate returns the sample rate in kHz. Single-channel sensors run
// at 3 kHz whatever sample_rate says.
func (c *Config) GetSampleRate() int {
	if c.GetSingleChannel() {
		return 3
	}
	if c.SampleRate == nil {
		return 4
	}
	return *c.SampleRate
}

// GetSingleChannel returns the single_channel value or the default.
func (c *Config) GetSingleChannel() bool {
	return getBool(c.SingleChannel, false)
}

// GetIntensityBits returns the intensity_bits value or the default.
func (c *Config) GetIntensityBits() int {
	if c.IntensityBits == nil {
		return 8
	}
	return *c.IntensityBits
}

// GetWindowSize returns the viewer window edge in pixels.
func (c *Config) GetWindowSize() int {
	if c.WindowSize == nil {
		return render.DefaultSize
	}
	return *c.WindowSize
}

// GetScale returns the projection scale in pixels per metre.
func (c *Config) GetScale() float64 {
	return getFloat(c.Scale, render.DefaultScale)
}

func (c *Config) GetRetryDelay() time.Duration {
	return getDuration(c.RetryDelay, viewer.DefaultRetryDelay)
}

func (c *Config) GetKeyPoll() time.Duration {
	return getDuration(c.KeyPoll, viewer.DefaultKeyPoll)
}

// GetListen returns the display listen address.
func (c *Config) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return display.DefaultListen
	}
	return *c.Listen
}

// GetJPEGQuality returns the stream JPEG quality.
func (c *Config) GetJPEGQuality() int {
	if c.JPEGQuality == nil {
		return display.DefaultQuality
	}
	return *c.JPEGQuality
}

// GetMaxAttempts returns the port selection attempt limit. Zero means
// unbounded.
func (c *Config) GetMaxAttempts() int {
	if c.MaxAttempts == nil {
		return 0
	}
	return *c.MaxAttempts
}

// GetProbe returns whether candidate ports are test-opened before selection.
func (c *Config) GetProbe() bool {
	return getBool(c.Probe, false)
}

// DeviceOptions builds the driver configuration for port. Unset fields take
// the lidar.DefaultOptions values.
func (c *Config) DeviceOptions(port string) (lidar.Options, error) {
	o := lidar.DefaultOptions()
	o.SerialPort = port

	if c.BaudRate != nil {
		o.BaudRate = *c.BaudRate
	}
	if c.LidarType != nil {
		t, err := lidar.ParseLidarType(*c.LidarType)
		if err != nil {
			return lidar.Options{}, err
		}
		o.LidarType = t
	}
	if c.DeviceType != nil {
		t, err := lidar.ParseDeviceType(*c.DeviceType)
		if err != nil {
			return lidar.Options{}, err
		}
		o.DeviceType = t
	}
	if c.IgnoreArray != nil {
		o.IgnoreArray = *c.IgnoreArray
	}

	o.SingleChannel = c.GetSingleChannel()
	o.SampleRate = c.GetSampleRate()
	o.IntensityBits = c.GetIntensityBits()
	o.FixedResolution = getBool(c.FixedResolution, o.FixedResolution)
	o.Reversion = getBool(c.Reversion, o.Reversion)
	o.Inverted = getBool(c.Inverted, o.Inverted)
	o.AutoReconnect = getBool(c.AutoReconnect, o.AutoReconnect)
	o.Intensity = getBool(c.Intensity, o.Intensity)
	o.MotorDTRControl = getBool(c.MotorDTRControl, o.MotorDTRControl)
	o.HeartBeat = getBool(c.HeartBeat, o.HeartBeat)
	o.MaxAngle = getFloat(c.MaxAngle, o.MaxAngle)
	o.MinAngle = getFloat(c.MinAngle, o.MinAngle)
	o.MaxRange = getFloat(c.MaxRange, o.MaxRange)
	o.MinRange = getFloat(c.MinRange, o.MinRange)
	o.ScanFrequency = getFloat(c.ScanFrequency, o.ScanFrequency)
	o.GlassNoise = getBool(c.GlassNoise, o.GlassNoise)
	o.SunNoise = getBool(c.SunNoise, o.SunNoise)

	return o, nil
}

// ViewSettings builds the acquire-render loop settings.
func (c *Config) ViewSettings() viewer.Settings {
	s := viewer.DefaultSettings()
	s.Renderer = render.Renderer{Size: c.GetWindowSize(), Scale: c.GetScale()}
	s.RetryDelay = c.GetRetryDelay()
	s.KeyPoll = c.GetKeyPoll()
	if c.MaxConsecutiveFailures != nil {
		s.MaxConsecutiveFailures = *c.MaxConsecutiveFailures
	}
	return s
}
