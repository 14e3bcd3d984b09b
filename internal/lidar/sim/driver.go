package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/lidarview/internal/lidar"
	"github.com/banshee-data/lidarview/internal/monitoring"
)

// DefaultPort is the single port reported by a Driver without explicit Ports.
var DefaultPort = lidar.Port{ID: "sim0", Path: "sim://tmini", Description: "Simulated Tmini Pro"}

var (
	errNotConfigured = errors.New("driver not configured")
	errNotConnected  = errors.New("device not initialized")
)

// Room describes the simulated scene: an axis-aligned rectangle around the
// sensor plus one round post circling it.
type Room struct {
	HalfWidth  float64 // metres along X
	HalfDepth  float64 // metres along Y
	PostRadius float64 // metres
	PostOrbit  float64 // metres from the sensor
	PostPeriod time.Duration
}

// DefaultRoom is a 6 m x 4 m room with a 0.15 m post orbiting at 1.2 m.
var DefaultRoom = Room{
	HalfWidth:  3,
	HalfDepth:  2,
	PostRadius: 0.15,
	PostOrbit:  1.2,
	PostPeriod: 8 * time.Second,
}

// Driver implements lidar.Driver against a synthetic scene. Fault injection
// fields must be set before Initialize.
type Driver struct {
	Ports []lidar.Port
	Room  Room

	// Realtime paces FetchFrame to the configured scan frequency.
	Realtime bool

	// NoiseSigma is the standard deviation of range noise in metres.
	NoiseSigma float64

	// Dropout is the probability that a sample carries no return.
	Dropout float64

	// DropEvery makes every n-th fetch fail with lidar.ErrNoData. Zero never
	// drops.
	DropEvery int

	// LoseAfter makes fetches fail with lidar.ErrDeviceLost once that many
	// frames were delivered. Zero never loses the device.
	LoseAfter int

	// Now returns the frame timestamp. Defaults to time.Now.
	Now func() time.Time

	runtime *Runtime
	start   time.Time
	src     rand.Source

	mu         sync.Mutex
	opts       lidar.Options
	configured bool
	connected  bool
	scanning   bool
	fetches    int
	frames     int
	last       time.Time
}

// New returns a Driver bound to rt whose noise is drawn from a source seeded
// with seed.
func New(rt *Runtime, seed uint64) *Driver {
	return &Driver{
		Room:       DefaultRoom,
		Realtime:   true,
		NoiseSigma: 0.01,
		Dropout:    0.02,
		runtime:    rt,
		src:        rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
}

// ListPorts returns the configured ports, or DefaultPort.
func (d *Driver) ListPorts(ctx context.Context) ([]lidar.Port, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(d.Ports) == 0 {
		return []lidar.Port{DefaultPort}, nil
	}
	out := make([]lidar.Port, len(d.Ports))
	copy(out, d.Ports)
	return out, nil
}

// Configure stores the option set for Initialize.
func (d *Driver) Configure(opts lidar.Options) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return errors.New("cannot configure a connected device")
	}
	d.opts = opts
	d.configured = true
	return nil
}

// Initialize validates the options and connects to the simulated device.
func (d *Driver) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.configured {
		return errNotConfigured
	}
	if err := d.opts.Validate(); err != nil {
		return fmt.Errorf("lidar configuration rejected: %w", err)
	}
	if !d.knownPort(d.opts.SerialPort) {
		return fmt.Errorf("failed to open serial port %s: no such device", d.opts.SerialPort)
	}

	d.connected = true
	d.fetches = 0
	d.frames = 0
	monitoring.Logger.WithField("port", d.opts.SerialPort).Debug("Simulated LiDAR connected")
	return nil
}

func (d *Driver) knownPort(path string) bool {
	ports := d.Ports
	if len(ports) == 0 {
		ports = []lidar.Port{DefaultPort}
	}
	for _, p := range ports {
		if p.Path == path {
			return true
		}
	}
	return false
}

// StartScanning starts the simulated motor.
func (d *Driver) StartScanning(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return errNotConnected
	}
	d.scanning = true
	if d.start.IsZero() {
		d.start = d.now()
	}
	return nil
}

// FetchFrame synthesises one sweep.
func (d *Driver) FetchFrame(ctx context.Context) (*lidar.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.runtime != nil && !d.runtime.OK() {
		return nil, fmt.Errorf("%w: runtime stopped", lidar.ErrDeviceLost)
	}

	d.mu.Lock()
	scanning := d.scanning
	opts := d.opts
	d.fetches++
	fetches := d.fetches
	frames := d.frames
	start := d.start
	d.mu.Unlock()

	if !scanning {
		return nil, fmt.Errorf("%w: scan not started", lidar.ErrDeviceLost)
	}
	if d.LoseAfter > 0 && frames >= d.LoseAfter {
		return nil, fmt.Errorf("%w: %s stopped responding", lidar.ErrDeviceLost, opts.SerialPort)
	}
	if d.DropEvery > 0 && fetches%d.DropEvery == 0 {
		return nil, lidar.ErrNoData
	}

	if d.Realtime {
		if err := d.pace(ctx, opts.ScanFrequency); err != nil {
			return nil, err
		}
	}

	stamp := d.now()
	frame := &lidar.Frame{
		Stamp:         stamp,
		ScanFrequency: opts.ScanFrequency,
		Samples:       d.sweep(opts, stamp.Sub(start)),
	}

	d.mu.Lock()
	d.frames++
	d.last = stamp
	d.mu.Unlock()
	return frame, nil
}

// pace blocks until one scan period has passed since the previous frame.
func (d *Driver) pace(ctx context.Context, hz float64) error {
	d.mu.Lock()
	last := d.last
	d.mu.Unlock()
	if last.IsZero() || hz <= 0 {
		return nil
	}

	period := time.Duration(float64(time.Second) / hz)
	wait := period - d.now().Sub(last)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// StopScanning stops the simulated motor.
func (d *Driver) StopScanning() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return errNotConnected
	}
	d.scanning = false
	return nil
}

// Disconnect releases the simulated device. It is safe to call when not
// connected.
func (d *Driver) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.scanning = false
	d.connected = false
	return nil
}

// Frames returns the number of frames delivered since Initialize.
func (d *Driver) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

func (d *Driver) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// sweep returns the samples of one revolution at elapsed time t since the
// scan started. The sample count follows the sample rate (kHz) divided by the
// scan frequency.
func (d *Driver) sweep(opts lidar.Options, t time.Duration) []lidar.Sample {
	n := 360
	if opts.SampleRate > 0 && opts.ScanFrequency > 0 {
		n = int(math.Round(float64(opts.SampleRate) * 1000 / opts.ScanFrequency))
	}

	noise := distuv.Normal{Mu: 0, Sigma: d.NoiseSigma, Src: d.src}
	coin := distuv.Uniform{Min: 0, Max: 1, Src: d.src}

	maxIntensity := 0.0
	if opts.Intensity {
		maxIntensity = float64(int(1)<<uint(opts.IntensityBits) - 1)
	}

	minAngle := lidar.DegToRad(opts.MinAngle)
	maxAngle := lidar.DegToRad(opts.MaxAngle)

	post := d.postCentre(t)
	step := 2 * math.Pi / float64(n)
	samples := make([]lidar.Sample, 0, n)
	for i := 0; i < n; i++ {
		angle := -math.Pi + float64(i)*step
		if angle < minAngle || angle > maxAngle {
			continue
		}

		r := d.rayRange(angle, post)
		if d.NoiseSigma > 0 {
			r += noise.Rand()
		}
		if d.Dropout > 0 && coin.Rand() < d.Dropout {
			r = 0
		}
		if r < opts.MinRange || r > opts.MaxRange {
			r = 0
		}

		reported := angle
		if opts.Inverted {
			reported = -reported
		}
		if opts.Reversion {
			reported = wrapAngle(reported + math.Pi)
		}

		s := lidar.Sample{Range: r, Angle: reported}
		if r > 0 && opts.MaxRange > 0 {
			s.Intensity = math.Round(maxIntensity * (1 - r/opts.MaxRange))
		}
		samples = append(samples, s)
	}
	return samples
}

// rayRange returns the distance from the origin along angle to the first
// surface of the room or the post.
func (d *Driver) rayRange(angle float64, post r2.Vec) float64 {
	u := lidar.PolarToCartesian(1, angle)
	c, s := u.X, u.Y

	wall := math.Inf(1)
	if c != 0 {
		wall = math.Min(wall, d.Room.HalfWidth/math.Abs(c))
	}
	if s != 0 {
		wall = math.Min(wall, d.Room.HalfDepth/math.Abs(s))
	}

	// Ray-circle intersection: |t*u - p|^2 = R^2.
	b := r2.Dot(u, post)
	disc := b*b - r2.Norm2(post) + d.Room.PostRadius*d.Room.PostRadius
	if d.Room.PostRadius > 0 && disc >= 0 {
		if hit := b - math.Sqrt(disc); hit > 0 && hit < wall {
			return hit
		}
	}
	return wall
}

func (d *Driver) postCentre(t time.Duration) r2.Vec {
	phase := 0.0
	if d.Room.PostPeriod > 0 {
		phase = 2 * math.Pi * float64(t) / float64(d.Room.PostPeriod)
	}
	return lidar.PolarToCartesian(d.Room.PostOrbit, phase)
}

func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
