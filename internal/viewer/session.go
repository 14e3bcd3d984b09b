package viewer

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/banshee-data/lidarview/internal/display"
	"github.com/banshee-data/lidarview/internal/lidar"
	"github.com/banshee-data/lidarview/internal/monitoring"
)

// SurfaceOpener creates the display surface once the device is scanning.
type SurfaceOpener func(ctx context.Context, session uuid.UUID) (display.Surface, error)

// Session drives one device from configuration to disconnect.
type Session struct {
	ID      uuid.UUID
	Driver  lidar.Driver
	Runtime lidar.Runtime
	Options lidar.Options
	Open    SurfaceOpener
	Settings

	// Out receives the operator banners. Defaults to io.Discard.
	Out io.Writer

	// Sleep is passed to the Loop.
	Sleep func(ctx context.Context, d time.Duration) error

	state atomic.Int32
	loop  *Loop
}

// NewSession returns an idle Session with default settings and a fresh ID.
func NewSession(driver lidar.Driver, rt lidar.Runtime, opts lidar.Options, open SurfaceOpener) *Session {
	return &Session{
		ID:       uuid.New(),
		Driver:   driver,
		Runtime:  rt,
		Options:  opts,
		Open:     open,
		Settings: DefaultSettings(),
	}
}

// State reports the current lifecycle stage.
func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(st State) {
	old := State(s.state.Swap(int32(st)))
	s.log().WithFields(logrus.Fields{"from": old, "to": st}).Debug("Session state changed")
}

func (s *Session) log() logrus.FieldLogger {
	return monitoring.Logger.WithField("session", s.ID.String())
}

func (s *Session) banner(msg string) {
	if s.Out != nil {
		fmt.Fprintln(s.Out, msg)
	}
}

// Frames returns the number of frames shown by the loop.
func (s *Session) Frames() int {
	if s.loop == nil {
		return 0
	}
	return s.loop.Frames()
}

// Run configures and initializes the device, starts scanning, opens the
// surface and runs the loop. Once scanning has started, scanning is stopped,
// the device disconnected and the surface closed exactly once on every exit
// path, panics included. A failure before the loop disconnects the device
// and never opens the surface.
func (s *Session) Run(ctx context.Context) (reason ExitReason, err error) {
	s.setState(StateConfiguring)

	fields := logrus.Fields{}
	for _, p := range s.Options.Properties() {
		fields[p.Key] = p.Value
	}
	s.log().WithFields(fields).Debug("Configuring LiDAR")

	if err := s.Driver.Configure(s.Options); err != nil {
		return ExitFatal, s.abort(errors.Wrap(err, "failed to configure LiDAR"))
	}
	if err := s.Driver.Initialize(ctx); err != nil {
		return ExitFatal, s.abort(errors.Wrap(err, "failed to initialize LiDAR"))
	}
	s.setState(StateInitialized)

	if err := s.Driver.StartScanning(ctx); err != nil {
		return ExitFatal, s.abort(errors.Wrap(err, "failed to start scanning"))
	}
	s.setState(StateScanning)

	surface, err := s.Open(ctx, s.ID)
	if err != nil {
		openErr := errors.Wrap(err, "failed to open display")
		return ExitFatal, multierr.Append(openErr, s.shutdown(nil))
	}

	s.loop = &Loop{
		Driver:   s.Driver,
		Runtime:  s.Runtime,
		Surface:  surface,
		Settings: s.Settings,
		Sleep:    s.Sleep,
	}

	defer func() {
		if r := recover(); r != nil {
			s.log().WithField("stack", string(debug.Stack())).Error("Acquire-render loop panicked")
			reason = ExitFatal
			err = multierr.Append(err, errors.Errorf("acquire-render loop panicked: %v", r))
		}
		if reason == ExitInterrupted {
			s.banner("Program interrupted by user")
		}
		if cerr := s.shutdown(surface); cerr != nil {
			s.log().WithError(cerr).Warn("LiDAR shutdown incomplete")
			err = multierr.Append(err, cerr)
		}
		s.log().WithFields(logrus.Fields{
			"reason":  reason.String(),
			"frames":  s.Frames(),
			"retries": s.loop.Retries(),
		}).Info("Visualization stopped")
	}()

	s.banner("Starting LiDAR visualization. Press ESC to exit.")
	return s.loop.Run(ctx)
}

// abort disconnects a device that failed before scanning.
func (s *Session) abort(cause error) error {
	s.setState(StateShuttingDown)
	if err := s.Driver.Disconnect(); err != nil {
		cause = multierr.Append(cause, errors.Wrap(err, "failed to disconnect LiDAR"))
	}
	s.setState(StateDisconnected)
	return cause
}

// shutdown stops scanning, disconnects the device and closes surface, if any.
func (s *Session) shutdown(surface display.Surface) error {
	s.setState(StateShuttingDown)
	s.banner("Turning off LiDAR...")

	var errs error
	if err := s.Driver.StopScanning(); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "failed to stop scanning"))
	}
	if err := s.Driver.Disconnect(); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "failed to disconnect LiDAR"))
	}
	if surface != nil {
		if err := surface.Close(); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "failed to close display"))
		}
	}

	s.setState(StateDisconnected)
	s.banner("LiDAR disconnected. Program exited.")
	return errs
}
