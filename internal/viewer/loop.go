// Package viewer runs the acquire-render loop: it pulls scan frames from a
// LiDAR driver, renders them and presents them on a display surface until
// the operator, the driver runtime or a fault ends the session.
package viewer

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/banshee-data/lidarview/internal/display"
	"github.com/banshee-data/lidarview/internal/lidar"
	"github.com/banshee-data/lidarview/internal/monitoring"
	"github.com/banshee-data/lidarview/internal/render"
)

const (
	DefaultRetryDelay = 50 * time.Millisecond
	DefaultKeyPoll    = 10 * time.Millisecond
)

// ErrTooManyFailures is returned when MaxConsecutiveFailures retryable
// fetch failures happen in a row.
var ErrTooManyFailures = errors.New("too many consecutive acquisition failures")

// Settings tunes the loop.
type Settings struct {
	Renderer render.Renderer

	// RetryDelay is the pause after a fetch that returned no data.
	RetryDelay time.Duration

	// KeyPoll is how long each iteration waits for a key. It also paces
	// the loop.
	KeyPoll time.Duration

	// MaxConsecutiveFailures turns a run of retryable fetch failures into a
	// fatal error. Zero retries forever.
	MaxConsecutiveFailures int
}

// DefaultSettings returns an 800 px window at 50 px/m, 50 ms retry delay and
// 10 ms key poll.
func DefaultSettings() Settings {
	return Settings{
		Renderer:   render.NewRenderer(),
		RetryDelay: DefaultRetryDelay,
		KeyPoll:    DefaultKeyPoll,
	}
}

// Loop is one acquire-render loop over an initialized, scanning driver. It
// does not own the driver or the surface.
type Loop struct {
	Driver  lidar.Driver
	Runtime lidar.Runtime
	Surface display.Surface
	Settings

	// Sleep waits between retries. Defaults to a context-aware sleep.
	Sleep func(ctx context.Context, d time.Duration) error

	frames  int
	retries int
}

// Run iterates until an exit condition. The error is non-nil only for
// ExitFatal.
func (l *Loop) Run(ctx context.Context) (ExitReason, error) {
	sleep := l.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	failures := 0
	for {
		if ctx.Err() != nil {
			return ExitInterrupted, nil
		}
		if !l.Runtime.OK() {
			return ExitRuntimeStopped, nil
		}

		frame, err := l.Driver.FetchFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ExitInterrupted, nil
			}
			if !lidar.IsRetryable(err) {
				return ExitFatal, errors.Wrap(err, "failed to fetch scan frame")
			}

			failures++
			l.retries++
			monitoring.Logger.WithField("consecutive", failures).Warn("Failed to get LiDAR data")
			if l.MaxConsecutiveFailures > 0 && failures >= l.MaxConsecutiveFailures {
				return ExitFatal, errors.Wrapf(ErrTooManyFailures, "%d in a row", failures)
			}
			if err := sleep(ctx, l.RetryDelay); err != nil {
				return ExitInterrupted, nil
			}
			continue
		}
		failures = 0

		canvas, _ := l.Renderer.Render(frame)
		if err := l.Surface.Show(canvas.Image()); err != nil {
			return ExitFatal, errors.Wrap(err, "failed to show frame")
		}
		l.frames++

		if key, ok := l.Surface.PollKey(l.KeyPoll); ok && key == display.KeyEscape {
			return ExitKey, nil
		}
	}
}

// Frames returns the number of frames shown so far.
func (l *Loop) Frames() int { return l.frames }

// Retries returns the number of retryable fetch failures so far.
func (l *Loop) Retries() int { return l.retries }

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
