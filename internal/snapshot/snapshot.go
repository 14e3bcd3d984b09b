// Package snapshot captures a single scan frame and writes it to disk as a
// scatter plot, an interactive HTML chart or the rendered viewer canvas.
package snapshot

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/banshee-data/lidarview/internal/lidar"
	"github.com/banshee-data/lidarview/internal/monitoring"
)

// Format selects the snapshot encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts png, html or jpeg (jpg is an alias). An empty value
// is inferred from the extension of path.
func ParseFormat(s, path string) (Format, error) {
	if s == "" {
		s = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	switch strings.ToLower(s) {
	case "png":
		return FormatPNG, nil
	case "html", "htm":
		return FormatHTML, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "":
		return "", errors.Errorf("cannot infer snapshot format from %q", path)
	default:
		return "", errors.Errorf("unknown snapshot format %q: want png, html or jpeg", s)
	}
}

// Capture configures and starts the device, fetches one frame and releases
// the device again. Up to attempts fetches returning lidar.ErrNoData are
// retried with delay between them.
func Capture(ctx context.Context, d lidar.Driver, opts lidar.Options, attempts int, delay time.Duration) (frame *lidar.Frame, err error) {
	if attempts <= 0 {
		attempts = 1
	}

	if err := d.Configure(opts); err != nil {
		return nil, multierr.Append(errors.Wrap(err, "failed to configure LiDAR"), d.Disconnect())
	}
	if err := d.Initialize(ctx); err != nil {
		return nil, multierr.Append(errors.Wrap(err, "failed to initialize LiDAR"), d.Disconnect())
	}
	if err := d.StartScanning(ctx); err != nil {
		return nil, multierr.Append(errors.Wrap(err, "failed to start scanning"), d.Disconnect())
	}
	defer func() {
		if serr := d.StopScanning(); serr != nil {
			err = multierr.Append(err, errors.Wrap(serr, "failed to stop scanning"))
		}
		if derr := d.Disconnect(); derr != nil {
			err = multierr.Append(err, errors.Wrap(derr, "failed to disconnect LiDAR"))
		}
	}()

	for i := 1; ; i++ {
		frame, err = d.FetchFrame(ctx)
		if err == nil {
			monitoring.Logger.WithField("samples", len(frame.Samples)).Debug("Captured snapshot frame")
			return frame, nil
		}
		if !lidar.IsRetryable(err) || i >= attempts {
			return nil, errors.Wrapf(err, "failed to capture frame after %d attempt(s)", i)
		}
		monitoring.Logger.WithField("attempt", i).Warn("Failed to get LiDAR data")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// extent returns the half-width of a square that holds every valid sample,
// rounded up to a whole metre and never below one.
func extent(f *lidar.Frame) float64 {
	pad := 1.0
	for _, s := range f.Samples {
		if s.Valid() && s.Range > pad {
			pad = s.Range
		}
	}
	return math.Ceil(pad)
}

func subtitle(f *lidar.Frame) string {
	return fmt.Sprintf("points=%d/%d freq=%.1fHz %s",
		f.ValidCount(), len(f.Samples), f.ScanFrequency, f.Stamp.UTC().Format(time.RFC3339))
}
