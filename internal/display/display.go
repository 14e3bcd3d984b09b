// Package display presents rendered frames to the operator and collects key
// presses. The window is a local web page streaming frames as MJPEG; keys
// arrive from the page and, when attached, from the raw terminal.
package display

import (
	"image"
	"time"
)

// Key is a key code as reported by the operator's input device.
type Key int

const (
	KeyCtrlC  Key = 3
	KeyEscape Key = 27
)

// Surface is where rendered frames are shown.
type Surface interface {
	// Show presents img, replacing the previous frame.
	Show(img image.Image) error

	// PollKey waits up to timeout for a key press. ok is false when no key
	// arrived in time.
	PollKey(timeout time.Duration) (key Key, ok bool)

	// Close releases the surface. Further calls are no-ops.
	Close() error
}

const (
	DefaultListen  = "127.0.0.1:8089"
	DefaultQuality = 80
	keyBuffer      = 16
)
