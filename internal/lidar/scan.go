package lidar

import (
	"math"
	"time"
)

// Sample is one range/angle reading within a scan frame. A Range of zero or
// less marks a sample with no return; non-finite readings are discarded too.
type Sample struct {
	Range     float64 // metres
	Angle     float64 // radians, counter-clockwise from the sensor's forward axis
	Intensity float64
}

// Valid reports whether the sample carries a usable return.
func (s Sample) Valid() bool {
	return s.Range > 0 && !math.IsInf(s.Range, 0) &&
		!math.IsNaN(s.Angle) && !math.IsInf(s.Angle, 0)
}

// Frame is one complete sweep's worth of samples returned by a single
// acquisition call. Frames are not reused between calls.
type Frame struct {
	Stamp         time.Time
	ScanFrequency float64 // Hz, as reported by the driver; zero when unknown
	Samples       []Sample
}

// ValidCount returns the number of samples that carry a return.
func (f *Frame) ValidCount() int {
	if f == nil {
		return 0
	}
	n := 0
	for _, s := range f.Samples {
		if s.Valid() {
			n++
		}
	}
	return n
}
