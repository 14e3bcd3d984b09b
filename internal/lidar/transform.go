package lidar

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// PolarToCartesian converts a range (metres) and angle (radians) into
// sensor-frame Cartesian coordinates.
// Coordinate convention: X=forward (angle 0), Y=left (counter-clockwise).
func PolarToCartesian(rangeM, angleRad float64) r2.Vec {
	return r2.Vec{
		X: rangeM * math.Cos(angleRad),
		Y: rangeM * math.Sin(angleRad),
	}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
