package classify

import (
	"time"

	"route-diary/internal/motion"
)

// Mode is the transport classification of a detected trip.
type Mode string

const (
	ModeWalk  Mode = "walk"
	ModeBike  Mode = "bike"
	ModeBus   Mode = "bus"
	ModeCar   Mode = "car"
	ModeTrain Mode = "train"
	ModeOther Mode = "other"
)

// AvgSpeedKmh converts a travelled distance and duration into km/h.
func AvgSpeedKmh(distanceM float64, elapsed time.Duration) float64 {
	sec := elapsed.Seconds()
	if sec <= 0 {
		return 0
	}
	return distanceM / sec * 3.6
}

// Classify assigns a transport mode from average speed and the motion
// signature of the trip's tail. Speed bands are checked lowest first; a
// band's lower edge is exclusive, so exactly 5 km/h lands in the 5-15
// band. With a neutral (under-filled) motion window every feature reads
// false and only the speed table decides.
func Classify(distanceM float64, elapsed time.Duration, f motion.Features) Mode {
	speed := AvgSpeedKmh(distanceM, elapsed)

	switch {
	case speed < 5:
		if f.IsWalking {
			return ModeWalk
		}
		return ModeOther
	case speed < 15:
		if f.IsCycling {
			return ModeBike
		}
		return ModeWalk
	case speed < 40:
		if f.IsVehicleWithStop {
			return ModeBus
		}
		return ModeCar
	case speed < 80:
		if f.IsSmoothVehicle {
			return ModeTrain
		}
		return ModeCar
	default:
		return ModeTrain
	}
}

// Valid reports whether m is one of the known transport modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeWalk, ModeBike, ModeBus, ModeCar, ModeTrain, ModeOther:
		return true
	}
	return false
}
