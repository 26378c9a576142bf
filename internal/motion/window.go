package motion

import (
	"math"

	"route-diary/internal/sensor"
)

const (
	DefaultWindowSize = 50
	DefaultMinSamples = 10
)

// Window holds the most recent inertial samples of one tracking session.
// It is owned by the engine's run loop and is not safe for concurrent use.
type Window struct {
	capacity int
	samples  []sensor.MotionSample
}

func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultWindowSize
	}
	return &Window{
		capacity: capacity,
		samples:  make([]sensor.MotionSample, 0, capacity),
	}
}

// Append adds a sample, evicting the oldest one once the window is full.
func (w *Window) Append(s sensor.MotionSample) {
	if len(w.samples) == w.capacity {
		copy(w.samples, w.samples[1:])
		w.samples[len(w.samples)-1] = s
		return
	}
	w.samples = append(w.samples, s)
}

func (w *Window) Len() int { return len(w.samples) }

func (w *Window) Clear() { w.samples = w.samples[:0] }

// Features summarizes the acceleration magnitudes in the window. The
// booleans stay false until minSamples readings have accumulated, which
// makes the classifier fall back to its speed-only table.
type Features struct {
	SampleCount       int     `json:"sample_count"`
	AvgMagnitude      float64 `json:"avg_magnitude"`
	VarMagnitude      float64 `json:"var_magnitude"`
	IsWalking         bool    `json:"is_walking"`
	IsCycling         bool    `json:"is_cycling"`
	IsVehicleWithStop bool    `json:"is_vehicle_with_stop"`
	IsSmoothVehicle   bool    `json:"is_smooth_vehicle"`
}

// Extract computes the feature summary over the current window contents.
func (w *Window) Extract(minSamples int) Features {
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}

	f := Features{SampleCount: len(w.samples)}
	if len(w.samples) < minSamples {
		return f
	}

	magnitudes := make([]float64, len(w.samples))
	var sum float64
	for i, s := range w.samples {
		m := math.Sqrt(s.AccelX*s.AccelX + s.AccelY*s.AccelY + s.AccelZ*s.AccelZ)
		magnitudes[i] = m
		sum += m
	}
	avg := sum / float64(len(magnitudes))

	var sqDiff float64
	for _, m := range magnitudes {
		sqDiff += (m - avg) * (m - avg)
	}
	variance := sqDiff / float64(len(magnitudes))

	f.AvgMagnitude = avg
	f.VarMagnitude = variance
	f.IsWalking = avg > 1 && avg < 3 && variance > 0.5
	f.IsCycling = avg > 0.5 && avg < 2 && variance < 0.3
	f.IsVehicleWithStop = variance > 1 && avg > 0.8
	f.IsSmoothVehicle = variance < 0.2 && avg < 1
	return f
}
