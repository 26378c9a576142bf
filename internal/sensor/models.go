package sensor

import "time"

// GeoSample is one position fix from a device's location provider.
type GeoSample struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	AccuracyM  float64   `json:"accuracy_m"`
	RecordedAt time.Time `json:"recorded_at"`
}

// MotionSample is one inertial reading: accelerometer (m/s²) plus
// device rotation rate (deg/s).
type MotionSample struct {
	AccelX     float64   `json:"accel_x"`
	AccelY     float64   `json:"accel_y"`
	AccelZ     float64   `json:"accel_z"`
	RotAlpha   float64   `json:"rot_alpha"`
	RotBeta    float64   `json:"rot_beta"`
	RotGamma   float64   `json:"rot_gamma"`
	RecordedAt time.Time `json:"recorded_at"`
}

// WatchOptions mirror the knobs of a continuous-location watch.
type WatchOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxAge       time.Duration
}

func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		HighAccuracy: true,
		Timeout:      10 * time.Second,
		MaxAge:       0,
	}
}
