package tracking

import (
	"time"

	"route-diary/internal/sensor"
)

// GeoSampleRequest is one position fix pushed by a device.
type GeoSampleRequest struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	AccuracyM  float64   `json:"accuracy_m"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (r GeoSampleRequest) Sample() sensor.GeoSample {
	at := r.RecordedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return sensor.GeoSample{Lat: r.Lat, Lng: r.Lng, AccuracyM: r.AccuracyM, RecordedAt: at}
}

// MotionSampleRequest is one inertial reading; devices push them in
// batches to keep request volume sane at sensor rates.
type MotionSampleRequest struct {
	AccelX     float64   `json:"accel_x"`
	AccelY     float64   `json:"accel_y"`
	AccelZ     float64   `json:"accel_z"`
	RotAlpha   float64   `json:"rot_alpha"`
	RotBeta    float64   `json:"rot_beta"`
	RotGamma   float64   `json:"rot_gamma"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (r MotionSampleRequest) Sample() sensor.MotionSample {
	at := r.RecordedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return sensor.MotionSample{
		AccelX: r.AccelX, AccelY: r.AccelY, AccelZ: r.AccelZ,
		RotAlpha: r.RotAlpha, RotBeta: r.RotBeta, RotGamma: r.RotGamma,
		RecordedAt: at,
	}
}

type MotionBatchRequest struct {
	Samples []MotionSampleRequest `json:"samples"`
}

// StatusResponse reports whether the caller's engine is tracking.
type StatusResponse struct {
	Tracking bool `json:"tracking"`
}
