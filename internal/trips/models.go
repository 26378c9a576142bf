package trips

import (
	"fmt"
	"time"

	"route-diary/internal/classify"
	"route-diary/internal/segment"
)

// Place is a named coordinate pair. Detected trips carry a coordinate
// label as the name until the user renames it in the confirmation flow.
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func PlaceAt(lat, lng float64) Place {
	return Place{
		Name: fmt.Sprintf("%.4f, %.4f", lat, lng),
		Lat:  lat,
		Lng:  lng,
	}
}

// DetectedTrip is a finalized, classified journey. Immutable once built.
type DetectedTrip struct {
	ID          string              `json:"id"`
	Origin      Place               `json:"origin"`
	Destination Place               `json:"destination"`
	StartTime   time.Time           `json:"start_time"`
	EndTime     time.Time           `json:"end_time"`
	DistanceKm  float64             `json:"distance_km"`
	Mode        classify.Mode       `json:"mode"`
	Path        []segment.PathPoint `json:"path"`
}

// DurationMinutes is the trip duration rounded to whole minutes, the
// granularity the stored record uses.
func (t DetectedTrip) DurationMinutes() int {
	return int(t.EndTime.Sub(t.StartTime).Round(time.Minute) / time.Minute)
}

// Record is the persisted shape of a detected trip. Purpose and companion
// are placeholders owned by the confirmation flow.
type Record struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	Origin          Place               `json:"origin"`
	Destination     Place               `json:"destination"`
	StartTime       time.Time           `json:"start_time"`
	EndTime         time.Time           `json:"end_time"`
	DistanceKm      float64             `json:"distance_km"`
	DurationMinutes int                 `json:"duration_minutes"`
	Mode            classify.Mode       `json:"mode"`
	Purpose         string              `json:"purpose"`
	Companion       string              `json:"companion"`
	IsAutoDetected  bool                `json:"is_auto_detected"`
	IsConfirmed     bool                `json:"is_confirmed"`
	Path            []segment.PathPoint `json:"path"`
	CreatedAt       time.Time           `json:"created_at"`
}

// NewRecord builds the stored record for a detected trip owned by userID.
func NewRecord(userID string, t DetectedTrip) Record {
	return Record{
		ID:              t.ID,
		UserID:          userID,
		Origin:          t.Origin,
		Destination:     t.Destination,
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		DistanceKm:      t.DistanceKm,
		DurationMinutes: t.DurationMinutes(),
		Mode:            t.Mode,
		Purpose:         "other",
		Companion:       "alone",
		IsAutoDetected:  true,
		IsConfirmed:     false,
		Path:            t.Path,
	}
}
