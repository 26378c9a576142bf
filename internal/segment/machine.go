package segment

import (
	"time"

	"route-diary/internal/sensor"
	"route-diary/internal/shared/geo"
)

// Thresholds control trip boundary detection. Distances are compared
// against the delta between consecutive samples, never against the
// cumulative trip distance: many small hops under the start threshold do
// not open a trip no matter how far they add up.
type Thresholds struct {
	StartDistanceM float64
	EndDistanceM   float64
	EndDwell       time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		StartDistanceM: 200,
		EndDistanceM:   10,
		EndDwell:       5 * time.Minute,
	}
}

// PathPoint is one waypoint of a trip.
type PathPoint struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Draft is a trip under construction between the detected start and end.
type Draft struct {
	Origin    sensor.GeoSample
	StartTime time.Time
	Path      []PathPoint
}

// Result is a closed draft: the raw material for classification.
type Result struct {
	Origin      sensor.GeoSample
	Destination sensor.GeoSample
	StartTime   time.Time
	EndTime     time.Time
	Path        []PathPoint
	DistanceKm  float64
}

// Machine segments a position stream into trips. It holds at most one
// draft and is driven from a single goroutine.
type Machine struct {
	thresholds Thresholds
	prev       *sensor.GeoSample
	draft      *Draft
}

func NewMachine(t Thresholds) *Machine {
	if t.StartDistanceM <= 0 || t.EndDistanceM <= 0 || t.EndDwell <= 0 {
		t = DefaultThresholds()
	}
	return &Machine{thresholds: t}
}

func (m *Machine) Active() bool { return m.draft != nil }

// Advance feeds the next position sample through the transition rules and
// returns a non-nil Result when a trip just closed. The sample always
// becomes the new reference point, including across a close.
func (m *Machine) Advance(p sensor.GeoSample) *Result {
	prev := m.prev
	m.prev = &p

	if prev == nil {
		return nil
	}

	distanceM := geo.HaversineM(prev.Lat, prev.Lng, p.Lat, p.Lng)
	dt := p.RecordedAt.Sub(prev.RecordedAt)

	if m.draft == nil {
		if distanceM > m.thresholds.StartDistanceM {
			m.draft = &Draft{
				Origin:    *prev,
				StartTime: prev.RecordedAt,
				Path: []PathPoint{
					{Lat: prev.Lat, Lng: prev.Lng, RecordedAt: prev.RecordedAt},
					{Lat: p.Lat, Lng: p.Lng, RecordedAt: p.RecordedAt},
				},
			}
		}
		return nil
	}

	if distanceM < m.thresholds.EndDistanceM && dt > m.thresholds.EndDwell {
		draft := m.draft
		m.draft = nil
		return &Result{
			Origin:      draft.Origin,
			Destination: p,
			StartTime:   draft.StartTime,
			EndTime:     p.RecordedAt,
			Path:        draft.Path,
			DistanceKm:  PathDistanceKm(draft.Path),
		}
	}

	m.draft.Path = append(m.draft.Path, PathPoint{Lat: p.Lat, Lng: p.Lng, RecordedAt: p.RecordedAt})
	return nil
}

// Reset discards the open draft and reference point, without finalizing
// anything. Used when tracking stops mid-trip.
func (m *Machine) Reset() {
	m.prev = nil
	m.draft = nil
}

// PathDistanceKm sums the haversine lengths of consecutive path segments.
func PathDistanceKm(path []PathPoint) float64 {
	var km float64
	for i := 1; i < len(path); i++ {
		km += geo.HaversineKm(path[i-1].Lat, path[i-1].Lng, path[i].Lat, path[i].Lng)
	}
	return km
}
