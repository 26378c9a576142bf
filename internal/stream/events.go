package stream

import (
	"encoding/json"
	"time"

	"route-diary/internal/sensor"
	"route-diary/internal/trips"
)

// Event is the wire envelope pushed to websocket subscribers.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type positionPayload struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}

func PositionEvent(s sensor.GeoSample) []byte {
	return envelope("position", positionPayload{Lat: s.Lat, Lng: s.Lng, RecordedAt: s.RecordedAt})
}

func TripEvent(trip trips.DetectedTrip) []byte {
	return envelope("trip_detected", trip)
}

func envelope(eventType string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	out, err := json.Marshal(Event{Type: eventType, Data: raw})
	if err != nil {
		return nil
	}
	return out
}
