package stream

import (
	"encoding/json"
	"testing"
	"time"

	"route-diary/internal/sensor"
	"route-diary/internal/trips"
)

func TestPositionEvent(t *testing.T) {
	at := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	raw := PositionEvent(sensor.GeoSample{Lat: -6.2, Lng: 106.8, RecordedAt: at})

	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != "position" {
		t.Fatalf("unexpected type %q", ev.Type)
	}
	var pos positionPayload
	if err := json.Unmarshal(ev.Data, &pos); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if pos.Lat != -6.2 || pos.Lng != 106.8 || !pos.RecordedAt.Equal(at) {
		t.Fatalf("unexpected payload %+v", pos)
	}
}

func TestTripEvent(t *testing.T) {
	trip := trips.DetectedTrip{ID: "trip-1", Mode: "walk", DistanceKm: 1.2}
	raw := TripEvent(trip)

	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != "trip_detected" {
		t.Fatalf("unexpected type %q", ev.Type)
	}
	var got trips.DetectedTrip
	if err := json.Unmarshal(ev.Data, &got); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if got.ID != "trip-1" || got.Mode != "walk" {
		t.Fatalf("unexpected trip %+v", got)
	}
}
