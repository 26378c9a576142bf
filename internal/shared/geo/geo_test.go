package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// Jakarta (-6.2, 106.816) to Bandung (-6.9175, 107.6191) ~ 115-120 km
	d := HaversineKm(-6.2, 106.816, -6.9175, 107.6191)
	if d < 100 || d > 140 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineZero(t *testing.T) {
	if d := HaversineKm(51.5, -0.12, 51.5, -0.12); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestHaversineMEquatorDegree(t *testing.T) {
	// 0.002 degrees of longitude at the equator is roughly 222 m.
	d := HaversineM(0, 0, 0, 0.002)
	if math.Abs(d-222) > 2 {
		t.Fatalf("unexpected distance: %v", d)
	}
}
