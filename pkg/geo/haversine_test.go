package geo

import (
	"math"
	"testing"
)

func TestDistanceKmZeroAtOrigin(t *testing.T) {
	if d := DistanceKm(0, 0, 0, 0); d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
}

func TestDistanceKmZeroAtIdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{12.9716, 77.5946},
		{40.7128, -74.006},
		{-33.8688, 151.2093},
		{90, 0},
	}
	for _, p := range points {
		if d := DistanceKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Fatalf("distance from (%v,%v) to itself = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := DistanceKm(12.97, 77.59, 40.71, -74.00)
	b := DistanceKm(40.71, -74.00, 12.97, 77.59)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestDistanceKmKnownPairs(t *testing.T) {
	// Two points in Bengaluru roughly 1.5 km apart.
	near := DistanceKm(12.97, 77.59, 12.98, 77.60)
	if near < 1 || near > 2 {
		t.Fatalf("expected ~1.5 km, got %v", near)
	}

	// Bengaluru to New York is an ocean away.
	far := DistanceKm(12.97, 77.59, 40.71, -74.00)
	if far < 10000 {
		t.Fatalf("expected intercontinental distance, got %v", far)
	}
}
