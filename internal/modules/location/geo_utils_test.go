package location

import (
	"math"
	"testing"

	"freight/internal/types"
)

func TestFlatKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name   string
		a, b   types.Point
		wantKm float64
	}{
		{
			name:   "same point",
			a:      types.Point{Lat: 41.3, Lng: 69.2},
			b:      types.Point{Lat: 41.3, Lng: 69.2},
			wantKm: 0,
		},
		{
			name:   "one degree of latitude",
			a:      types.Point{Lat: 41, Lng: 69},
			b:      types.Point{Lat: 42, Lng: 69},
			wantKm: 111,
		},
		{
			name:   "3-4-5 triangle",
			a:      types.Point{Lat: 0, Lng: 0},
			b:      types.Point{Lat: 0.3, Lng: 0.4},
			wantKm: 55.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlatKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > 1e-9 {
				t.Errorf("FlatKm() = %f, want %f", got, tt.wantKm)
			}
		})
	}
}

func TestFlatKm_Symmetry(t *testing.T) {
	a := types.Point{Lat: 39.65, Lng: 66.96}
	b := types.Point{Lat: 41.31, Lng: 69.28}
	if d1, d2 := FlatKm(a, b), FlatKm(b, a); d1 != d2 {
		t.Errorf("FlatKm is not symmetric: %f vs %f", d1, d2)
	}
}

func TestFlatKm_NaNPropagates(t *testing.T) {
	got := FlatKm(types.Point{Lat: math.NaN(), Lng: 1}, types.Point{})
	if !math.IsNaN(got) {
		t.Errorf("FlatKm with NaN input = %f, want NaN", got)
	}
}
