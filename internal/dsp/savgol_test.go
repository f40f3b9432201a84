package dsp

import (
	"math"
	"testing"
)

func TestCoefficients_Validation(t *testing.T) {
	tests := []struct {
		name          string
		window, order int
		deriv         int
	}{
		{"even window", 4, 2, 0},
		{"negative window", -5, 2, 0},
		{"window too small for order", 3, 2, 0},
		{"negative order", 5, -1, 0},
		{"deriv beyond order", 5, 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Coefficients(tt.window, tt.order, tt.deriv); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCoefficients_SumToOne(t *testing.T) {
	w, err := Coefficients(7, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(w) != 7 {
		t.Fatalf("expected 7 weights, got %d", len(w))
	}
	var sum float64
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("weights sum to %g, want 1", sum)
	}
	// Smoothing weights are symmetric around the center.
	for i := 0; i < 3; i++ {
		if math.Abs(w[i]-w[6-i]) > 1e-12 {
			t.Errorf("weights not symmetric: w[%d]=%g w[%d]=%g", i, w[i], 6-i, w[6-i])
		}
	}
}

func TestSavitzkyGolay_PreservesLinear(t *testing.T) {
	y := make([]float64, 50)
	for i := range y {
		y[i] = 3*float64(i) - 7
	}
	s, err := SavitzkyGolay(y, 11, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != len(y) {
		t.Fatalf("length changed: %d -> %d", len(y), len(s))
	}
	// Reflection padding continues a linear signal exactly, so the
	// filter must reproduce it everywhere, including the edges.
	for i := range y {
		if math.Abs(s[i]-y[i]) > 1e-9 {
			t.Errorf("s[%d] = %g, want %g", i, s[i], y[i])
		}
	}
}

func TestSavitzkyGolay_PreservesQuadraticInterior(t *testing.T) {
	y := make([]float64, 60)
	for i := range y {
		x := float64(i)
		y[i] = 0.5*x*x - 2*x + 1
	}
	window := 9
	s, err := SavitzkyGolay(y, window, 2)
	if err != nil {
		t.Fatal(err)
	}
	half := window / 2
	for i := half; i < len(y)-half; i++ {
		if math.Abs(s[i]-y[i]) > 1e-6 {
			t.Errorf("s[%d] = %g, want %g", i, s[i], y[i])
		}
	}
}

func TestSavitzkyGolay_InputTooShort(t *testing.T) {
	if _, err := SavitzkyGolay([]float64{1, 2}, 11, 2); err == nil {
		t.Error("expected error for input shorter than half window")
	}
}
