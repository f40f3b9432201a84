// Package dsp holds the signal smoothing used by the density tools.
package dsp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SavitzkyGolay smooths y by least-squares fitting a polynomial of the
// given order within a sliding window of odd size. Edges are handled by
// reflecting the signal around its end values, so the output has the same
// length as the input.
func SavitzkyGolay(y []float64, window, order int) ([]float64, error) {
	w, err := Coefficients(window, order, 0)
	if err != nil {
		return nil, err
	}
	half := window / 2
	if len(y) <= half {
		return nil, fmt.Errorf("input of length %d is too short for window %d", len(y), window)
	}
	padded := make([]float64, 0, len(y)+2*half)
	for i := half; i >= 1; i-- {
		padded = append(padded, 2*y[0]-y[i])
	}
	padded = append(padded, y...)
	last := len(y) - 1
	for i := 1; i <= half; i++ {
		padded = append(padded, 2*y[last]-y[last-i])
	}
	out := make([]float64, len(y))
	for i := range out {
		var s float64
		for k, wk := range w {
			s += wk * padded[i+k]
		}
		out[i] = s
	}
	return out, nil
}

// Coefficients returns the convolution weights of a Savitzky-Golay filter
// for the given odd window size, polynomial order, and derivative. The
// weights are the relevant row of the pseudo-inverse of the Vandermonde
// design matrix over the window.
func Coefficients(window, order, deriv int) ([]float64, error) {
	if window < 1 || window%2 == 0 {
		return nil, fmt.Errorf("window size must be a positive odd number, got %d", window)
	}
	if order < 0 {
		return nil, fmt.Errorf("polynomial order must be non-negative, got %d", order)
	}
	if window < order+2 {
		return nil, fmt.Errorf("window size %d is too small for polynomial order %d", window, order)
	}
	if deriv < 0 || deriv > order {
		return nil, fmt.Errorf("derivative %d out of range for order %d", deriv, order)
	}
	half := window / 2
	a := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		x := float64(i - half)
		p := 1.0
		for j := 0; j <= order; j++ {
			a.Set(i, j, p)
			p *= x
		}
	}
	var ata mat.Dense
	ata.Mul(a.T(), a)
	var inv mat.Dense
	if err := inv.Inverse(&ata); err != nil {
		return nil, fmt.Errorf("singular design matrix: %w", err)
	}
	var pinv mat.Dense
	pinv.Mul(&inv, a.T())
	w := mat.Row(nil, deriv, &pinv)
	scale := 1.0
	for i := 2; i <= deriv; i++ {
		scale *= float64(i)
	}
	if deriv > 0 {
		for i := range w {
			w[i] *= scale
		}
	}
	return w, nil
}
