package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// realRootImagTolerance classifies an eigenvalue as a real root.
const realRootImagTolerance = 1e-7

// solvePolynomial decomposes the cash-flow series into the roots of the
// discount-factor polynomial
//
//	p(v) = sum_t cf_t * v^t, with v = 1/(1+r),
//
// via the eigenvalues of the companion matrix, and selects the smallest
// positive real rate as the canonical IRR. This covers series where the
// bracketing strategy finds no sign change (no root in the domain, or an
// even-multiplicity root).
func solvePolynomial(cashflows []float64) (float64, bool) {
	// Trim trailing zero coefficients so the leading term is nonzero.
	coeffs := append([]float64(nil), cashflows...)
	n := len(coeffs) - 1
	for n > 0 && coeffs[n] == 0 {
		n--
	}
	if n < 1 {
		return 0, false
	}
	coeffs = coeffs[:n+1]

	// Companion matrix of the monic polynomial v^n + a_{n-1} v^{n-1} + ... + a_0.
	c := mat.NewDense(n, n, nil)
	for i := 1; i < n; i++ {
		c.Set(i, i-1, 1)
	}
	for i := 0; i < n; i++ {
		c.Set(i, n-1, -coeffs[i]/coeffs[n])
	}

	var eig mat.Eigen
	if ok := eig.Factorize(c, mat.EigenNone); !ok {
		return 0, false
	}

	found := false
	best := math.Inf(1)
	for _, v := range eig.Values(nil) {
		if math.Abs(imag(v)) > realRootImagTolerance {
			continue
		}
		re := real(v)
		if re <= 0 {
			// v = 1/(1+r) must be positive for a real discounting rate.
			continue
		}
		r := 1/re - 1
		if r > 0 && r < best {
			best = r
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return best, true
}
