// Package solver provides the rate-of-return arithmetic shared by every
// analysis layer: NPV at an arbitrary discount rate and a robust IRR solve
// with a deterministic fallback chain.
package solver

import (
	"fmt"
	"math"
)

const (
	// Plausible IRR domain searched by the bracketing strategy: -50% to +500%.
	bracketLow  = -0.50
	bracketHigh = 5.00

	bracketScanSteps = 220
	brentTolerance   = 1e-12
	brentMaxIter     = 200

	// npvCheckTolerance is the residual NPV below which a candidate rate is
	// accepted as a root.
	npvCheckTolerance = 1e-6
)

// IRRResult is the outcome of an IRR solve. Non-convergence is data, not an
// error: callers must check Converged before trusting Rate.
type IRRResult struct {
	Rate      float64
	Converged bool
	Method    string  // which strategy produced the rate
	NPVCheck  float64 // residual NPV at Rate
	Message   string  // diagnostic when not converged
}

// NPV discounts the cash-flow series at the given rate, with the series'
// first element at t = 0. At rate zero it returns the exact unweighted sum.
func NPV(rate float64, cashflows []float64) float64 {
	if rate == 0 {
		sum := 0.0
		for _, cf := range cashflows {
			sum += cf
		}
		return sum
	}
	total := 0.0
	disc := 1.0
	for _, cf := range cashflows {
		total += cf / disc
		disc *= 1 + rate
	}
	return total
}

// IRR finds the rate zeroing the NPV of the series. Strategies run in a fixed
// order: a bracketed Brent solve over the plausible domain first, then a
// polynomial-root decomposition for series where no bracket exists (no root
// or multiple roots near each other). If neither converges the best grid
// candidate is returned with Converged false.
//
// The only error cases are malformed input: an empty or all-zero series.
func IRR(cashflows []float64) (IRRResult, error) {
	if len(cashflows) == 0 {
		return IRRResult{}, fmt.Errorf("IRR: empty cash-flow series")
	}
	allZero := true
	for _, cf := range cashflows {
		if cf != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return IRRResult{}, fmt.Errorf("IRR: all-zero cash-flow series")
	}

	strategies := []struct {
		name  string
		solve func([]float64) (float64, bool)
	}{
		{"brent", solveBracketed},
		{"polynomial", solvePolynomial},
	}
	for _, s := range strategies {
		rate, ok := s.solve(cashflows)
		if !ok {
			continue
		}
		check := NPV(rate, cashflows)
		if math.Abs(check) <= npvCheckTolerance {
			return IRRResult{Rate: rate, Converged: true, Method: s.name, NPVCheck: check}, nil
		}
	}

	best, residual := bestGridCandidate(cashflows)
	return IRRResult{
		Rate:     best,
		NPVCheck: residual,
		Message:  fmt.Sprintf("no strategy converged; best candidate %.6f with residual NPV %.3e", best, residual),
	}, nil
}

// -----------------------------------------------------------------------------
// Strategy 1: bracketed Brent
// -----------------------------------------------------------------------------

// solveBracketed scans the domain for a sign change and refines the bracket
// with Brent's method (inverse quadratic / secant with a bisection safeguard).
func solveBracketed(cashflows []float64) (float64, bool) {
	f := func(r float64) float64 { return NPV(r, cashflows) }

	step := (bracketHigh - bracketLow) / bracketScanSteps
	lo, flo := bracketLow, f(bracketLow)
	for i := 1; i <= bracketScanSteps; i++ {
		hi := bracketLow + float64(i)*step
		fhi := f(hi)
		if flo == 0 {
			return lo, true
		}
		if flo*fhi < 0 {
			return brent(f, lo, hi, flo, fhi)
		}
		lo, flo = hi, fhi
	}
	if flo == 0 {
		return lo, true
	}
	return 0, false
}

// brent is a textbook Brent root-finder on a bracketing interval [a, b].
func brent(f func(float64) float64, a, b, fa, fb float64) (float64, bool) {
	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}
	c, fc := a, fa
	d := b - a
	bisected := true

	for i := 0; i < brentMaxIter; i++ {
		if fb == 0 || math.Abs(b-a) < brentTolerance {
			return b, true
		}

		var s float64
		if fa != fc && fb != fc {
			// Inverse quadratic interpolation.
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// Secant.
			s = b - fb*(b-a)/(fb-fa)
		}

		lo, hi := (3*a+b)/4, b
		if lo > hi {
			lo, hi = hi, lo
		}
		useBisection := math.IsNaN(s) || s < lo || s > hi ||
			(bisected && math.Abs(s-b) >= math.Abs(b-c)/2) ||
			(!bisected && math.Abs(s-b) >= math.Abs(c-d)/2)
		if useBisection {
			s = (a + b) / 2
			bisected = true
		} else {
			bisected = false
		}

		fs := f(s)
		d, c, fc = c, b, fb
		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}
		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}
	return b, math.Abs(fb) <= npvCheckTolerance
}

// -----------------------------------------------------------------------------
// Best-effort candidate
// -----------------------------------------------------------------------------

// bestGridCandidate returns the grid rate with the smallest absolute NPV,
// reported alongside Converged=false when every strategy misses.
func bestGridCandidate(cashflows []float64) (float64, float64) {
	best, bestAbs := bracketLow, math.Inf(1)
	step := (bracketHigh - bracketLow) / bracketScanSteps
	for i := 0; i <= bracketScanSteps; i++ {
		r := bracketLow + float64(i)*step
		v := NPV(r, cashflows)
		if math.Abs(v) < bestAbs {
			best, bestAbs = r, math.Abs(v)
		}
	}
	return best, NPV(best, cashflows)
}
