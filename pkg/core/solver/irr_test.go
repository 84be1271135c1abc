package solver

import (
	"math"
	"testing"
)

func TestNPVZeroRateIsSum(t *testing.T) {
	// At rate 0 the NPV is the plain sum: -100 + 30 + 40 + 50 = 20.
	cf := []float64{-100, 30, 40, 50}
	got := NPV(0, cf)
	if got != 20 {
		t.Errorf("Expected NPV 20 at rate 0, got %f", got)
	}
}

func TestNPVDiscounting(t *testing.T) {
	// NPV(0.10, [-100, 110]) = -100 + 110/1.1 = -100 + 100 = 0.
	got := NPV(0.10, []float64{-100, 110})
	if math.Abs(got) > 1e-9 {
		t.Errorf("Expected NPV 0 at the exact rate, got %e", got)
	}

	// NPV(0.05, [-100, 110]) = -100 + 110/1.05 = 4.761905.
	got = NPV(0.05, []float64{-100, 110})
	if math.Abs(got-4.7619047619) > 1e-6 {
		t.Errorf("Expected NPV 4.761905, got %f", got)
	}
}

func TestIRRSinglePeriod(t *testing.T) {
	// -100 today, 110 in a year: the rate is exactly 10%.
	res, err := IRR([]float64{-100, 110})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !res.Converged {
		t.Fatalf("Expected convergence, got message %q", res.Message)
	}
	if math.Abs(res.Rate-0.10) > 1e-6 {
		t.Errorf("Expected rate 0.10, got %f", res.Rate)
	}
	if res.Method != "brent" {
		t.Errorf("Expected the bracketing strategy, got %q", res.Method)
	}
}

func TestIRRTwoPeriod(t *testing.T) {
	// -100 + 60v + 60v^2 = 0 with v = 1/(1+r).
	// 60v^2 + 60v - 100 = 0 => v = (-3 + sqrt(69)) / 6 = 0.884437,
	// so r = 1/v - 1 = 0.130662.
	res, err := IRR([]float64{-100, 60, 60})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !res.Converged {
		t.Fatalf("Expected convergence, got message %q", res.Message)
	}
	v := (-3 + math.Sqrt(69)) / 6
	want := 1/v - 1
	if math.Abs(res.Rate-want) > 1e-6 {
		t.Errorf("Expected rate %f, got %f", want, res.Rate)
	}
	if math.Abs(res.NPVCheck) > npvCheckTolerance {
		t.Errorf("Expected residual NPV within tolerance, got %e", res.NPVCheck)
	}
}

func TestIRRAllPositiveDoesNotConverge(t *testing.T) {
	// No sign change and no positive discount-factor root: there is no IRR.
	// That is data, not an error.
	res, err := IRR([]float64{100, 50, 50})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Converged {
		t.Errorf("Expected Converged=false for an all-positive series, got rate %f", res.Rate)
	}
	if res.Message == "" {
		t.Errorf("Expected a diagnostic message on non-convergence")
	}
}

func TestIRRMalformedInput(t *testing.T) {
	if _, err := IRR(nil); err == nil {
		t.Errorf("Expected an error for an empty series")
	}
	if _, err := IRR([]float64{0, 0, 0}); err == nil {
		t.Errorf("Expected an error for an all-zero series")
	}
}

func TestPolynomialFallbackDoubleRoot(t *testing.T) {
	// p(v) = -1 + 2.2v - 1.21v^2 = -1.21 (v - 1/1.1)^2: a double root at
	// v = 1/1.1, so NPV never changes sign and bracketing finds nothing.
	// The companion-matrix decomposition still recovers r = 0.10.
	if r, ok := solveBracketed([]float64{-1, 2.2, -1.21}); ok {
		// A grid point landing exactly on the root is acceptable too.
		if math.Abs(r-0.10) > 1e-6 {
			t.Fatalf("Bracketing returned an unexpected root %f", r)
		}
	}

	r, ok := solvePolynomial([]float64{-1, 2.2, -1.21})
	if !ok {
		t.Fatalf("Expected the polynomial strategy to find the double root")
	}
	if math.Abs(r-0.10) > 1e-6 {
		t.Errorf("Expected rate 0.10, got %f", r)
	}
}

func TestPolynomialSmallestPositiveRate(t *testing.T) {
	// -10 + 21v - 10.8v^2 = -10.8 (v - 5/6)(v - 10/9): roots at v = 5/6
	// (r = 0.20) and v = 10/9 (r = -0.10). Only the positive rate counts.
	r, ok := solvePolynomial([]float64{-10, 21, -10.8})
	if !ok {
		t.Fatalf("Expected the polynomial strategy to converge")
	}
	if math.Abs(r-0.20) > 1e-6 {
		t.Errorf("Expected the smallest positive rate 0.20, got %f", r)
	}
}

func TestPolynomialTrailingZeros(t *testing.T) {
	// Trailing zero flows must not degenerate the companion matrix.
	r, ok := solvePolynomial([]float64{-100, 110, 0, 0})
	if !ok {
		t.Fatalf("Expected convergence after trimming trailing zeros")
	}
	if math.Abs(r-0.10) > 1e-6 {
		t.Errorf("Expected rate 0.10, got %f", r)
	}
}
