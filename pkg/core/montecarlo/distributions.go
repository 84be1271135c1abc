package montecarlo

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution declares the uncertainty of one sampled parameter. The sampler
// binds it to the run's seeded source so that a fixed seed reproduces the
// draw sequence bit for bit.
type Distribution interface {
	sampler(src rand.Source) func() float64
	validate() error
}

// Triangular is a bounded triangular distribution with the given mode.
type Triangular struct {
	Min, Mode, Max float64
}

func (d Triangular) validate() error {
	if !(d.Min <= d.Mode && d.Mode <= d.Max && d.Min < d.Max) {
		return fmt.Errorf("montecarlo: triangular requires min <= mode <= max, got (%.4f, %.4f, %.4f)", d.Min, d.Mode, d.Max)
	}
	return nil
}

func (d Triangular) sampler(src rand.Source) func() float64 {
	t := distuv.NewTriangle(d.Min, d.Max, d.Mode, src)
	return t.Rand
}

// TruncNormal is a normal distribution truncated to [Min, Max] by rejection.
type TruncNormal struct {
	Mu, Sigma float64
	Min, Max  float64
}

func (d TruncNormal) validate() error {
	if d.Sigma <= 0 {
		return fmt.Errorf("montecarlo: truncated normal requires positive sigma, got %.4f", d.Sigma)
	}
	if d.Min >= d.Max {
		return fmt.Errorf("montecarlo: truncated normal requires min < max, got (%.4f, %.4f)", d.Min, d.Max)
	}
	return nil
}

func (d TruncNormal) sampler(src rand.Source) func() float64 {
	n := distuv.Normal{Mu: d.Mu, Sigma: d.Sigma, Src: src}
	return func() float64 {
		// Rejection keeps the draw unbiased inside the bounds; the cap only
		// guards against a pathological Mu far outside [Min, Max].
		for i := 0; i < 1000; i++ {
			v := n.Rand()
			if v >= d.Min && v <= d.Max {
				return v
			}
		}
		if n.Mu < d.Min {
			return d.Min
		}
		return d.Max
	}
}
