// Package montecarlo draws stochastic parameter scenarios and aggregates the
// scalar outputs of one full model build per scenario.
package montecarlo

import (
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"dutchbay_finance/pkg/core/model"
)

// Inputs declares the distribution of each uncertain parameter.
type Inputs struct {
	CapacityFactor Distribution
	FXDepreciation Distribution
	DebtRatio      Distribution
	HardRate       Distribution
	LocalRate      Distribution
}

// DefaultInputs mirrors the base-case uncertainty: a truncated normal around
// the P50 capacity factor and triangular ranges for the financing levers.
func DefaultInputs() Inputs {
	return Inputs{
		CapacityFactor: TruncNormal{Mu: 0.40, Sigma: 0.015, Min: 0.36, Max: 0.44},
		FXDepreciation: Triangular{Min: 0.03, Mode: 0.035, Max: 0.05},
		DebtRatio:      Triangular{Min: 0.50, Mode: 0.75, Max: 0.80},
		HardRate:       Triangular{Min: 0.065, Mode: 0.07, Max: 0.09},
		LocalRate:      Triangular{Min: 0.075, Mode: 0.08, Max: 0.09},
	}
}

// Config drives one simulation run.
type Config struct {
	Iterations int
	Seed       uint64
	Workers    int // parallel evaluations; defaults to GOMAXPROCS

	Params model.ProjectParameters
	Debt   model.DebtStructure // rate/tenor/method template for sized debt

	// Debt sized per trial: TotalDebt = capex x sampled ratio, split by the
	// fixed shares below.
	HardShare float64
	DFIShare  float64

	Draws Inputs
}

// DefaultConfig returns a runnable base-case simulation.
func DefaultConfig(iterations int, seed uint64) Config {
	return Config{
		Iterations: iterations,
		Seed:       seed,
		Params:     model.DefaultParameters(),
		Debt:       model.DefaultDebtStructure(),
		HardShare:  0.45,
		DFIShare:   0.10,
		Draws:      DefaultInputs(),
	}
}

// Trial is one row of the result table: the sampled inputs and the scalar
// aggregates of the resulting model build.
type Trial struct {
	Iteration int

	CapacityFactor float64
	FXDepreciation float64
	DebtRatio      float64
	HardRate       float64
	LocalRate      float64

	EquityIRR          float64
	EquityIRRConverged bool
	ProjectIRR         float64
	NPV                float64
	MinDSCR            float64
	MinDSCRDefined     bool
}

// Summary are the headline statistics over all trials.
type Summary struct {
	MeanEquityIRR float64
	StdEquityIRR  float64
	P10EquityIRR  float64
	P50EquityIRR  float64
	P90EquityIRR  float64
	MeanNPV       float64
	MeanMinDSCR   float64
}

// Table is the full simulation output. Trials are ordered by iteration
// regardless of evaluation order, so tables from equal (n, seed) compare
// equal field for field.
type Table struct {
	RunID  string
	Seed   uint64
	Trials []Trial
	Stats  Summary
}

// Run draws cfg.Iterations parameter scenarios and evaluates one independent
// model build per scenario. All randomness is consumed serially from a single
// seeded source before evaluation starts; the evaluations themselves are pure
// and run in parallel.
func Run(cfg Config) (*Table, error) {
	if cfg.Iterations <= 0 {
		return nil, fmt.Errorf("montecarlo: iterations must be positive, got %d", cfg.Iterations)
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Debt.Validate(); err != nil {
		return nil, err
	}
	for _, d := range []Distribution{
		cfg.Draws.CapacityFactor, cfg.Draws.FXDepreciation, cfg.Draws.DebtRatio,
		cfg.Draws.HardRate, cfg.Draws.LocalRate,
	} {
		if d == nil {
			return nil, fmt.Errorf("montecarlo: every input needs a distribution")
		}
		if err := d.validate(); err != nil {
			return nil, err
		}
	}

	// Draw phase: fixed parameter order per iteration, one shared source.
	src := rand.NewPCG(cfg.Seed, 0)
	drawCF := cfg.Draws.CapacityFactor.sampler(src)
	drawFX := cfg.Draws.FXDepreciation.sampler(src)
	drawRatio := cfg.Draws.DebtRatio.sampler(src)
	drawHard := cfg.Draws.HardRate.sampler(src)
	drawLocal := cfg.Draws.LocalRate.sampler(src)

	trials := make([]Trial, cfg.Iterations)
	for i := range trials {
		trials[i] = Trial{
			Iteration:      i + 1,
			CapacityFactor: drawCF(),
			FXDepreciation: drawFX(),
			DebtRatio:      drawRatio(),
			HardRate:       drawHard(),
			LocalRate:      drawLocal(),
		}
	}

	// Evaluation phase: trials are independent, slots are index-addressed.
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range trials {
		g.Go(func() error {
			return evaluate(cfg, &trials[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Table{
		RunID:  uuid.New().String(),
		Seed:   cfg.Seed,
		Trials: trials,
		Stats:  summarize(trials),
	}, nil
}

// evaluate rebuilds the model for one sampled scenario and writes the scalar
// aggregates back into the trial row.
func evaluate(cfg Config, tr *Trial) error {
	params, err := cfg.Params.WithCapacityFactor(tr.CapacityFactor)
	if err != nil {
		return err
	}
	params, err = params.WithFXDepreciation(tr.FXDepreciation)
	if err != nil {
		return err
	}

	debt := cfg.Debt
	debt.HardRate = tr.HardRate
	debt.LocalRate = tr.LocalRate
	debt, err = debt.Resize(params.TotalCapex, tr.DebtRatio, cfg.HardShare, cfg.DFIShare)
	if err != nil {
		return err
	}

	res, err := model.Build(params, debt)
	if err != nil {
		return err
	}

	tr.EquityIRR = res.EquityIRR
	tr.EquityIRRConverged = res.EquityIRRConverged
	tr.ProjectIRR = res.ProjectIRR
	tr.NPV = res.NPV
	tr.MinDSCR = res.MinDSCR
	tr.MinDSCRDefined = res.MinDSCRDefined
	return nil
}

func summarize(trials []Trial) Summary {
	irrs := make([]float64, len(trials))
	npvs := make([]float64, len(trials))
	dscrs := make([]float64, 0, len(trials))
	for i, tr := range trials {
		irrs[i] = tr.EquityIRR
		npvs[i] = tr.NPV
		if tr.MinDSCRDefined {
			dscrs = append(dscrs, tr.MinDSCR)
		}
	}

	sorted := append([]float64(nil), irrs...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(irrs, nil)
	s := Summary{
		MeanEquityIRR: mean,
		StdEquityIRR:  std,
		P10EquityIRR:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50EquityIRR:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90EquityIRR:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
		MeanNPV:       stat.Mean(npvs, nil),
	}
	if len(dscrs) > 0 {
		s.MeanMinDSCR = stat.Mean(dscrs, nil)
	}
	return s
}
