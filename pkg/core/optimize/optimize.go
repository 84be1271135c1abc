// Package optimize searches the capital-structure design space — debt ratio,
// hard-currency share and DFI share — for the structure maximizing one return
// metric subject to lender and investor floors.
package optimize

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/diff/fd"
	gopt "gonum.org/v1/gonum/optimize"

	"dutchbay_finance/pkg/core/model"
)

// Objective selects the scalar maximized by the search.
type Objective int

const (
	MaximizeEquityIRR Objective = iota
	MaximizeProjectIRR
	MaximizeNPV
)

func (o Objective) String() string {
	switch o {
	case MaximizeEquityIRR:
		return "equity_irr"
	case MaximizeProjectIRR:
		return "project_irr"
	case MaximizeNPV:
		return "npv"
	}
	return fmt.Sprintf("Objective(%d)", int(o))
}

// Bounds are the per-variable box constraints of the search space.
type Bounds struct {
	DebtRatioMin, DebtRatioMax float64
	HardShareMin, HardShareMax float64
	DFIShareMin, DFIShareMax   float64
}

// DefaultBounds matches the base-case mandate: 50-80% leverage, any currency
// split, at most a 20% DFI slice.
func DefaultBounds() Bounds {
	return Bounds{
		DebtRatioMin: 0.50, DebtRatioMax: 0.80,
		HardShareMin: 0, HardShareMax: 1,
		DFIShareMin: 0, DFIShareMax: 0.20,
	}
}

func (b Bounds) validate() error {
	if b.DebtRatioMin >= b.DebtRatioMax || b.HardShareMin >= b.HardShareMax || b.DFIShareMin >= b.DFIShareMax {
		return fmt.Errorf("optimize: each lower bound must be below its upper bound")
	}
	if b.DebtRatioMin < 0 || b.DebtRatioMax >= 1 || b.HardShareMin < 0 || b.HardShareMax > 1 || b.DFIShareMin < 0 || b.DFIShareMax > 1 {
		return fmt.Errorf("optimize: bounds outside the valid capital-structure region")
	}
	return nil
}

// Config drives one optimization run.
type Config struct {
	Params model.ProjectParameters
	Debt   model.DebtStructure // rate/tenor/method template

	Objective    Objective
	MinEquityIRR float64 // investor floor
	MinDSCR      float64 // lender floor

	Bounds Bounds

	// OuterIterations caps the augmented-Lagrangian multiplier updates;
	// InnerIterations caps each L-BFGS solve. Zero selects the defaults.
	OuterIterations int
	InnerIterations int
}

// DefaultConfig maximizes equity IRR under the usual 15% / 1.30x floors.
func DefaultConfig() Config {
	return Config{
		Params:       model.DefaultParameters(),
		Debt:         model.DefaultDebtStructure(),
		Objective:    MaximizeEquityIRR,
		MinEquityIRR: 0.15,
		MinDSCR:      1.30,
		Bounds:       DefaultBounds(),
	}
}

// Result is the structured outcome of a search. Converged=false is a valid,
// expected outcome for infeasible floors; callers must check it before
// trusting the point.
type Result struct {
	RunID string

	DebtRatio float64
	HardShare float64
	DFIShare  float64

	EquityIRR      float64
	ProjectIRR     float64
	NPV            float64
	MinDSCR        float64
	MinDSCRDefined bool

	// Results is the full schedule at the returned point.
	Results *model.FinancialResults

	Converged  bool
	Message    string
	Iterations int

	// Residual floor violations at the returned point (0 when satisfied).
	IRRViolation  float64
	DSCRViolation float64
}

const (
	defaultOuterIterations = 8
	defaultInnerIterations = 60
	constraintTolerance    = 1e-4
)

// CapitalStructure runs the constrained search from the fixed initial guess
// (0.80, 0.45, 0.10). The method is an augmented-Lagrangian outer loop with
// L-BFGS inner solves on finite-difference gradients; bound handling clamps
// the candidate before evaluation and penalizes the excursion, so the builder
// is evaluated only inside the box and never fails.
func CapitalStructure(cfg Config) (*Result, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Debt.Validate(); err != nil {
		return nil, err
	}
	if cfg.Bounds == (Bounds{}) {
		cfg.Bounds = DefaultBounds()
	}
	if err := cfg.Bounds.validate(); err != nil {
		return nil, err
	}
	if cfg.OuterIterations <= 0 {
		cfg.OuterIterations = defaultOuterIterations
	}
	if cfg.InnerIterations <= 0 {
		cfg.InnerIterations = defaultInnerIterations
	}

	s := &search{cfg: cfg}
	x := []float64{0.80, 0.45, 0.10}
	x = s.clamp(x)

	lambda := [2]float64{}
	mu := 10.0
	prevViolation := math.Inf(1)
	iterations := 0
	innerOK := true

	for outer := 0; outer < cfg.OuterIterations; outer++ {
		merit := func(z []float64) float64 { return s.lagrangian(z, lambda, mu) }
		problem := gopt.Problem{
			Func: merit,
			Grad: func(grad, z []float64) {
				fd.Gradient(grad, merit, z, nil)
			},
		}
		settings := &gopt.Settings{
			MajorIterations: cfg.InnerIterations,
			FuncEvaluations: cfg.InnerIterations * 50,
		}

		result, err := gopt.Minimize(problem, x, settings, &gopt.LBFGS{})
		if result != nil {
			x = s.clamp(result.Location.X)
			iterations += result.Stats.MajorIterations
		}
		if err != nil {
			// Line-search stalls on the piecewise-smooth merit surface are
			// recoverable: keep the best iterate and move on.
			innerOK = false
		}

		c1, c2 := s.constraints(x)
		violation := math.Max(math.Max(0, -c1), math.Max(0, -c2))
		if violation <= constraintTolerance {
			break
		}

		lambda[0] = math.Max(0, lambda[0]-mu*c1)
		lambda[1] = math.Max(0, lambda[1]-mu*c2)
		if violation > 0.25*prevViolation {
			mu *= 5
		}
		prevViolation = violation
	}

	// Final evaluation at the returned point.
	res, err := s.build(x)
	if err != nil {
		return nil, err
	}
	c1, c2 := s.constraints(x)

	out := &Result{
		RunID:          uuid.New().String(),
		DebtRatio:      x[0],
		HardShare:      x[1],
		DFIShare:       x[2],
		EquityIRR:      res.EquityIRR,
		ProjectIRR:     res.ProjectIRR,
		NPV:            res.NPV,
		MinDSCR:        res.MinDSCR,
		MinDSCRDefined: res.MinDSCRDefined,
		Results:        res,
		Iterations:     iterations,
		IRRViolation:   math.Max(0, -c1),
		DSCRViolation:  math.Max(0, -c2),
	}

	switch {
	case out.IRRViolation > constraintTolerance || out.DSCRViolation > constraintTolerance:
		out.Message = fmt.Sprintf("constraint floors not met: equity IRR short by %.4f, DSCR short by %.4f",
			out.IRRViolation, out.DSCRViolation)
	case !innerOK:
		out.Converged = true
		out.Message = "feasible optimum found; an inner solve stalled before its iteration budget"
	default:
		out.Converged = true
		out.Message = "converged"
	}
	return out, nil
}

// search binds the config to the evaluation helpers.
type search struct {
	cfg Config
}

func (s *search) clamp(x []float64) []float64 {
	b := s.cfg.Bounds
	return []float64{
		math.Min(math.Max(x[0], b.DebtRatioMin), b.DebtRatioMax),
		math.Min(math.Max(x[1], b.HardShareMin), b.HardShareMax),
		math.Min(math.Max(x[2], b.DFIShareMin), b.DFIShareMax),
	}
}

// boundExcursion is the squared distance from x to the box, keeping the merit
// surface increasing outside it.
func (s *search) boundExcursion(x []float64) float64 {
	c := s.clamp(x)
	d0, d1, d2 := x[0]-c[0], x[1]-c[1], x[2]-c[2]
	return d0*d0 + d1*d1 + d2*d2
}

// build evaluates the model at an in-box point.
func (s *search) build(x []float64) (*model.FinancialResults, error) {
	debt, err := s.cfg.Debt.Resize(s.cfg.Params.TotalCapex, x[0], x[1], x[2])
	if err != nil {
		return nil, err
	}
	return model.Build(s.cfg.Params, debt)
}

// metrics returns the objective value (to maximize) and both constraint
// inputs at an in-box point.
func (s *search) metrics(x []float64) (objective, equityIRR, minDSCR float64) {
	res, err := s.build(x)
	if err != nil {
		// Unreachable for in-box points with a valid template; treat as a
		// hard penalty rather than aborting mid-search.
		return math.Inf(-1), math.Inf(-1), math.Inf(-1)
	}
	switch s.cfg.Objective {
	case MaximizeProjectIRR:
		objective = res.ProjectIRR
	case MaximizeNPV:
		objective = res.NPV / s.cfg.Params.TotalCapex // keep penalty scales comparable
	default:
		objective = res.EquityIRR
	}
	minDSCR = math.Inf(1) // no debt service due anywhere: lender floor is moot
	if res.MinDSCRDefined {
		minDSCR = res.MinDSCR
	}
	return objective, res.EquityIRR, minDSCR
}

// constraints returns the two inequality constraints in c(x) >= 0 form.
func (s *search) constraints(x []float64) (c1, c2 float64) {
	_, equityIRR, minDSCR := s.metrics(s.clamp(x))
	return equityIRR - s.cfg.MinEquityIRR, minDSCR - s.cfg.MinDSCR
}

// lagrangian is the augmented-Lagrangian merit function minimized by the
// inner solver: negated objective plus the inequality terms and the bound
// excursion penalty.
func (s *search) lagrangian(z []float64, lambda [2]float64, mu float64) float64 {
	x := s.clamp(z)
	objective, equityIRR, minDSCR := s.metrics(x)

	value := -objective
	for i, c := range [2]float64{equityIRR - s.cfg.MinEquityIRR, minDSCR - s.cfg.MinDSCR} {
		if t := lambda[i] - mu*c; t > 0 {
			value += (t*t - lambda[i]*lambda[i]) / (2 * mu)
		} else {
			value -= lambda[i] * lambda[i] / (2 * mu)
		}
	}
	return value + mu*s.boundExcursion(z)
}
