package model

import "fmt"

// HoursPerYear is the annual hour count used to convert nameplate capacity
// into gross generation. The model works in whole-year buckets.
const HoursPerYear = 8760.0

// ProjectParameters describes the generation asset and its operating
// economics. Monetary amounts are USD millions unless a field says otherwise.
//
// Instances are value objects: construct through NewProjectParameters or one
// of the With* copy helpers, both of which validate. Never mutate a field on
// a shared instance.
type ProjectParameters struct {
	CapacityMW     float64 // nameplate capacity
	CapacityFactor float64 // P50 or stressed, fraction of nameplate in (0, 1]

	// Tariff and currency path. Revenue is billed in local currency and
	// consolidated in USD, so the local-currency depreciation path flows
	// straight into the top line.
	TariffLKRPerKWh  float64
	FXInitial        float64 // LKR per USD at commercial operation
	FXDepreciation   float64 // annual local-currency depreciation vs USD
	TariffEscalation float64 // contractual escalator on top of the FX path

	// Operating expense, split between a USD-indexed and a local-indexed
	// share with separate escalators.
	OpexPerMWh        float64 // USD/MWh in the first operating year
	OpexShareUSD      float64 // share of opex escalating in USD, in [0, 1]
	OpexEscalationUSD float64
	OpexEscalationLKR float64

	LevyRate float64 // social-service levy charged on turnover

	TotalCapex        float64
	Degradation       float64 // output decay per operating year, in [0, 1)
	TaxRate           float64 // corporate income tax, in [0, 1)
	ConstructionYears int
	OperatingYears    int     // economic life; 20 in the base case
	TerminalValue     float64 // residual value credited to the final year
	DiscountRate      float64 // reference rate for the NPV scalar
}

// DefaultParameters returns the base-case asset: 150 MW at a 0.40 P50
// capacity factor, USD 155M capex, two construction years and a 20-year life.
func DefaultParameters() ProjectParameters {
	return ProjectParameters{
		CapacityMW:        150,
		CapacityFactor:    0.40,
		TariffLKRPerKWh:   20.36,
		FXInitial:         300,
		FXDepreciation:    0.03,
		TariffEscalation:  0,
		OpexPerMWh:        6.83,
		OpexShareUSD:      0.30,
		OpexEscalationUSD: 0.02,
		OpexEscalationLKR: 0.05,
		LevyRate:          0.025,
		TotalCapex:        155,
		Degradation:       0.006,
		TaxRate:           0.30,
		ConstructionYears: 2,
		OperatingYears:    20,
		TerminalValue:     10,
		DiscountRate:      0.12,
	}
}

// NewProjectParameters validates p and returns it unchanged. Construction of
// an invalid parameter set fails here rather than surfacing later as a
// nonsense schedule.
func NewProjectParameters(p ProjectParameters) (ProjectParameters, error) {
	if err := p.Validate(); err != nil {
		return ProjectParameters{}, err
	}
	return p, nil
}

// Validate checks the construction invariants from the data model.
func (p ProjectParameters) Validate() error {
	switch {
	case p.CapacityMW <= 0:
		return fmt.Errorf("ProjectParameters: capacity must be positive, got %.4f MW", p.CapacityMW)
	case p.CapacityFactor <= 0 || p.CapacityFactor > 1:
		return fmt.Errorf("ProjectParameters: capacity factor must be in (0, 1], got %.4f", p.CapacityFactor)
	case p.OperatingYears <= 0:
		return fmt.Errorf("ProjectParameters: operating life must be positive, got %d", p.OperatingYears)
	case p.ConstructionYears < 1:
		return fmt.Errorf("ProjectParameters: at least one construction year is required, got %d", p.ConstructionYears)
	case p.TotalCapex <= 0:
		return fmt.Errorf("ProjectParameters: total capex must be positive, got %.4f", p.TotalCapex)
	case p.TariffLKRPerKWh <= 0:
		return fmt.Errorf("ProjectParameters: tariff must be positive, got %.4f", p.TariffLKRPerKWh)
	case p.FXInitial <= 0:
		return fmt.Errorf("ProjectParameters: initial FX rate must be positive, got %.4f", p.FXInitial)
	case p.Degradation < 0 || p.Degradation >= 1:
		return fmt.Errorf("ProjectParameters: degradation must be in [0, 1), got %.4f", p.Degradation)
	case p.OpexShareUSD < 0 || p.OpexShareUSD > 1:
		return fmt.Errorf("ProjectParameters: USD opex share must be in [0, 1], got %.4f", p.OpexShareUSD)
	case p.LevyRate < 0 || p.LevyRate >= 1:
		return fmt.Errorf("ProjectParameters: levy rate must be in [0, 1), got %.4f", p.LevyRate)
	case p.TaxRate < 0 || p.TaxRate >= 1:
		return fmt.Errorf("ProjectParameters: tax rate must be in [0, 1), got %.4f", p.TaxRate)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Copy constructors
//
// One-field-at-a-time overrides go through these so that every derived
// parameter set is re-validated. Sensitivity and Monte Carlo never touch
// fields directly.
// -----------------------------------------------------------------------------

// WithCapacityFactor returns a copy of p with the capacity factor replaced.
func (p ProjectParameters) WithCapacityFactor(v float64) (ProjectParameters, error) {
	p.CapacityFactor = v
	return NewProjectParameters(p)
}

// WithTariff returns a copy of p with the local-currency tariff replaced.
func (p ProjectParameters) WithTariff(v float64) (ProjectParameters, error) {
	p.TariffLKRPerKWh = v
	return NewProjectParameters(p)
}

// WithFXDepreciation returns a copy of p with the annual FX depreciation replaced.
func (p ProjectParameters) WithFXDepreciation(v float64) (ProjectParameters, error) {
	p.FXDepreciation = v
	return NewProjectParameters(p)
}

// WithOpexPerMWh returns a copy of p with the unit operating expense replaced.
func (p ProjectParameters) WithOpexPerMWh(v float64) (ProjectParameters, error) {
	p.OpexPerMWh = v
	return NewProjectParameters(p)
}

// WithTotalCapex returns a copy of p with total capex replaced.
func (p ProjectParameters) WithTotalCapex(v float64) (ProjectParameters, error) {
	p.TotalCapex = v
	return NewProjectParameters(p)
}

// WithTaxRate returns a copy of p with the tax rate replaced.
func (p ProjectParameters) WithTaxRate(v float64) (ProjectParameters, error) {
	p.TaxRate = v
	return NewProjectParameters(p)
}

// WithDegradation returns a copy of p with the annual degradation replaced.
func (p ProjectParameters) WithDegradation(v float64) (ProjectParameters, error) {
	p.Degradation = v
	return NewProjectParameters(p)
}

// WithTerminalValue returns a copy of p with the residual value replaced.
func (p ProjectParameters) WithTerminalValue(v float64) (ProjectParameters, error) {
	p.TerminalValue = v
	return NewProjectParameters(p)
}
