package model

// YearRow is one project year of the financial schedule. Construction years
// carry only the capex outflows; operating years carry the full P&L and debt
// service. Amounts are USD millions.
type YearRow struct {
	Year          int // 1-based project year, construction first
	GenerationMWh float64
	FX            float64 // LKR per USD during the year
	Revenue       float64
	Levy          float64
	Opex          float64
	EBITDA        float64
	Depreciation  float64
	Interest      float64
	Principal     float64
	Tax           float64
	CFADS         float64 // cash flow available for debt service

	EquityCashFlow  float64 // free cash flow to equity
	ProjectCashFlow float64 // unlevered free cash flow

	// DSCR is CFADS over total debt service. It is meaningful only when
	// DSCRDefined is true; years with no debt service due (grace-free
	// zero-debt models, post-tenor years) leave it undefined rather than
	// dividing by zero or emitting an infinity.
	DSCR        float64
	DSCRDefined bool
}

// FinancialResults is the complete output of one builder invocation: the
// annual schedule plus the scalar return and coverage metrics. It is never
// mutated after Build returns it and is not shared between trials.
type FinancialResults struct {
	Rows []YearRow

	EquityIRR           float64
	EquityIRRConverged  bool
	ProjectIRR          float64
	ProjectIRRConverged bool

	// NPV discounts the equity cash-flow series at the parameter set's
	// reference rate (12% in the base case).
	NPV float64

	// MinDSCR is the minimum coverage ratio across operating years where
	// debt service is due. Undefined (MinDSCRDefined false) for zero-debt
	// models.
	MinDSCR        float64
	MinDSCRDefined bool
}

// EquitySeries returns the equity cash-flow column as a series, first
// construction year at index 0.
func (r *FinancialResults) EquitySeries() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.EquityCashFlow
	}
	return out
}

// ProjectSeries returns the unlevered cash-flow column as a series.
func (r *FinancialResults) ProjectSeries() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.ProjectCashFlow
	}
	return out
}
