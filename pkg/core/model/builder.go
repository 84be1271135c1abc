package model

import (
	"math"

	"dutchbay_finance/pkg/core/solver"
)

// debtServiceFloor separates "no debt service due" from rounding residue when
// deciding whether a year's DSCR is defined.
const debtServiceFloor = 1e-9

// Build converts a parameter set and a debt structure into the full annual
// schedule and derived return metrics. It is a pure function: the inputs are
// value objects and the returned results are owned by the caller.
//
// Year ordering is construction years (pro-rata capex outflow, zero revenue)
// followed by operating years, 0-indexed from commercial operation inside the
// loop below.
func Build(params ProjectParameters, debt DebtStructure) (*FinancialResults, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := debt.Validate(); err != nil {
		return nil, err
	}

	cons := params.ConstructionYears
	life := params.OperatingYears
	rows := make([]YearRow, cons+life)

	// -------------------------------------------------------------------------
	// Construction: capex drawn pro rata, equity funds the non-debt share.
	// Interest during construction is not capitalized; debt service starts
	// at commercial operation on the full balances.
	// -------------------------------------------------------------------------
	capexPerYear := params.TotalCapex / float64(cons)
	equityPerYear := (params.TotalCapex - debt.TotalDebt) / float64(cons)
	for y := 0; y < cons; y++ {
		rows[y] = YearRow{
			Year:            y + 1,
			FX:              params.FXInitial,
			EquityCashFlow:  -equityPerYear,
			ProjectCashFlow: -capexPerYear,
		}
	}

	// -------------------------------------------------------------------------
	// Debt service per tranche, each amortized in its own currency. The
	// local tranche converts to LKR at closing FX and back at each year's
	// FX, so local-currency depreciation erodes its USD debt service.
	// -------------------------------------------------------------------------
	mktInt, mktPrin := AmortizationSchedule(debt.HardDebt*(1-debt.DFIShare), debt.HardRate,
		debt.GraceYears, debt.TenorYears, life, debt.Method)
	dfiInt, dfiPrin := AmortizationSchedule(debt.HardDebt*debt.DFIShare, debt.DFIRate,
		debt.GraceYears, debt.TenorYears, life, debt.Method)
	lkrInt, lkrPrin := AmortizationSchedule(debt.LocalDebt*params.FXInitial, debt.LocalRate,
		debt.GraceYears, debt.TenorYears, life, debt.Method)

	depreciation := params.TotalCapex / float64(life)

	for t := 0; t < life; t++ {
		fx := params.FXInitial * math.Pow(1+params.FXDepreciation, float64(t))

		generation := params.CapacityMW * params.CapacityFactor * HoursPerYear *
			math.Pow(1-params.Degradation, float64(t))

		// LKR/kWh -> USD/MWh at the year's FX, plus any contractual escalator.
		tariffUSD := params.TariffLKRPerKWh / fx * 1000 *
			math.Pow(1+params.TariffEscalation, float64(t))
		revenue := generation * tariffUSD / 1e6
		levy := revenue * params.LevyRate

		// Dual-currency opex: the USD share escalates at the USD rate, the
		// local share escalates at the local rate and is deflated by the FX
		// path when consolidated.
		usdUnit := params.OpexPerMWh * params.OpexShareUSD *
			math.Pow(1+params.OpexEscalationUSD, float64(t))
		lkrUnit := params.OpexPerMWh * (1 - params.OpexShareUSD) *
			math.Pow(1+params.OpexEscalationLKR, float64(t)) / (fx / params.FXInitial)
		opex := generation * (usdUnit + lkrUnit) / 1e6

		ebitda := revenue - levy - opex

		interest := mktInt[t] + dfiInt[t] + lkrInt[t]/fx
		principal := mktPrin[t] + dfiPrin[t] + lkrPrin[t]/fx

		taxable := ebitda - depreciation - interest
		tax := math.Max(0, taxable*params.TaxRate)
		cfads := ebitda - tax

		unleveredTax := math.Max(0, (ebitda-depreciation)*params.TaxRate)

		equityCF := ebitda - interest - principal - tax
		projectCF := ebitda - unleveredTax
		if t == life-1 {
			equityCF += params.TerminalValue
			projectCF += params.TerminalValue
		}

		row := YearRow{
			Year:            cons + t + 1,
			GenerationMWh:   generation,
			FX:              fx,
			Revenue:         revenue,
			Levy:            levy,
			Opex:            opex,
			EBITDA:          ebitda,
			Depreciation:    depreciation,
			Interest:        interest,
			Principal:       principal,
			Tax:             tax,
			CFADS:           cfads,
			EquityCashFlow:  equityCF,
			ProjectCashFlow: projectCF,
		}
		if ds := interest + principal; ds > debtServiceFloor {
			row.DSCR = cfads / ds
			row.DSCRDefined = true
		}
		rows[cons+t] = row
	}

	res := &FinancialResults{Rows: rows}

	res.MinDSCR, res.MinDSCRDefined = minDSCR(rows)

	equityIRR, _ := solver.IRR(res.EquitySeries())
	res.EquityIRR = equityIRR.Rate
	res.EquityIRRConverged = equityIRR.Converged

	projectIRR, _ := solver.IRR(res.ProjectSeries())
	res.ProjectIRR = projectIRR.Rate
	res.ProjectIRRConverged = projectIRR.Converged

	res.NPV = solver.NPV(params.DiscountRate, res.EquitySeries())

	return res, nil
}

// minDSCR scans the schedule for the lowest defined coverage ratio. With no
// defined year (zero-debt model) the minimum itself is undefined.
func minDSCR(rows []YearRow) (float64, bool) {
	min, found := 0.0, false
	for _, row := range rows {
		if !row.DSCRDefined {
			continue
		}
		if !found || row.DSCR < min {
			min = row.DSCR
			found = true
		}
	}
	return min, found
}
