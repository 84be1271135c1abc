package model

import (
	"fmt"
	"math"
)

// RepaymentMethod selects how tranche principal amortizes after the grace
// period.
type RepaymentMethod int

const (
	// EqualInstallment repays the same principal amount every year.
	EqualInstallment RepaymentMethod = iota
	// Annuity keeps total debt service (interest + principal) level.
	Annuity
)

func (m RepaymentMethod) String() string {
	switch m {
	case EqualInstallment:
		return "equal_installment"
	case Annuity:
		return "annuity"
	}
	return fmt.Sprintf("RepaymentMethod(%d)", int(m))
}

// debtAmountTolerance is the relative tolerance for the tranche-sum invariant.
const debtAmountTolerance = 1e-6

// DebtStructure describes the project financing: a hard-currency tranche
// (with a concessional DFI slice) and a local-currency tranche. Amounts are
// USD millions at financial close; the local tranche is FX-exposed and is
// amortized in local currency by the builder.
//
// Invariant: HardDebt + LocalDebt = TotalDebt within floating-point tolerance.
type DebtStructure struct {
	TotalDebt float64
	HardDebt  float64 // hard-currency tranche, inclusive of the DFI slice
	LocalDebt float64 // local-currency tranche, USD-equivalent at close

	HardRate  float64 // market rate on the non-DFI hard slice
	DFIShare  float64 // DFI share of the hard tranche, in [0, 1]
	DFIRate   float64 // concessional rate on the DFI slice
	LocalRate float64

	GraceYears int // interest-only years from commercial operation
	TenorYears int // total repayment period including grace
	Method     RepaymentMethod
}

// DefaultDebtStructure returns the base-case financing: 75% of capex, 45% of
// it in hard currency with a 10% DFI slice, 15-year tenor with one grace year.
func DefaultDebtStructure() DebtStructure {
	d := DebtStructure{
		HardRate:   0.07,
		DFIShare:   0.10,
		DFIRate:    0.065,
		LocalRate:  0.075,
		GraceYears: 1,
		TenorYears: 15,
		Method:     EqualInstallment,
	}
	sized, err := d.Resize(155, 0.75, 0.45, 0.10)
	if err != nil {
		// Unreachable with the constants above.
		panic(err)
	}
	return sized
}

// NewDebtStructure validates d and returns it unchanged.
func NewDebtStructure(d DebtStructure) (DebtStructure, error) {
	if err := d.Validate(); err != nil {
		return DebtStructure{}, err
	}
	return d, nil
}

// Validate checks the construction invariants. A zero-debt structure is
// valid: the builder then produces an unlevered model.
func (d DebtStructure) Validate() error {
	if d.TotalDebt < 0 || d.HardDebt < 0 || d.LocalDebt < 0 {
		return fmt.Errorf("DebtStructure: debt amounts must be non-negative")
	}
	if d.DFIShare < 0 || d.DFIShare > 1 {
		return fmt.Errorf("DebtStructure: DFI share must be in [0, 1], got %.4f", d.DFIShare)
	}
	if d.HardRate < 0 || d.DFIRate < 0 || d.LocalRate < 0 {
		return fmt.Errorf("DebtStructure: interest rates must be non-negative")
	}
	if d.TotalDebt == 0 {
		return nil
	}
	sum := d.HardDebt + d.LocalDebt
	if math.Abs(sum-d.TotalDebt) > debtAmountTolerance*math.Max(1, d.TotalDebt) {
		return fmt.Errorf("DebtStructure: tranches sum to %.6f, total debt is %.6f", sum, d.TotalDebt)
	}
	if d.GraceYears < 0 || d.TenorYears <= d.GraceYears {
		return fmt.Errorf("DebtStructure: tenor (%d) must exceed grace period (%d)", d.TenorYears, d.GraceYears)
	}
	if d.Method != EqualInstallment && d.Method != Annuity {
		return fmt.Errorf("DebtStructure: unknown repayment method %d", int(d.Method))
	}
	return nil
}

// Resize returns a copy of d sized against capex: total debt is
// capex x debtRatio, split into hard and local tranches by hardShare, with
// dfiShare of the hard tranche at the concessional rate. Rates, tenor and
// method carry over from d.
func (d DebtStructure) Resize(capex, debtRatio, hardShare, dfiShare float64) (DebtStructure, error) {
	if capex <= 0 {
		return DebtStructure{}, fmt.Errorf("DebtStructure: capex must be positive, got %.4f", capex)
	}
	if debtRatio < 0 || debtRatio >= 1 {
		return DebtStructure{}, fmt.Errorf("DebtStructure: debt ratio must be in [0, 1), got %.4f", debtRatio)
	}
	if hardShare < 0 || hardShare > 1 {
		return DebtStructure{}, fmt.Errorf("DebtStructure: hard-currency share must be in [0, 1], got %.4f", hardShare)
	}
	d.TotalDebt = capex * debtRatio
	d.HardDebt = d.TotalDebt * hardShare
	d.LocalDebt = d.TotalDebt - d.HardDebt
	d.DFIShare = dfiShare
	return NewDebtStructure(d)
}

// -----------------------------------------------------------------------------
// Amortization
// -----------------------------------------------------------------------------

// AmortizationSchedule returns per-year interest and principal for a single
// tranche in its own currency, over `years` annual periods from commercial
// operation. During the grace period only interest accrues; principal then
// amortizes over (tenor - grace) years. The final repayment year clears the
// remaining balance exactly, so the principal column always sums to the
// disbursed amount.
func AmortizationSchedule(principal, rate float64, grace, tenor, years int, method RepaymentMethod) (interest, principalDue []float64) {
	interest = make([]float64, years)
	principalDue = make([]float64, years)
	if principal <= 0 {
		return interest, principalDue
	}

	repayYears := tenor - grace
	installment := principal / float64(repayYears)

	// Level annuity payment on the post-grace balance. With a zero rate the
	// annuity degenerates to equal installments.
	payment := installment
	if method == Annuity && rate > 0 {
		payment = principal * rate / (1 - math.Pow(1+rate, -float64(repayYears)))
	}

	balance := principal
	for t := 0; t < years && balance > 0; t++ {
		interest[t] = balance * rate
		if t < grace {
			continue
		}

		var due float64
		switch method {
		case Annuity:
			due = payment - interest[t]
		default:
			due = installment
		}
		if t == tenor-1 || due > balance {
			due = balance
		}
		principalDue[t] = due
		balance -= due
	}
	return interest, principalDue
}
