// Package report renders analysis outputs for humans and spreadsheets. It is
// a thin outer layer: everything here consumes the in-memory result
// structures and contains no model arithmetic.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"dutchbay_finance/pkg/core/model"
	"dutchbay_finance/pkg/core/montecarlo"
	"dutchbay_finance/pkg/core/sensitivity"
)

// PrintSchedule writes the annual schedule as an aligned console table.
func PrintSchedule(w io.Writer, res *model.FinancialResults) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Year\tGen GWh\tFX\tRevenue\tEBITDA\tInterest\tPrincipal\tTax\tEquity CF\tDSCR\t")
	for _, row := range res.Rows {
		dscr := "-"
		if row.DSCRDefined {
			dscr = fmt.Sprintf("%.2fx", row.DSCR)
		}
		fmt.Fprintf(tw, "%d\t%.1f\t%.0f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t\n",
			row.Year, row.GenerationMWh/1000, row.FX, row.Revenue, row.EBITDA,
			row.Interest, row.Principal, row.Tax, row.EquityCashFlow, dscr)
	}
	tw.Flush()
}

// PrintSummary writes the scalar metrics block.
func PrintSummary(w io.Writer, res *model.FinancialResults) {
	fmt.Fprintf(w, "Equity IRR:   %s\n", formatRate(res.EquityIRR, res.EquityIRRConverged))
	fmt.Fprintf(w, "Project IRR:  %s\n", formatRate(res.ProjectIRR, res.ProjectIRRConverged))
	fmt.Fprintf(w, "NPV @ ref:    %.2fM\n", res.NPV)
	if res.MinDSCRDefined {
		fmt.Fprintf(w, "Min DSCR:     %.2fx\n", res.MinDSCR)
	} else {
		fmt.Fprintf(w, "Min DSCR:     undefined (no debt service)\n")
	}
}

func formatRate(rate float64, converged bool) string {
	if !converged {
		return fmt.Sprintf("%.2f%% (did not converge)", rate*100)
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}

// WriteScheduleCSV exports the annual schedule, one row per project year.
func WriteScheduleCSV(w io.Writer, res *model.FinancialResults) error {
	cw := csv.NewWriter(w)
	header := []string{
		"year", "generation_mwh", "fx", "revenue", "levy", "opex", "ebitda",
		"depreciation", "interest", "principal", "tax", "cfads",
		"equity_cash_flow", "project_cash_flow", "dscr",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range res.Rows {
		dscr := ""
		if row.DSCRDefined {
			dscr = formatFloat(row.DSCR)
		}
		record := []string{
			strconv.Itoa(row.Year),
			formatFloat(row.GenerationMWh),
			formatFloat(row.FX),
			formatFloat(row.Revenue),
			formatFloat(row.Levy),
			formatFloat(row.Opex),
			formatFloat(row.EBITDA),
			formatFloat(row.Depreciation),
			formatFloat(row.Interest),
			formatFloat(row.Principal),
			formatFloat(row.Tax),
			formatFloat(row.CFADS),
			formatFloat(row.EquityCashFlow),
			formatFloat(row.ProjectCashFlow),
			dscr,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMonteCarloCSV exports the trial table, one row per iteration.
func WriteMonteCarloCSV(w io.Writer, tbl *montecarlo.Table) error {
	cw := csv.NewWriter(w)
	header := []string{
		"iteration", "capacity_factor", "fx_depreciation", "debt_ratio",
		"hard_rate", "local_rate", "equity_irr", "project_irr", "npv", "min_dscr",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, tr := range tbl.Trials {
		dscr := ""
		if tr.MinDSCRDefined {
			dscr = formatFloat(tr.MinDSCR)
		}
		record := []string{
			strconv.Itoa(tr.Iteration),
			formatFloat(tr.CapacityFactor),
			formatFloat(tr.FXDepreciation),
			formatFloat(tr.DebtRatio),
			formatFloat(tr.HardRate),
			formatFloat(tr.LocalRate),
			formatFloat(tr.EquityIRR),
			formatFloat(tr.ProjectIRR),
			formatFloat(tr.NPV),
			dscr,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSensitivityCSV exports the one-at-a-time stress table.
func WriteSensitivityCSV(w io.Writer, tbl *sensitivity.Table) error {
	cw := csv.NewWriter(w)
	header := []string{
		"parameter", "label", "base_value", "stress_value",
		"base_equity_irr", "stressed_equity_irr", "delta_equity_irr",
		"base_npv", "stressed_npv", "delta_npv",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range tbl.Rows {
		record := []string{
			row.Parameter,
			row.Label,
			formatFloat(row.BaseValue),
			formatFloat(row.StressValue),
			formatFloat(row.BaseEquityIRR),
			formatFloat(row.StressedEquityIRR),
			formatFloat(row.DeltaEquityIRR),
			formatFloat(row.BaseNPV),
			formatFloat(row.StressedNPV),
			formatFloat(row.DeltaNPV),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
