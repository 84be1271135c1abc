package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"dutchbay_finance/pkg/core/model"
	"dutchbay_finance/pkg/core/montecarlo"
	"dutchbay_finance/pkg/core/sensitivity"
)

func buildBase(t *testing.T) *model.FinancialResults {
	t.Helper()
	res, err := model.Build(model.DefaultParameters(), model.DefaultDebtStructure())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return res
}

func TestWriteScheduleCSV(t *testing.T) {
	res := buildBase(t)

	var buf bytes.Buffer
	if err := WriteScheduleCSV(&buf, res); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Header plus one row per project year.
	if len(records) != 1+len(res.Rows) {
		t.Fatalf("Expected %d records, got %d", 1+len(res.Rows), len(records))
	}
	if records[0][0] != "year" || records[0][len(records[0])-1] != "dscr" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	// Construction years have no debt service: the DSCR cell is empty.
	if records[1][len(records[1])-1] != "" {
		t.Errorf("Expected an empty DSCR cell in construction, got %q", records[1][len(records[1])-1])
	}
	// Operating years with debt service carry a value.
	if records[3][len(records[3])-1] == "" {
		t.Errorf("Expected a DSCR value in the first operating year")
	}
}

func TestPrintScheduleMarksUndefinedDSCR(t *testing.T) {
	res, err := model.Build(model.DefaultParameters(), model.DebtStructure{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var buf bytes.Buffer
	PrintSchedule(&buf, res)
	if !strings.Contains(buf.String(), "-") {
		t.Errorf("Expected undefined DSCR years to print a dash")
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, buildBase(t))
	out := buf.String()
	if !strings.Contains(out, "Equity IRR") || !strings.Contains(out, "Min DSCR") {
		t.Errorf("Summary missing headline metrics:\n%s", out)
	}
	if strings.Contains(out, "did not converge") {
		t.Errorf("Base case must converge:\n%s", out)
	}

	buf.Reset()
	PrintSummary(&buf, &model.FinancialResults{EquityIRR: 0.02})
	out = buf.String()
	if !strings.Contains(out, "did not converge") {
		t.Errorf("Expected the non-convergence marker:\n%s", out)
	}
	if !strings.Contains(out, "undefined") {
		t.Errorf("Expected the undefined DSCR marker:\n%s", out)
	}
}

func TestWriteMonteCarloCSV(t *testing.T) {
	table, err := montecarlo.Run(montecarlo.DefaultConfig(16, 5))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteMonteCarloCSV(&buf, table); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 17 {
		t.Fatalf("Expected 17 records, got %d", len(records))
	}
	if records[0][0] != "iteration" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	if records[1][0] != "1" || records[16][0] != "16" {
		t.Errorf("Expected rows ordered by iteration, got %q and %q", records[1][0], records[16][0])
	}
}

func TestWriteSensitivityCSV(t *testing.T) {
	table, err := sensitivity.Analyze(model.DefaultParameters(), model.DefaultDebtStructure(),
		sensitivity.DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteSensitivityCSV(&buf, table); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 1+len(table.Rows) {
		t.Fatalf("Expected %d records, got %d", 1+len(table.Rows), len(records))
	}
	if records[0][0] != "parameter" {
		t.Errorf("Unexpected header: %v", records[0])
	}
}
