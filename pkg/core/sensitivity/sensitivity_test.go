package sensitivity

import (
	"math"
	"testing"

	"dutchbay_finance/pkg/core/model"
)

func TestAnalyzeCapacityFactorDirections(t *testing.T) {
	params := model.DefaultParameters()
	debt := model.DefaultDebtStructure()
	cfg := Config{Stresses: []Stress{
		{Parameter: ParamCapacityFactor, Label: "Capacity factor", Values: []float64{0.38, 0.42}},
	}}

	table, err := Analyze(params, debt, cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}

	down, up := table.Rows[0], table.Rows[1]
	if down.BaseValue != 0.40 {
		t.Errorf("Expected base value 0.40, got %f", down.BaseValue)
	}
	// Less generation, less revenue: the downside stress must cut the return.
	if down.DeltaEquityIRR >= 0 {
		t.Errorf("Expected a negative IRR delta at 0.38, got %f", down.DeltaEquityIRR)
	}
	if down.DeltaNPV >= 0 {
		t.Errorf("Expected a negative NPV delta at 0.38, got %f", down.DeltaNPV)
	}
	if up.DeltaEquityIRR <= 0 {
		t.Errorf("Expected a positive IRR delta at 0.42, got %f", up.DeltaEquityIRR)
	}
	if up.DeltaNPV <= 0 {
		t.Errorf("Expected a positive NPV delta at 0.42, got %f", up.DeltaNPV)
	}

	// The model is nonlinear in the capacity factor: the up and down swings
	// do not cancel exactly.
	if math.Abs(down.DeltaEquityIRR+up.DeltaEquityIRR) < 1e-9 {
		t.Errorf("Expected asymmetric swings, got %f and %f", down.DeltaEquityIRR, up.DeltaEquityIRR)
	}
}

func TestAnalyzeCapexDirection(t *testing.T) {
	cfg := Config{Stresses: []Stress{
		{Parameter: ParamTotalCapex, Label: "Total capex", Values: []float64{170.5}},
	}}
	table, err := Analyze(model.DefaultParameters(), model.DefaultDebtStructure(), cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if table.Rows[0].DeltaEquityIRR >= 0 {
		t.Errorf("Expected a capex overrun to cut the equity IRR, got delta %f", table.Rows[0].DeltaEquityIRR)
	}
}

func TestAnalyzeDoesNotMutateBase(t *testing.T) {
	params := model.DefaultParameters()
	if _, err := Analyze(params, model.DefaultDebtStructure(), DefaultConfig()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if params != model.DefaultParameters() {
		t.Errorf("Expected the base parameters to be untouched")
	}
}

func TestAnalyzeUnknownParameter(t *testing.T) {
	cfg := Config{Stresses: []Stress{
		{Parameter: "wind_speed", Label: "Wind speed", Values: []float64{1}},
	}}
	if _, err := Analyze(model.DefaultParameters(), model.DefaultDebtStructure(), cfg); err == nil {
		t.Errorf("Expected an error for an unknown parameter")
	}
}

func TestAnalyzeInvalidStressValue(t *testing.T) {
	cfg := Config{Stresses: []Stress{
		{Parameter: ParamCapacityFactor, Label: "Capacity factor", Values: []float64{1.5}},
	}}
	if _, err := Analyze(model.DefaultParameters(), model.DefaultDebtStructure(), cfg); err == nil {
		t.Errorf("Expected the stressed value to fail validation")
	}
}

func TestTornadoRanking(t *testing.T) {
	table, err := Analyze(model.DefaultParameters(), model.DefaultDebtStructure(), DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ranking := Tornado(table)
	if len(ranking) != 6 {
		t.Fatalf("Expected 6 ranked parameters, got %d", len(ranking))
	}
	for i := 1; i < len(ranking); i++ {
		if ranking[i].MaxAbsDeltaIRR > ranking[i-1].MaxAbsDeltaIRR {
			t.Errorf("Ranking out of order at %d: %f after %f",
				i, ranking[i].MaxAbsDeltaIRR, ranking[i-1].MaxAbsDeltaIRR)
		}
	}
	for _, r := range ranking {
		if r.MaxAbsDeltaIRR <= 0 {
			t.Errorf("%s: expected a nonzero swing", r.Parameter)
		}
	}
}
