// Package sensitivity stresses one parameter at a time around a base case
// and records the movement of the headline return metrics.
package sensitivity

import (
	"fmt"
	"sort"

	"dutchbay_finance/pkg/core/model"
)

// Parameter keys accepted by Config. Overrides go through the validating
// With* copy constructors on ProjectParameters; the base inputs are never
// mutated.
const (
	ParamCapacityFactor = "capacity_factor"
	ParamTariff         = "tariff"
	ParamOpexPerMWh     = "opex_per_mwh"
	ParamTotalCapex     = "total_capex"
	ParamFXDepreciation = "fx_depreciation"
	ParamTaxRate        = "tax_rate"
	ParamDegradation    = "degradation"
	ParamTerminalValue  = "terminal_value"
)

// Stress is one tracked parameter with its stress values.
type Stress struct {
	Parameter string
	Label     string
	Values    []float64
}

// Config enumerates the parameters to stress.
type Config struct {
	Stresses []Stress
}

// DefaultConfig covers the usual downside/upside levers around the base case.
func DefaultConfig() Config {
	return Config{Stresses: []Stress{
		{Parameter: ParamCapacityFactor, Label: "Capacity factor (P50)", Values: []float64{0.38, 0.42}},
		{Parameter: ParamTariff, Label: "Tariff (LKR/kWh)", Values: []float64{18.32, 22.40}},
		{Parameter: ParamOpexPerMWh, Label: "Opex (USD/MWh)", Values: []float64{6.15, 7.51}},
		{Parameter: ParamTotalCapex, Label: "Total capex (USD M)", Values: []float64{139.5, 170.5}},
		{Parameter: ParamFXDepreciation, Label: "FX depreciation", Values: []float64{0.02, 0.05}},
		{Parameter: ParamTaxRate, Label: "Tax rate", Values: []float64{0.24, 0.36}},
	}}
}

// Row is one (parameter, stress value) evaluation next to the base case.
type Row struct {
	Parameter   string
	Label       string
	BaseValue   float64
	StressValue float64

	BaseEquityIRR     float64
	StressedEquityIRR float64
	DeltaEquityIRR    float64

	BaseNPV     float64
	StressedNPV float64
	DeltaNPV    float64
}

// Table is the full one-at-a-time result set.
type Table struct {
	Rows []Row
}

// Analyze rebuilds the model once per (parameter, stress value) pair with
// only that field overridden, everything else held at base.
func Analyze(params model.ProjectParameters, debt model.DebtStructure, cfg Config) (*Table, error) {
	base, err := model.Build(params, debt)
	if err != nil {
		return nil, err
	}

	table := &Table{}
	for _, stress := range cfg.Stresses {
		bv, err := lookupBase(params, stress.Parameter)
		if err != nil {
			return nil, err
		}
		for _, v := range stress.Values {
			stressed, err := override(params, stress.Parameter, v)
			if err != nil {
				return nil, err
			}
			res, err := model.Build(stressed, debt)
			if err != nil {
				return nil, err
			}
			table.Rows = append(table.Rows, Row{
				Parameter:         stress.Parameter,
				Label:             stress.Label,
				BaseValue:         bv,
				StressValue:       v,
				BaseEquityIRR:     base.EquityIRR,
				StressedEquityIRR: res.EquityIRR,
				DeltaEquityIRR:    res.EquityIRR - base.EquityIRR,
				BaseNPV:           base.NPV,
				StressedNPV:       res.NPV,
				DeltaNPV:          res.NPV - base.NPV,
			})
		}
	}
	return table, nil
}

func lookupBase(p model.ProjectParameters, name string) (float64, error) {
	switch name {
	case ParamCapacityFactor:
		return p.CapacityFactor, nil
	case ParamTariff:
		return p.TariffLKRPerKWh, nil
	case ParamOpexPerMWh:
		return p.OpexPerMWh, nil
	case ParamTotalCapex:
		return p.TotalCapex, nil
	case ParamFXDepreciation:
		return p.FXDepreciation, nil
	case ParamTaxRate:
		return p.TaxRate, nil
	case ParamDegradation:
		return p.Degradation, nil
	case ParamTerminalValue:
		return p.TerminalValue, nil
	}
	return 0, fmt.Errorf("sensitivity: unknown parameter %q", name)
}

func override(p model.ProjectParameters, name string, v float64) (model.ProjectParameters, error) {
	switch name {
	case ParamCapacityFactor:
		return p.WithCapacityFactor(v)
	case ParamTariff:
		return p.WithTariff(v)
	case ParamOpexPerMWh:
		return p.WithOpexPerMWh(v)
	case ParamTotalCapex:
		return p.WithTotalCapex(v)
	case ParamFXDepreciation:
		return p.WithFXDepreciation(v)
	case ParamTaxRate:
		return p.WithTaxRate(v)
	case ParamDegradation:
		return p.WithDegradation(v)
	case ParamTerminalValue:
		return p.WithTerminalValue(v)
	}
	return model.ProjectParameters{}, fmt.Errorf("sensitivity: unknown parameter %q", name)
}

// Ranking is one tornado bar: the worst-case equity IRR swing of a parameter.
type Ranking struct {
	Parameter      string
	Label          string
	MaxAbsDeltaIRR float64
}

// Tornado ranks the analyzed parameters by the magnitude of their equity IRR
// impact, largest first.
func Tornado(t *Table) []Ranking {
	byParam := map[string]*Ranking{}
	order := []string{}
	for _, row := range t.Rows {
		r, ok := byParam[row.Parameter]
		if !ok {
			r = &Ranking{Parameter: row.Parameter, Label: row.Label}
			byParam[row.Parameter] = r
			order = append(order, row.Parameter)
		}
		delta := row.DeltaEquityIRR
		if delta < 0 {
			delta = -delta
		}
		if delta > r.MaxAbsDeltaIRR {
			r.MaxAbsDeltaIRR = delta
		}
	}
	out := make([]Ranking, 0, len(order))
	for _, name := range order {
		out = append(out, *byParam[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MaxAbsDeltaIRR > out[j].MaxAbsDeltaIRR })
	return out
}
