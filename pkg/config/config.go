// Package config loads optional scenario overrides from YAML or HJSON files.
// Only keys present in the file override the base case; every override goes
// through the core's validating constructors, so a malformed scenario fails
// loudly instead of producing a quietly wrong schedule.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"dutchbay_finance/pkg/core/model"
)

// Scenario is the file schema. Pointer fields distinguish "absent" from
// "explicitly zero".
type Scenario struct {
	CapacityMW      *float64 `yaml:"capacity_mw" json:"capacity_mw"`
	CapacityFactor  *float64 `yaml:"capacity_factor" json:"capacity_factor"`
	TariffLKRPerKWh *float64 `yaml:"tariff_lkr_per_kwh" json:"tariff_lkr_per_kwh"`
	FXInitial       *float64 `yaml:"fx_initial" json:"fx_initial"`
	FXDepreciation  *float64 `yaml:"fx_depreciation" json:"fx_depreciation"`
	OpexPerMWh      *float64 `yaml:"opex_per_mwh" json:"opex_per_mwh"`
	LevyRate        *float64 `yaml:"levy_rate" json:"levy_rate"`
	TotalCapex      *float64 `yaml:"total_capex" json:"total_capex"`
	Degradation     *float64 `yaml:"degradation" json:"degradation"`
	TaxRate         *float64 `yaml:"tax_rate" json:"tax_rate"`
	TerminalValue   *float64 `yaml:"terminal_value" json:"terminal_value"`

	DebtRatio  *float64 `yaml:"debt_ratio" json:"debt_ratio"`
	HardShare  *float64 `yaml:"hard_share" json:"hard_share"`
	DFIShare   *float64 `yaml:"dfi_share" json:"dfi_share"`
	HardRate   *float64 `yaml:"hard_rate" json:"hard_rate"`
	DFIRate    *float64 `yaml:"dfi_rate" json:"dfi_rate"`
	LocalRate  *float64 `yaml:"local_rate" json:"local_rate"`
	GraceYears *int     `yaml:"grace_years" json:"grace_years"`
	TenorYears *int     `yaml:"tenor_years" json:"tenor_years"`
	Repayment  *string  `yaml:"repayment" json:"repayment"` // equal_installment | annuity
}

// LoadScenario parses a scenario file by extension: .yaml/.yml via yaml.v2,
// .hjson/.json via the tolerant hjson parser (comments and trailing commas
// allowed).
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading scenario: %w", err)
	}
	var s Scenario
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	case ".hjson", ".json":
		if err := hjson.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported scenario format %q", ext)
	}
	return &s, nil
}

// Apply layers the scenario over the base inputs and re-validates both.
func (s *Scenario) Apply(params model.ProjectParameters, debt model.DebtStructure) (model.ProjectParameters, model.DebtStructure, error) {
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	// The template's leverage ratio is measured against the capex it was
	// sized for, before any override moves capex.
	ratio := debt.TotalDebt / params.TotalCapex

	setF(&params.CapacityMW, s.CapacityMW)
	setF(&params.CapacityFactor, s.CapacityFactor)
	setF(&params.TariffLKRPerKWh, s.TariffLKRPerKWh)
	setF(&params.FXInitial, s.FXInitial)
	setF(&params.FXDepreciation, s.FXDepreciation)
	setF(&params.OpexPerMWh, s.OpexPerMWh)
	setF(&params.LevyRate, s.LevyRate)
	setF(&params.TotalCapex, s.TotalCapex)
	setF(&params.Degradation, s.Degradation)
	setF(&params.TaxRate, s.TaxRate)
	setF(&params.TerminalValue, s.TerminalValue)

	params, err := model.NewProjectParameters(params)
	if err != nil {
		return model.ProjectParameters{}, model.DebtStructure{}, err
	}

	setF(&debt.HardRate, s.HardRate)
	setF(&debt.DFIRate, s.DFIRate)
	setF(&debt.LocalRate, s.LocalRate)
	if s.GraceYears != nil {
		debt.GraceYears = *s.GraceYears
	}
	if s.TenorYears != nil {
		debt.TenorYears = *s.TenorYears
	}
	if s.Repayment != nil {
		switch *s.Repayment {
		case "equal_installment":
			debt.Method = model.EqualInstallment
		case "annuity":
			debt.Method = model.Annuity
		default:
			return model.ProjectParameters{}, model.DebtStructure{},
				fmt.Errorf("config: unknown repayment method %q", *s.Repayment)
		}
	}

	// Debt sizing: keep the template's leverage and split unless the
	// scenario moves them, re-levering against the effective capex.
	hardShare := 0.0
	if debt.TotalDebt > 0 {
		hardShare = debt.HardDebt / debt.TotalDebt
	}
	dfiShare := debt.DFIShare
	setF(&ratio, s.DebtRatio)
	setF(&hardShare, s.HardShare)
	setF(&dfiShare, s.DFIShare)

	debt, err = debt.Resize(params.TotalCapex, ratio, hardShare, dfiShare)
	if err != nil {
		return model.ProjectParameters{}, model.DebtStructure{}, err
	}
	return params, debt, nil
}
