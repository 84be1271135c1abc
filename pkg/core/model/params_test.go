package model

import "testing"

func TestDefaultParametersAreValid(t *testing.T) {
	if err := DefaultParameters().Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ProjectParameters)
	}{
		{"zero capacity", func(p *ProjectParameters) { p.CapacityMW = 0 }},
		{"capacity factor above 1", func(p *ProjectParameters) { p.CapacityFactor = 1.2 }},
		{"zero operating life", func(p *ProjectParameters) { p.OperatingYears = 0 }},
		{"no construction years", func(p *ProjectParameters) { p.ConstructionYears = 0 }},
		{"negative capex", func(p *ProjectParameters) { p.TotalCapex = -10 }},
		{"zero tariff", func(p *ProjectParameters) { p.TariffLKRPerKWh = 0 }},
		{"zero FX rate", func(p *ProjectParameters) { p.FXInitial = 0 }},
		{"full degradation", func(p *ProjectParameters) { p.Degradation = 1 }},
		{"opex share above 1", func(p *ProjectParameters) { p.OpexShareUSD = 1.5 }},
		{"confiscatory levy", func(p *ProjectParameters) { p.LevyRate = 1 }},
		{"confiscatory tax", func(p *ProjectParameters) { p.TaxRate = 1 }},
	}
	for _, tc := range cases {
		p := DefaultParameters()
		tc.mutate(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}

func TestNewProjectParametersRejectsInvalid(t *testing.T) {
	p := DefaultParameters()
	p.CapacityFactor = -0.1
	if _, err := NewProjectParameters(p); err == nil {
		t.Errorf("Expected an error for a negative capacity factor")
	}
}

func TestWithCapacityFactor(t *testing.T) {
	base := DefaultParameters()
	derived, err := base.WithCapacityFactor(0.38)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if derived.CapacityFactor != 0.38 {
		t.Errorf("Expected capacity factor 0.38, got %f", derived.CapacityFactor)
	}
	if derived.TotalCapex != base.TotalCapex || derived.TariffLKRPerKWh != base.TariffLKRPerKWh {
		t.Errorf("Expected every other field to carry over unchanged")
	}
	// The receiver is a value: the base must be untouched.
	if base.CapacityFactor != 0.40 {
		t.Errorf("Expected base capacity factor 0.40, got %f", base.CapacityFactor)
	}
}

func TestWithCapacityFactorValidates(t *testing.T) {
	if _, err := DefaultParameters().WithCapacityFactor(1.5); err == nil {
		t.Errorf("Expected an error for a capacity factor above 1")
	}
}

func TestWithTotalCapexValidates(t *testing.T) {
	if _, err := DefaultParameters().WithTotalCapex(0); err == nil {
		t.Errorf("Expected an error for zero capex")
	}
}
