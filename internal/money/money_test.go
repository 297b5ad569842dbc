package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestResolveUnitCostsInclusiveScenario(t *testing.T) {
	costs, err := ResolveUnitCosts(VATInclusive, ptr(dec("121.00")), nil, dec("0.21"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !costs.ExVAT.Equal(dec("100")) {
		t.Fatalf("expected unit ex VAT 100.00, got %s", costs.ExVAT)
	}

	totals := ComputeLineTotals(dec("10"), costs.ExVAT, dec("0.21"))
	if !totals.ExVAT.Equal(dec("1000")) {
		t.Fatalf("expected total ex VAT 1000.00, got %s", totals.ExVAT)
	}
	if !totals.VAT.Equal(dec("210")) {
		t.Fatalf("expected total VAT 210.00, got %s", totals.VAT)
	}
	if !totals.IncVAT.Equal(dec("1210")) {
		t.Fatalf("expected total inc VAT 1210.00, got %s", totals.IncVAT)
	}
}

func TestResolveUnitCostsExclusive(t *testing.T) {
	costs, err := ResolveUnitCosts(VATExclusive, nil, ptr(dec("2.00")), dec("0.21"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !costs.IncVAT.Equal(dec("2.42")) {
		t.Fatalf("expected 2.42, got %s", costs.IncVAT)
	}
}

func TestResolveUnitCostsRoundsOnlyUnitCost(t *testing.T) {
	// 10 / 1.21 = 8.2644... -> 8.26; totals are derived from the rounded unit cost
	costs, err := ResolveUnitCosts(VATInclusive, ptr(dec("10")), nil, dec("0.21"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !costs.ExVAT.Equal(dec("8.26")) {
		t.Fatalf("expected 8.26, got %s", costs.ExVAT)
	}

	totals := ComputeLineTotals(dec("3.5"), costs.ExVAT, dec("0.21"))
	if !totals.ExVAT.Equal(dec("28.91")) {
		t.Fatalf("expected 28.91, got %s", totals.ExVAT)
	}
	if !totals.VAT.Equal(dec("6.0711")) {
		t.Fatalf("expected unrounded VAT 6.0711, got %s", totals.VAT)
	}
}

func TestResolveUnitCostsFallsBackToSuppliedCost(t *testing.T) {
	costs, err := ResolveUnitCosts(VATInclusive, nil, ptr(dec("50")), dec("0.21"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !costs.IncVAT.Equal(dec("60.5")) {
		t.Fatalf("expected 60.50, got %s", costs.IncVAT)
	}
}

func TestResolveUnitCostsErrors(t *testing.T) {
	if _, err := ResolveUnitCosts(VATExclusive, nil, nil, dec("0.21")); !errors.Is(err, ErrMissingUnitCost) {
		t.Fatalf("expected ErrMissingUnitCost, got %v", err)
	}
	if _, err := ResolveUnitCosts(VATExclusive, nil, ptr(dec("-1")), dec("0.21")); !errors.Is(err, ErrNegativeUnitCost) {
		t.Fatalf("expected ErrNegativeUnitCost, got %v", err)
	}
}

func TestVATRoundTripWithinOneCent(t *testing.T) {
	cfg := DefaultConfig()
	cent := dec("0.01")

	for _, rate := range cfg.VATRates {
		for cents := int64(0); cents <= 50000; cents += 37 {
			ex := decimal.New(cents, -2)
			forward, err := ResolveUnitCosts(VATExclusive, nil, &ex, rate)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			back, err := ResolveUnitCosts(VATInclusive, &forward.IncVAT, nil, rate)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if back.ExVAT.Sub(ex).Abs().GreaterThan(cent) {
				t.Fatalf("rate %s: %s -> %s -> %s drifted more than a cent", rate, ex, forward.IncVAT, back.ExVAT)
			}
		}
	}
}

func TestLineTotalsIdentity(t *testing.T) {
	cases := []struct{ q, unit, rate string }{
		{"1", "0.01", "0.21"},
		{"12.3456", "7.77", "0.21"},
		{"0.5", "1999.99", "0"},
		{"1000", "3.33", "0.21"},
	}
	for _, tc := range cases {
		totals := ComputeLineTotals(dec(tc.q), dec(tc.unit), dec(tc.rate))
		if !totals.IncVAT.Equal(totals.ExVAT.Add(totals.VAT)) {
			t.Fatalf("%v: inc %s != ex %s + vat %s", tc, totals.IncVAT, totals.ExVAT, totals.VAT)
		}
	}
}

func TestDailyRateAndNet(t *testing.T) {
	rate := DailyRate(dec("6000"))
	if !rate.Equal(dec("276.9231")) {
		t.Fatalf("expected 276.9231, got %s", rate)
	}

	c := NetMonthly(dec("6000"), DefaultConfig())
	if !c.Social.Equal(dec("1500")) || !c.Health.Equal(dec("600")) {
		t.Fatalf("unexpected contributions: %+v", c)
	}
	if !c.IncomeTax.Equal(dec("390")) {
		t.Fatalf("expected income tax 390, got %s", c.IncomeTax)
	}
	if !c.Net.Equal(dec("3510")) {
		t.Fatalf("expected net 3510, got %s", c.Net)
	}
}

func TestNetMonthlyIncomeTaxFlooredAtZero(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SocialRate = dec("0.7")
	cfg.HealthRate = dec("0.4")

	c := NetMonthly(dec("1000"), cfg)
	if !c.IncomeTax.IsZero() {
		t.Fatalf("expected zero income tax, got %s", c.IncomeTax)
	}
}

func TestConfigVATRates(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.ValidVATRate(dec("0.21")) || !cfg.ValidVATRate(dec("0")) {
		t.Fatal("expected default rates to be valid")
	}
	if cfg.ValidVATRate(dec("0.19")) {
		t.Fatal("0.19 must not be valid")
	}
	if cfg.NormalizeCurrency(" gbp ") != CurrencyGBP || cfg.NormalizeCurrency("EUR") != CurrencyRON {
		t.Fatal("unexpected currency normalization")
	}
}
