package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestReferralCommission(t *testing.T) {
	cases := []struct {
		amount  string
		level   int
		want    string
		wantPct string
	}{
		{"1000", ReferralLevelDirect, "100.00", "10"},
		{"1000", ReferralLevelIndirect, "50.00", "5"},
		{"33.33", ReferralLevelDirect, "3.33", "10"},
		{"10", ReferralLevelIndirect, "0.50", "5"},
	}

	for _, c := range cases {
		got, pct := ReferralCommission(decimal.RequireFromString(c.amount), c.level)
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("ReferralCommission(%s, %d) = %s, want %s", c.amount, c.level, got, c.want)
		}
		if !pct.Equal(decimal.RequireFromString(c.wantPct)) {
			t.Errorf("ReferralCommission(%s, %d) pct = %s, want %s", c.amount, c.level, pct, c.wantPct)
		}
	}
}

func TestReferralCommission_UnknownLevel(t *testing.T) {
	got, pct := ReferralCommission(decimal.NewFromInt(1000), 3)
	if !got.IsZero() || !pct.IsZero() {
		t.Errorf("level 3 commission = %s at %s%%, want zero", got, pct)
	}
}
