package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestReinvestmentBonus(t *testing.T) {
	cases := []struct {
		amount     string
		percentage string
		want       string
	}{
		{"500", "10", "50.00"},
		{"100", "10", "10.00"},
		{"33.33", "10", "3.33"},
		{"100", "0", "0.00"},
		{"0.01", "5", "0.00"},
		{"1000", "7.5", "75.00"},
	}

	for _, c := range cases {
		got := ReinvestmentBonus(decimal.RequireFromString(c.amount), decimal.RequireFromString(c.percentage))
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("ReinvestmentBonus(%s, %s) = %s, want %s", c.amount, c.percentage, got, c.want)
		}
	}
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Now()

	active := &Reinvestment{Status: ReinvestmentStatusActive, MaturityDate: now.Add(24 * time.Hour)}
	if got := active.EffectiveStatus(now); got != ReinvestmentStatusActive {
		t.Errorf("unmatured position reads as %s, want active", got)
	}

	past := &Reinvestment{Status: ReinvestmentStatusActive, MaturityDate: now.Add(-time.Minute)}
	if got := past.EffectiveStatus(now); got != ReinvestmentStatusMatured {
		t.Errorf("past-maturity position reads as %s, want matured", got)
	}
	if !past.Matured(now) {
		t.Error("past-maturity position should report Matured")
	}

	// exact maturity instant counts as matured
	exact := &Reinvestment{Status: ReinvestmentStatusActive, MaturityDate: now}
	if got := exact.EffectiveStatus(now); got != ReinvestmentStatusMatured {
		t.Errorf("position at maturity instant reads as %s, want matured", got)
	}

	cancelled := &Reinvestment{Status: ReinvestmentStatusCancelled, MaturityDate: now.Add(-time.Hour)}
	if got := cancelled.EffectiveStatus(now); got != ReinvestmentStatusCancelled {
		t.Errorf("cancelled position reads as %s, want cancelled", got)
	}
}
