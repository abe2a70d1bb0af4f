package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComposeBalance_DepositOnly(t *testing.T) {
	b := ComposeBalance(dec("500"), dec("0"), dec("0"), dec("0"), dec("0"), dec("0"))

	if !b.Available.Equal(dec("500")) {
		t.Errorf("available = %s, want 500", b.Available)
	}
	if !b.Total.Equal(dec("500")) {
		t.Errorf("total = %s, want 500", b.Total)
	}
}

func TestComposeBalance_ReinvestLocksFundsWithoutChangingTotal(t *testing.T) {
	// 500 deposited, all of it reinvested and still locked
	b := ComposeBalance(dec("500"), dec("500"), dec("500"), dec("0"), dec("0"), dec("0"))

	if !b.Available.Equal(dec("0")) {
		t.Errorf("available = %s, want 0", b.Available)
	}
	if !b.Total.Equal(dec("500")) {
		t.Errorf("total = %s, want 500", b.Total)
	}
}

func TestComposeBalance_MaturityReleasesPrincipalPlusBonus(t *testing.T) {
	// the 500 position matured with a 10% bonus
	b := ComposeBalance(dec("500"), dec("500"), dec("0"), dec("550"), dec("0"), dec("0"))

	if !b.Available.Equal(dec("550")) {
		t.Errorf("available = %s, want 550", b.Available)
	}
	if !b.Total.Equal(dec("550")) {
		t.Errorf("total = %s, want 550", b.Total)
	}
}

func TestComposeBalance_ReservationReducesAvailableOnly(t *testing.T) {
	b := ComposeBalance(dec("1000"), dec("0"), dec("0"), dec("0"), dec("100"), dec("300"))

	if !b.Available.Equal(dec("800")) {
		t.Errorf("available = %s, want 800", b.Available)
	}
	if !b.Total.Equal(dec("800")) {
		t.Errorf("total = %s, want 800", b.Total)
	}
	if !b.Reserved.Equal(dec("300")) {
		t.Errorf("reserved = %s, want 300", b.Reserved)
	}
}

func TestComposeBalance_ReferralEarningsAreSpendable(t *testing.T) {
	b := ComposeBalance(dec("0"), dec("0"), dec("0"), dec("0"), dec("50"), dec("0"))

	if !b.Available.Equal(dec("50")) {
		t.Errorf("available = %s, want 50", b.Available)
	}
}

func TestComposeBalance_MixedLedger(t *testing.T) {
	// 1000 deposited, 400 reinvested (300 still active, 100 matured with
	// 10 bonus), 50 referral income, 200 reserved
	b := ComposeBalance(dec("1000"), dec("400"), dec("300"), dec("110"), dec("50"), dec("200"))

	if !b.Available.Equal(dec("560")) {
		t.Errorf("available = %s, want 560", b.Available)
	}
	if !b.Total.Equal(dec("860")) {
		t.Errorf("total = %s, want 860", b.Total)
	}
}
