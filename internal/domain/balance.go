package domain

import "github.com/shopspring/decimal"

// Balance is the read-time view of an account's ledger. Every field is an
// aggregation over immutable rows; nothing here is ever stored back.
type Balance struct {
	TotalDeposited   decimal.Decimal `json:"total_deposited"`
	TotalReinvested  decimal.Decimal `json:"total_reinvested"`
	ReferralEarnings decimal.Decimal `json:"referral_earnings"`
	MaturedReturns   decimal.Decimal `json:"matured_returns"`
	Reserved         decimal.Decimal `json:"reserved"`
	Available        decimal.Decimal `json:"available"`
	Total            decimal.Decimal `json:"total"`
}

// ComposeBalance derives the spendable and total view from component sums.
//
//	totalReinvested — principal of all non-cancelled positions
//	activePrincipal — principal still locked in unmatured positions
//	maturedReturns  — principal plus bonus of positions past maturity
//	reserved        — pending and approved withdrawal amounts
//
// Reinvesting moves funds between pools, it never changes the total; the
// bonus enters the spendable pool only through maturedReturns.
func ComposeBalance(deposited, totalReinvested, activePrincipal, maturedReturns, referral, reserved decimal.Decimal) Balance {
	available := deposited.Add(referral).Sub(totalReinvested).Add(maturedReturns).Sub(reserved)
	return Balance{
		TotalDeposited:   deposited,
		TotalReinvested:  totalReinvested,
		ReferralEarnings: referral,
		MaturedReturns:   maturedReturns,
		Reserved:         reserved,
		Available:        available,
		Total:            available.Add(activePrincipal),
	}
}
