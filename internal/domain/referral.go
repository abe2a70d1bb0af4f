package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ReferralLevelDirect   = 1
	ReferralLevelIndirect = 2
)

// Referral commission rates per level, percent of the approved deposit.
var (
	ReferralLevel1Percent = decimal.NewFromInt(10)
	ReferralLevel2Percent = decimal.NewFromInt(5)
)

// ReferralEarning is income credited to an account from a referred user's
// approved deposit. Level 1 is a direct referral, level 2 the referral of a
// referral. Amounts are immutable once recorded.
type ReferralEarning struct {
	ID         int64           `db:"id" json:"id"`
	UserID     int64           `db:"user_id" json:"user_id"`
	FromUserID int64           `db:"from_user_id" json:"from_user_id"`
	Level      int             `db:"level" json:"level"`
	Percentage decimal.Decimal `db:"percentage" json:"percentage"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// ReferralCommission returns the commission for a deposit amount at the
// given referral level, rounded to cents. Unknown levels earn nothing.
func ReferralCommission(amount decimal.Decimal, level int) (decimal.Decimal, decimal.Decimal) {
	var pct decimal.Decimal
	switch level {
	case ReferralLevelDirect:
		pct = ReferralLevel1Percent
	case ReferralLevelIndirect:
		pct = ReferralLevel2Percent
	default:
		return decimal.Zero, decimal.Zero
	}
	return amount.Mul(pct).Div(decimal.NewFromInt(100)).Round(2), pct
}

// ReferralStats is the per-level aggregation shown on the dashboard.
type ReferralStats struct {
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	Level1Earnings decimal.Decimal `json:"level_1_earnings"`
	Level2Earnings decimal.Decimal `json:"level_2_earnings"`
	Level1Count    int             `json:"level_1_count"`
	Level2Count    int             `json:"level_2_count"`
}
