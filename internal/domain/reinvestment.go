package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReinvestmentStatus string

const (
	ReinvestmentStatusActive    ReinvestmentStatus = "active"
	ReinvestmentStatusMatured   ReinvestmentStatus = "matured"
	ReinvestmentStatusCancelled ReinvestmentStatus = "cancelled"
)

// Reinvestment converts available earnings into a term position with a
// one-time bonus. The bonus is computed from the platform setting at creation
// and frozen; later setting changes never touch existing rows.
type Reinvestment struct {
	ID              int64              `db:"id" json:"id"`
	UserID          int64              `db:"user_id" json:"user_id"`
	OriginalAmount  decimal.Decimal    `db:"original_amount" json:"original_amount"`
	BonusAmount     decimal.Decimal    `db:"bonus_amount" json:"bonus_amount"`
	BonusPercentage decimal.Decimal    `db:"bonus_percentage" json:"bonus_percentage"`
	MaturityDate    time.Time          `db:"maturity_date" json:"maturity_date"`
	Status          ReinvestmentStatus `db:"status" json:"status"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
}

// ReinvestmentBonus computes the one-time bonus for a principal at the given
// percentage, rounded to cents.
func ReinvestmentBonus(amount, percentage decimal.Decimal) decimal.Decimal {
	return amount.Mul(percentage).Div(decimal.NewFromInt(100)).Round(2)
}

// EffectiveStatus derives the status visible at read time: an active position
// whose maturity date has passed reads as matured. No scheduler flips rows.
func (r *Reinvestment) EffectiveStatus(now time.Time) ReinvestmentStatus {
	if r.Status == ReinvestmentStatusActive && !now.Before(r.MaturityDate) {
		return ReinvestmentStatusMatured
	}
	return r.Status
}

// Matured reports whether the position's term has completed.
func (r *Reinvestment) Matured(now time.Time) bool {
	return r.EffectiveStatus(now) == ReinvestmentStatusMatured
}
