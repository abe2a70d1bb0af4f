package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Platform setting keys understood by the ledger. Values are read at the
// moment of use, never cached across operations.
const (
	SettingReinvestmentBonusPercentage = "reinvestment_bonus_percentage"
	SettingMinimumDeposit              = "minimum_deposit"
	SettingReinvestmentTermDays        = "reinvestment_term_days"
)

// Defaults applied when a setting row is absent.
var (
	DefaultReinvestmentBonusPercentage = decimal.NewFromInt(10)
	DefaultMinimumDeposit              = decimal.RequireFromString("10.00")
	DefaultReinvestmentTermDays        = 365
)

type PlatformSetting struct {
	Key       string    `db:"setting_key" json:"setting_key"`
	Value     string    `db:"setting_value" json:"setting_value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ValidateSetting checks that key is known and value parses into the range
// the key requires.
func ValidateSetting(key, value string) error {
	switch key {
	case SettingReinvestmentBonusPercentage:
		pct, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be numeric", ErrValidation, key)
		}
		if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: %s must be between 0 and 100", ErrValidation, key)
		}
	case SettingMinimumDeposit:
		min, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be numeric", ErrValidation, key)
		}
		if !min.IsPositive() {
			return fmt.Errorf("%w: %s must be positive", ErrValidation, key)
		}
	case SettingReinvestmentTermDays:
		days, err := decimal.NewFromString(value)
		if err != nil || !days.IsInteger() || !days.IsPositive() {
			return fmt.Errorf("%w: %s must be a positive whole number of days", ErrValidation, key)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSettingKey, key)
	}
	return nil
}
