package domain

import (
	"errors"
	"testing"
)

func TestValidateSetting(t *testing.T) {
	valid := []struct{ key, value string }{
		{SettingReinvestmentBonusPercentage, "10"},
		{SettingReinvestmentBonusPercentage, "0"},
		{SettingReinvestmentBonusPercentage, "12.5"},
		{SettingMinimumDeposit, "10.00"},
		{SettingMinimumDeposit, "0.01"},
		{SettingReinvestmentTermDays, "365"},
		{SettingReinvestmentTermDays, "1"},
	}
	for _, c := range valid {
		if err := ValidateSetting(c.key, c.value); err != nil {
			t.Errorf("ValidateSetting(%s, %s) = %v, want nil", c.key, c.value, err)
		}
	}

	invalid := []struct{ key, value string }{
		{SettingReinvestmentBonusPercentage, "abc"},
		{SettingReinvestmentBonusPercentage, "-1"},
		{SettingReinvestmentBonusPercentage, "101"},
		{SettingMinimumDeposit, "0"},
		{SettingMinimumDeposit, "-5"},
		{SettingReinvestmentTermDays, "0"},
		{SettingReinvestmentTermDays, "1.5"},
		{SettingReinvestmentTermDays, "-10"},
	}
	for _, c := range invalid {
		err := ValidateSetting(c.key, c.value)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateSetting(%s, %s) = %v, want ErrValidation", c.key, c.value, err)
		}
	}
}

func TestValidateSetting_UnknownKey(t *testing.T) {
	err := ValidateSetting("withdrawal_fee", "2")
	if !errors.Is(err, ErrUnknownSettingKey) {
		t.Errorf("unknown key error = %v, want ErrUnknownSettingKey", err)
	}
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentBankTransfer, PaymentBMLCard, PaymentMIBTransfer} {
		if !ValidPaymentMethod(m) {
			t.Errorf("%s should be valid", m)
		}
	}
	if ValidPaymentMethod("paypal") {
		t.Error("paypal should not be valid")
	}
}
