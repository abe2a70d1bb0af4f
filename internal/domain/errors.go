package domain

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrAdminOnly            = errors.New("admin role required")
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrInvalidState         = errors.New("record is not in the required state")
	ErrNotFound             = errors.New("not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	ErrUnknownReferralCode  = errors.New("unknown referral code")
	ErrUnknownSettingKey    = errors.New("unknown setting key")
)
