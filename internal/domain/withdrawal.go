package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MinWalletAddressLength is a sanity threshold for destination addresses,
// not cryptographic validation.
const MinWalletAddressLength = 20

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Withdrawal is a request to pay out available earnings. The amount is
// reserved against the earnings pool while the request is pending or
// approved; rejection releases the reservation.
type Withdrawal struct {
	ID            int64            `db:"id" json:"id"`
	UserID        int64            `db:"user_id" json:"user_id"`
	Amount        decimal.Decimal  `db:"amount" json:"amount"`
	WalletAddress string           `db:"wallet_address" json:"wallet_address"`
	Notes         string           `db:"notes" json:"notes,omitempty"`
	Status        WithdrawalStatus `db:"status" json:"status"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	ReviewedAt    *time.Time       `db:"reviewed_at" json:"reviewed_at,omitempty"`
}
