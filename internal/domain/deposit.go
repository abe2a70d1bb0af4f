package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is one of the funding channels the platform accepts.
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentBMLCard      PaymentMethod = "bml_card"
	PaymentMIBTransfer  PaymentMethod = "mib_transfer"
)

// ValidPaymentMethod reports whether m is one of the supported methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentBankTransfer, PaymentBMLCard, PaymentMIBTransfer:
		return true
	}
	return false
}

type DepositStatus string

const (
	DepositStatusPending  DepositStatus = "pending"
	DepositStatusApproved DepositStatus = "approved"
	DepositStatusRejected DepositStatus = "rejected"
)

// Deposit is a user-submitted funding request. It is created pending and
// leaves that state exactly once, by an admin review. Only approved deposits
// count toward balances.
type Deposit struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod PaymentMethod   `db:"payment_method" json:"payment_method"`
	Status        DepositStatus   `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	ReviewedAt    *time.Time      `db:"reviewed_at" json:"reviewed_at,omitempty"`
}
