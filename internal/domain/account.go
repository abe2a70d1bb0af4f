package domain

import "time"

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Account is a user's ledger identity. Balances are never stored on the
// account row; they are derived from the underlying transaction tables.
type Account struct {
	ID             int64     `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	DisplayName    string    `db:"display_name" json:"display_name"`
	ReferralCode   string    `db:"referral_code" json:"referral_code"`
	ReferredByCode *string   `db:"referred_by_code" json:"referred_by_code,omitempty"`
	Role           Role      `db:"role" json:"role"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
