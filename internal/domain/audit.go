package domain

import "time"

// AuditLog records a balance-affecting or administrative action.
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Audit categories
const (
	AuditCategoryAuth       = "auth"
	AuditCategoryLedger     = "ledger"
	AuditCategoryAdmin      = "admin"
	AuditCategoryWithdrawal = "withdrawal"
)

// Audit actions
const (
	AuditActionRegister = "register"
	AuditActionLogin    = "login"

	AuditActionDepositRecorded = "deposit_recorded"
	AuditActionDepositApproved = "deposit_approved"
	AuditActionDepositRejected = "deposit_rejected"

	AuditActionReinvest = "reinvest"

	AuditActionWithdrawRequest = "withdraw_request"
	AuditActionWithdrawApprove = "withdraw_approve"
	AuditActionWithdrawReject  = "withdraw_reject"

	AuditActionSettingUpdated = "setting_updated"
)
