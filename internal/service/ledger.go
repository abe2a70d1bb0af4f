package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invest_platform/internal/domain"
	"invest_platform/internal/logger"
	"invest_platform/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// EventNotifier pushes ledger events to connected clients. A nil notifier
// disables pushes without affecting the ledger.
type EventNotifier interface {
	NotifyUser(userID int64, event string, payload interface{})
}

// Ledger event types pushed over the websocket.
const (
	EventDepositReviewed    = "deposit_reviewed"
	EventWithdrawalReviewed = "withdrawal_reviewed"
	EventBalanceChanged     = "balance_changed"
)

// LedgerService owns every balance-affecting operation. Balances are never
// stored: they are derived from immutable deposit, reinvestment, referral and
// withdrawal rows. Operations that spend funds recompute availability inside
// a transaction holding the user's account row lock, so two concurrent spends
// serialize and the loser sees the winner's debit.
type LedgerService struct {
	db            *pgxpool.Pool
	accounts      *repository.AccountRepository
	deposits      *repository.DepositRepository
	reinvestments *repository.ReinvestmentRepository
	referrals     *repository.ReferralRepository
	withdrawals   *repository.WithdrawalRepository
	settings      *repository.SettingRepository
	audit         *AuditService
	notifier      EventNotifier
}

func NewLedgerService(db *pgxpool.Pool, audit *AuditService, notifier EventNotifier) *LedgerService {
	return &LedgerService{
		db:            db,
		accounts:      repository.NewAccountRepository(db),
		deposits:      repository.NewDepositRepository(db),
		reinvestments: repository.NewReinvestmentRepository(db),
		referrals:     repository.NewReferralRepository(db),
		withdrawals:   repository.NewWithdrawalRepository(db),
		settings:      repository.NewSettingRepository(db),
		audit:         audit,
		notifier:      notifier,
	}
}

func (s *LedgerService) notify(userID int64, event string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.NotifyUser(userID, event, payload)
	}
}

// RecordDeposit files a pending deposit claim. Nothing is credited until an
// admin approves it.
func (s *LedgerService) RecordDeposit(ctx context.Context, userID int64, amount decimal.Decimal, method domain.PaymentMethod) (d *domain.Deposit, err error) {
	defer func() { observeLedgerOp("record_deposit", err) }()

	if !domain.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrValidation, method)
	}

	minDeposit, err := s.settings.GetDecimal(ctx, domain.SettingMinimumDeposit, domain.DefaultMinimumDeposit)
	if err != nil {
		return nil, fmt.Errorf("read minimum deposit: %w", err)
	}
	if amount.LessThan(minDeposit) {
		return nil, fmt.Errorf("%w: minimum deposit is %s", domain.ErrValidation, minDeposit.StringFixed(2))
	}

	d = &domain.Deposit{
		UserID:        userID,
		Amount:        amount.Round(2),
		PaymentMethod: method,
		Status:        domain.DepositStatusPending,
	}
	if err = s.deposits.Create(ctx, d); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, userID, domain.AuditActionDepositRecorded, domain.AuditCategoryLedger, map[string]interface{}{
		"deposit_id": d.ID,
		"amount":     d.Amount.String(),
		"method":     string(method),
	})
	logger.Info("deposit recorded", "user_id", userID, "deposit_id", d.ID, "amount", d.Amount.String())

	return d, nil
}

// ApproveDeposit credits a pending deposit and pays referral commissions in
// the same transaction. Approving a deposit that already left the pending
// state returns domain.ErrInvalidState.
func (s *LedgerService) ApproveDeposit(ctx context.Context, caller *domain.Account, depositID int64) (err error) {
	defer func() { observeLedgerOp("approve_deposit", err) }()
	return s.reviewDeposit(ctx, caller, depositID, domain.DepositStatusApproved)
}

// RejectDeposit declines a pending deposit. The claim stays on record but
// never counts toward any balance.
func (s *LedgerService) RejectDeposit(ctx context.Context, caller *domain.Account, depositID int64) (err error) {
	defer func() { observeLedgerOp("reject_deposit", err) }()
	return s.reviewDeposit(ctx, caller, depositID, domain.DepositStatusRejected)
}

func (s *LedgerService) reviewDeposit(ctx context.Context, caller *domain.Account, depositID int64, status domain.DepositStatus) error {
	if caller == nil {
		return domain.ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		return domain.ErrAdminOnly
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	dep, err := s.deposits.GetByIDWithTx(ctx, tx, depositID)
	if err != nil {
		return err
	}

	ok, err := s.deposits.ReviewWithTx(ctx, tx, depositID, status)
	if err != nil {
		return fmt.Errorf("review deposit: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: deposit %d is %s", domain.ErrInvalidState, depositID, dep.Status)
	}

	if status == domain.DepositStatusApproved {
		if err := s.payReferralCommissions(ctx, tx, dep); err != nil {
			return fmt.Errorf("pay referral commissions: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	action := domain.AuditActionDepositApproved
	if status == domain.DepositStatusRejected {
		action = domain.AuditActionDepositRejected
	}
	s.audit.LogAdminAction(ctx, caller.ID, action, dep.UserID, map[string]interface{}{
		"deposit_id": dep.ID,
		"amount":     dep.Amount.String(),
	})
	logger.Info("deposit reviewed",
		"deposit_id", dep.ID, "user_id", dep.UserID, "status", status, "admin_id", caller.ID)

	s.notify(dep.UserID, EventDepositReviewed, map[string]interface{}{
		"deposit_id": dep.ID,
		"status":     status,
		"amount":     dep.Amount.String(),
	})
	if status == domain.DepositStatusApproved {
		s.notify(dep.UserID, EventBalanceChanged, nil)
	}

	return nil
}

// payReferralCommissions credits the depositor's referrer chain: 10% of the
// deposit to the direct referrer, 5% to the referrer's referrer. Runs inside
// the approval transaction so the commissions land with the credit or not at
// all.
func (s *LedgerService) payReferralCommissions(ctx context.Context, tx pgx.Tx, dep *domain.Deposit) error {
	depositor, err := s.accounts.GetByID(ctx, dep.UserID)
	if err != nil {
		return err
	}

	code := depositor.ReferredByCode
	for level := domain.ReferralLevelDirect; level <= domain.ReferralLevelIndirect; level++ {
		if code == nil {
			return nil
		}
		referrer, err := s.accounts.GetByReferralCode(ctx, *code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// referral_code is a foreign key, a dangling code means
				// manual data surgery; skip rather than block the approval
				logger.Warn("dangling referral code", "code", *code, "deposit_id", dep.ID)
				return nil
			}
			return err
		}

		amount, pct := domain.ReferralCommission(dep.Amount, level)
		if amount.IsPositive() {
			earning := &domain.ReferralEarning{
				UserID:     referrer.ID,
				FromUserID: dep.UserID,
				Level:      level,
				Percentage: pct,
				Amount:     amount,
			}
			if err := s.referrals.CreateWithTx(ctx, tx, earning); err != nil {
				return err
			}
		}
		code = referrer.ReferredByCode
	}
	return nil
}

// ComputeBalance derives the read-only balance view from ledger rows.
func (s *LedgerService) ComputeBalance(ctx context.Context, userID int64) (*domain.Balance, error) {
	deposited, err := s.deposits.SumApprovedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sum deposits: %w", err)
	}
	sums, err := s.reinvestments.SumsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sum reinvestments: %w", err)
	}
	referral, err := s.referrals.SumByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sum referral earnings: %w", err)
	}
	reserved, err := s.withdrawals.SumReservedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sum reservations: %w", err)
	}

	bal := domain.ComposeBalance(deposited, sums.TotalPrincipal, sums.ActivePrincipal, sums.MaturedReturns, referral, reserved)
	return &bal, nil
}

// balanceWithTx recomputes availability inside an open transaction. Callers
// must hold the account row lock so the components cannot shift underneath.
func (s *LedgerService) balanceWithTx(ctx context.Context, tx pgx.Tx, userID int64) (domain.Balance, error) {
	deposited, err := s.deposits.SumApprovedByUserWithTx(ctx, tx, userID)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("sum deposits: %w", err)
	}
	sums, err := s.reinvestments.SumsByUserWithTx(ctx, tx, userID)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("sum reinvestments: %w", err)
	}
	referral, err := s.referrals.SumByUserWithTx(ctx, tx, userID)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("sum referral earnings: %w", err)
	}
	reserved, err := s.withdrawals.SumReservedByUserWithTx(ctx, tx, userID)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("sum reservations: %w", err)
	}

	return domain.ComposeBalance(deposited, sums.TotalPrincipal, sums.ActivePrincipal, sums.MaturedReturns, referral, reserved), nil
}

// Reinvest converts available funds into a term position. The bonus
// percentage and term are read from platform settings at this moment and
// frozen onto the row. Fails with domain.ErrInsufficientFunds when amount
// exceeds availability under the account lock.
func (s *LedgerService) Reinvest(ctx context.Context, userID int64, amount decimal.Decimal) (ri *domain.Reinvestment, err error) {
	defer func() { observeLedgerOp("reinvest", err) }()

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: reinvestment amount must be positive", domain.ErrValidation)
	}
	amount = amount.Round(2)

	bonusPct, err := s.settings.GetDecimal(ctx, domain.SettingReinvestmentBonusPercentage, domain.DefaultReinvestmentBonusPercentage)
	if err != nil {
		return nil, fmt.Errorf("read bonus percentage: %w", err)
	}
	termDays, err := s.settings.GetInt(ctx, domain.SettingReinvestmentTermDays, domain.DefaultReinvestmentTermDays)
	if err != nil {
		return nil, fmt.Errorf("read term: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err = s.accounts.LockForLedger(ctx, tx, userID); err != nil {
		return nil, err
	}

	bal, err := s.balanceWithTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(bal.Available) {
		return nil, fmt.Errorf("%w: available %s, requested %s",
			domain.ErrInsufficientFunds, bal.Available.StringFixed(2), amount.StringFixed(2))
	}

	ri = &domain.Reinvestment{
		UserID:          userID,
		OriginalAmount:  amount,
		BonusAmount:     domain.ReinvestmentBonus(amount, bonusPct),
		BonusPercentage: bonusPct,
		MaturityDate:    time.Now().AddDate(0, 0, termDays),
		Status:          domain.ReinvestmentStatusActive,
	}
	if err = s.reinvestments.CreateWithTx(ctx, tx, ri); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.audit.Log(ctx, userID, domain.AuditActionReinvest, domain.AuditCategoryLedger, map[string]interface{}{
		"reinvestment_id": ri.ID,
		"amount":          ri.OriginalAmount.String(),
		"bonus":           ri.BonusAmount.String(),
		"maturity_date":   ri.MaturityDate.Format(time.RFC3339),
	})
	logger.Info("reinvestment created",
		"user_id", userID, "reinvestment_id", ri.ID, "amount", ri.OriginalAmount.String())

	s.notify(userID, EventBalanceChanged, nil)

	return ri, nil
}

// RequestWithdrawal files a payout request and reserves the amount against
// the user's availability. The reservation holds while the request is pending
// or approved; rejection releases it.
func (s *LedgerService) RequestWithdrawal(ctx context.Context, userID int64, amount decimal.Decimal, walletAddress, notes string) (w *domain.Withdrawal, err error) {
	defer func() { observeLedgerOp("request_withdrawal", err) }()

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", domain.ErrValidation)
	}
	if len(walletAddress) < domain.MinWalletAddressLength {
		return nil, fmt.Errorf("%w: wallet address must be at least %d characters",
			domain.ErrValidation, domain.MinWalletAddressLength)
	}
	amount = amount.Round(2)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err = s.accounts.LockForLedger(ctx, tx, userID); err != nil {
		return nil, err
	}

	bal, err := s.balanceWithTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(bal.Available) {
		return nil, fmt.Errorf("%w: available %s, requested %s",
			domain.ErrInsufficientFunds, bal.Available.StringFixed(2), amount.StringFixed(2))
	}

	w = &domain.Withdrawal{
		UserID:        userID,
		Amount:        amount,
		WalletAddress: walletAddress,
		Notes:         notes,
		Status:        domain.WithdrawalStatusPending,
	}
	if err = s.withdrawals.CreateWithTx(ctx, tx, w); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.audit.Log(ctx, userID, domain.AuditActionWithdrawRequest, domain.AuditCategoryWithdrawal, map[string]interface{}{
		"withdrawal_id":  w.ID,
		"amount":         w.Amount.String(),
		"wallet_address": w.WalletAddress,
	})
	logger.Info("withdrawal requested", "user_id", userID, "withdrawal_id", w.ID, "amount", w.Amount.String())

	s.notify(userID, EventBalanceChanged, nil)

	return w, nil
}

// ApproveWithdrawal marks a pending withdrawal as paid out. The amount stays
// deducted permanently.
func (s *LedgerService) ApproveWithdrawal(ctx context.Context, caller *domain.Account, withdrawalID int64) (err error) {
	defer func() { observeLedgerOp("approve_withdrawal", err) }()
	return s.reviewWithdrawal(ctx, caller, withdrawalID, domain.WithdrawalStatusApproved)
}

// RejectWithdrawal declines a pending withdrawal, releasing its reservation
// back into the user's availability.
func (s *LedgerService) RejectWithdrawal(ctx context.Context, caller *domain.Account, withdrawalID int64) (err error) {
	defer func() { observeLedgerOp("reject_withdrawal", err) }()
	return s.reviewWithdrawal(ctx, caller, withdrawalID, domain.WithdrawalStatusRejected)
}

func (s *LedgerService) reviewWithdrawal(ctx context.Context, caller *domain.Account, withdrawalID int64, status domain.WithdrawalStatus) error {
	if caller == nil {
		return domain.ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		return domain.ErrAdminOnly
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	w, err := s.withdrawals.GetByIDWithTx(ctx, tx, withdrawalID)
	if err != nil {
		return err
	}

	ok, err := s.withdrawals.ReviewWithTx(ctx, tx, withdrawalID, status)
	if err != nil {
		return fmt.Errorf("review withdrawal: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: withdrawal %d is %s", domain.ErrInvalidState, withdrawalID, w.Status)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	action := domain.AuditActionWithdrawApprove
	if status == domain.WithdrawalStatusRejected {
		action = domain.AuditActionWithdrawReject
	}
	s.audit.LogAdminAction(ctx, caller.ID, action, w.UserID, map[string]interface{}{
		"withdrawal_id": w.ID,
		"amount":        w.Amount.String(),
	})
	logger.Info("withdrawal reviewed",
		"withdrawal_id", w.ID, "user_id", w.UserID, "status", status, "admin_id", caller.ID)

	s.notify(w.UserID, EventWithdrawalReviewed, map[string]interface{}{
		"withdrawal_id": w.ID,
		"status":        status,
		"amount":        w.Amount.String(),
	})
	if status == domain.WithdrawalStatusRejected {
		// reservation released, availability went up
		s.notify(w.UserID, EventBalanceChanged, nil)
	}

	return nil
}

// UpdatePlatformSetting validates and writes an admin-tunable setting.
// Existing reinvestments keep the terms frozen at their creation.
func (s *LedgerService) UpdatePlatformSetting(ctx context.Context, caller *domain.Account, key, value string) (err error) {
	defer func() { observeLedgerOp("update_setting", err) }()

	if caller == nil {
		return domain.ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		return domain.ErrAdminOnly
	}

	if err = domain.ValidateSetting(key, value); err != nil {
		return err
	}
	if err = s.settings.Upsert(ctx, key, value); err != nil {
		return fmt.Errorf("write setting: %w", err)
	}

	s.audit.Log(ctx, caller.ID, domain.AuditActionSettingUpdated, domain.AuditCategoryAdmin, map[string]interface{}{
		"key":   key,
		"value": value,
	})
	logger.Info("platform setting updated", "key", key, "value", value, "admin_id", caller.ID)

	return nil
}

// ListDeposits returns a user's deposit history, newest first.
func (s *LedgerService) ListDeposits(ctx context.Context, userID int64, limit int) ([]domain.Deposit, error) {
	return s.deposits.ListByUser(ctx, userID, limit)
}

// ListReinvestments returns a user's positions with maturity applied at read
// time.
func (s *LedgerService) ListReinvestments(ctx context.Context, userID int64, limit int) ([]domain.Reinvestment, error) {
	list, err := s.reinvestments.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range list {
		list[i].Status = list[i].EffectiveStatus(now)
	}
	return list, nil
}

// ListWithdrawals returns a user's withdrawal history, newest first.
func (s *LedgerService) ListWithdrawals(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	return s.withdrawals.ListByUser(ctx, userID, limit)
}

// ListReferralEarnings returns a user's referral income, newest first.
func (s *LedgerService) ListReferralEarnings(ctx context.Context, userID int64, limit int) ([]domain.ReferralEarning, error) {
	return s.referrals.ListByUser(ctx, userID, limit)
}

// ReferralStats aggregates a user's referral earnings per level.
func (s *LedgerService) ReferralStats(ctx context.Context, userID int64) (*domain.ReferralStats, error) {
	return s.referrals.StatsByUser(ctx, userID)
}

// ListSettings returns all platform settings.
func (s *LedgerService) ListSettings(ctx context.Context) ([]domain.PlatformSetting, error) {
	return s.settings.List(ctx)
}
