package service

import (
	"context"
	"fmt"

	"invest_platform/internal/domain"
	"invest_platform/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Platform fee taken on approved deposit volume, percent.
var platformFeePercent = decimal.NewFromInt(2)

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	TotalUsers         int64           `json:"total_users"`
	ApprovedVolume     decimal.Decimal `json:"approved_volume"`
	PendingDeposits    int64           `json:"pending_deposits"`
	PendingWithdrawals int64           `json:"pending_withdrawals"`
	PlatformEarnings   decimal.Decimal `json:"platform_earnings"`
}

// AdminService serves the review queues and platform-wide aggregates.
type AdminService struct {
	accounts    *repository.AccountRepository
	deposits    *repository.DepositRepository
	withdrawals *repository.WithdrawalRepository
}

func NewAdminService(db *pgxpool.Pool) *AdminService {
	return &AdminService{
		accounts:    repository.NewAccountRepository(db),
		deposits:    repository.NewDepositRepository(db),
		withdrawals: repository.NewWithdrawalRepository(db),
	}
}

// Stats aggregates the platform summary shown on the admin dashboard.
func (s *AdminService) Stats(ctx context.Context) (*PlatformStats, error) {
	users, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	volume, err := s.deposits.SumApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum approved deposits: %w", err)
	}
	pendingDeposits, err := s.deposits.CountByStatus(ctx, domain.DepositStatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending deposits: %w", err)
	}
	pendingWithdrawals, err := s.withdrawals.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pending withdrawals: %w", err)
	}

	return &PlatformStats{
		TotalUsers:         users,
		ApprovedVolume:     volume,
		PendingDeposits:    pendingDeposits,
		PendingWithdrawals: pendingWithdrawals,
		PlatformEarnings:   volume.Mul(platformFeePercent).Div(decimal.NewFromInt(100)).Round(2),
	}, nil
}

// ListUsers returns registered accounts for the admin panel.
func (s *AdminService) ListUsers(ctx context.Context, limit int) ([]domain.Account, error) {
	return s.accounts.List(ctx, limit)
}

// DepositQueue returns deposits awaiting review, oldest first. An empty
// status returns recent deposits across all states.
func (s *AdminService) DepositQueue(ctx context.Context, status domain.DepositStatus, limit int) ([]domain.Deposit, error) {
	return s.deposits.ListByStatus(ctx, status, limit)
}

// WithdrawalQueue returns withdrawals awaiting review, oldest first.
func (s *AdminService) WithdrawalQueue(ctx context.Context, limit int) ([]domain.Withdrawal, error) {
	return s.withdrawals.ListPending(ctx, limit)
}
