package repository

import (
	"context"

	"invest_platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ReferralRepository struct {
	db *pgxpool.Pool
}

func NewReferralRepository(db *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// CreateWithTx records a referral earning inside the deposit-approval
// transaction, so the commission and the approval commit or roll back
// together.
func (r *ReferralRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, e *domain.ReferralEarning) error {
	return tx.QueryRow(ctx, `
		INSERT INTO referral_earnings (user_id, from_user_id, level, percentage, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, e.UserID, e.FromUserID, e.Level, e.Percentage, e.Amount).Scan(&e.ID, &e.CreatedAt)
}

// ListByUser returns a user's referral earnings, newest first.
func (r *ReferralRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.ReferralEarning, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, from_user_id, level, percentage, amount, created_at
		FROM referral_earnings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var earnings []domain.ReferralEarning
	for rows.Next() {
		var e domain.ReferralEarning
		if err := rows.Scan(&e.ID, &e.UserID, &e.FromUserID, &e.Level, &e.Percentage, &e.Amount, &e.CreatedAt); err != nil {
			return nil, err
		}
		earnings = append(earnings, e)
	}
	return earnings, rows.Err()
}

// SumByUserWithTx returns a user's total referral earnings.
func (r *ReferralRepository) SumByUserWithTx(ctx context.Context, tx pgx.Tx, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM referral_earnings WHERE user_id = $1
	`, userID).Scan(&total)
	return total, err
}

// SumByUser returns a user's total referral earnings.
func (r *ReferralRepository) SumByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM referral_earnings WHERE user_id = $1
	`, userID).Scan(&total)
	return total, err
}

// StatsByUser aggregates earnings and distinct sources per referral level.
func (r *ReferralRepository) StatsByUser(ctx context.Context, userID int64) (*domain.ReferralStats, error) {
	stats := &domain.ReferralStats{}
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount), 0),
			COALESCE(SUM(amount) FILTER (WHERE level = 1), 0),
			COALESCE(SUM(amount) FILTER (WHERE level = 2), 0),
			COUNT(DISTINCT from_user_id) FILTER (WHERE level = 1),
			COUNT(DISTINCT from_user_id) FILTER (WHERE level = 2)
		FROM referral_earnings
		WHERE user_id = $1
	`, userID).Scan(
		&stats.TotalEarnings,
		&stats.Level1Earnings,
		&stats.Level2Earnings,
		&stats.Level1Count,
		&stats.Level2Count,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
