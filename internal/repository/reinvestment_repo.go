package repository

import (
	"context"

	"invest_platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const reinvestmentColumns = `id, user_id, original_amount, bonus_amount, bonus_percentage, maturity_date, status, created_at`

// ReinvestmentSums are the component aggregates the balance derivation
// needs: principal of all non-cancelled positions, principal still locked in
// unmatured ones, and principal plus bonus released by matured ones.
type ReinvestmentSums struct {
	TotalPrincipal  decimal.Decimal
	ActivePrincipal decimal.Decimal
	MaturedReturns  decimal.Decimal
}

type ReinvestmentRepository struct {
	db *pgxpool.Pool
}

func NewReinvestmentRepository(db *pgxpool.Pool) *ReinvestmentRepository {
	return &ReinvestmentRepository{db: db}
}

// CreateWithTx inserts a reinvestment inside the debit transaction.
func (r *ReinvestmentRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, ri *domain.Reinvestment) error {
	return tx.QueryRow(ctx, `
		INSERT INTO reinvestments (user_id, original_amount, bonus_amount, bonus_percentage, maturity_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, ri.UserID, ri.OriginalAmount, ri.BonusAmount, ri.BonusPercentage, ri.MaturityDate, ri.Status).Scan(&ri.ID, &ri.CreatedAt)
}

// ListByUser returns a user's reinvestments, newest first.
func (r *ReinvestmentRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Reinvestment, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+reinvestmentColumns+`
		FROM reinvestments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Reinvestment
	for rows.Next() {
		var ri domain.Reinvestment
		if err := rows.Scan(
			&ri.ID, &ri.UserID, &ri.OriginalAmount, &ri.BonusAmount, &ri.BonusPercentage,
			&ri.MaturityDate, &ri.Status, &ri.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ri)
	}
	return result, rows.Err()
}

// SumsByUserWithTx aggregates a user's reinvestment components. Maturity is
// evaluated at read time against the database clock; no scheduler flips
// position rows.
func (r *ReinvestmentRepository) SumsByUserWithTx(ctx context.Context, tx pgx.Tx, userID int64) (ReinvestmentSums, error) {
	var s ReinvestmentSums
	err := tx.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(original_amount) FILTER (WHERE status <> 'cancelled'), 0),
			COALESCE(SUM(original_amount) FILTER (WHERE status = 'active' AND maturity_date > NOW()), 0),
			COALESCE(SUM(original_amount + bonus_amount) FILTER (
				WHERE status = 'matured' OR (status = 'active' AND maturity_date <= NOW())), 0)
		FROM reinvestments
		WHERE user_id = $1
	`, userID).Scan(&s.TotalPrincipal, &s.ActivePrincipal, &s.MaturedReturns)
	return s, err
}

// SumsByUser is SumsByUserWithTx outside a transaction, for read-only
// balance queries.
func (r *ReinvestmentRepository) SumsByUser(ctx context.Context, userID int64) (ReinvestmentSums, error) {
	var s ReinvestmentSums
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(original_amount) FILTER (WHERE status <> 'cancelled'), 0),
			COALESCE(SUM(original_amount) FILTER (WHERE status = 'active' AND maturity_date > NOW()), 0),
			COALESCE(SUM(original_amount + bonus_amount) FILTER (
				WHERE status = 'matured' OR (status = 'active' AND maturity_date <= NOW())), 0)
		FROM reinvestments
		WHERE user_id = $1
	`, userID).Scan(&s.TotalPrincipal, &s.ActivePrincipal, &s.MaturedReturns)
	return s, err
}

// SumBonusByUser returns the total bonus accrued across a user's positions.
func (r *ReinvestmentRepository) SumBonusByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(bonus_amount), 0)
		FROM reinvestments
		WHERE user_id = $1 AND status <> 'cancelled'
	`, userID).Scan(&total)
	return total, err
}
