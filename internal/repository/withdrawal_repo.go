package repository

import (
	"context"
	"errors"
	"time"

	"invest_platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const withdrawalColumns = `id, user_id, amount, wallet_address, COALESCE(notes, ''), status, created_at, reviewed_at`

type WithdrawalRepository struct {
	db *pgxpool.Pool
}

func NewWithdrawalRepository(db *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// CreateWithTx inserts a pending withdrawal inside the reservation
// transaction.
func (r *WithdrawalRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	return tx.QueryRow(ctx, `
		INSERT INTO withdrawals (user_id, amount, wallet_address, notes, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, w.UserID, w.Amount, w.WalletAddress, w.Notes, w.Status).Scan(&w.ID, &w.CreatedAt)
}

// GetByID retrieves a withdrawal by ID.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	row := r.db.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id)
	return scanWithdrawal(row)
}

// GetByIDWithTx retrieves a withdrawal inside an open transaction.
func (r *WithdrawalRepository) GetByIDWithTx(ctx context.Context, tx pgx.Tx, id int64) (*domain.Withdrawal, error) {
	row := tx.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id)
	return scanWithdrawal(row)
}

// ListByUser returns a user's withdrawals, newest first.
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// ListPending returns the review queue, oldest first.
func (r *WithdrawalRepository) ListPending(ctx context.Context, limit int) ([]domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawals
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// ReviewWithTx transitions a pending withdrawal to the given status.
// Returns false when the withdrawal was not pending.
func (r *WithdrawalRepository) ReviewWithTx(ctx context.Context, tx pgx.Tx, id int64, status domain.WithdrawalStatus) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE withdrawals
		SET status = $2, reviewed_at = $3
		WHERE id = $1 AND status = 'pending'
	`, id, status, time.Now())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SumReservedByUserWithTx returns the amount held against a user's
// available earnings: pending requests plus approved payouts.
func (r *WithdrawalRepository) SumReservedByUserWithTx(ctx context.Context, tx pgx.Tx, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM withdrawals
		WHERE user_id = $1 AND status IN ('pending', 'approved')
	`, userID).Scan(&total)
	return total, err
}

// SumReservedByUser is SumReservedByUserWithTx outside a transaction.
func (r *WithdrawalRepository) SumReservedByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM withdrawals
		WHERE user_id = $1 AND status IN ('pending', 'approved')
	`, userID).Scan(&total)
	return total, err
}

// CountPending returns the number of withdrawals awaiting review.
func (r *WithdrawalRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM withdrawals WHERE status = 'pending'`).Scan(&n)
	return n, err
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	if err := row.Scan(
		&w.ID, &w.UserID, &w.Amount, &w.WalletAddress, &w.Notes, &w.Status, &w.CreatedAt, &w.ReviewedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func scanWithdrawals(rows pgx.Rows) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal
	for rows.Next() {
		var w domain.Withdrawal
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Amount, &w.WalletAddress, &w.Notes, &w.Status, &w.CreatedAt, &w.ReviewedAt,
		); err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}
