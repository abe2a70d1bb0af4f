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

const depositColumns = `id, user_id, amount, payment_method, status, created_at, reviewed_at`

type DepositRepository struct {
	db *pgxpool.Pool
}

func NewDepositRepository(db *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{db: db}
}

// Create inserts a new pending deposit.
func (r *DepositRepository) Create(ctx context.Context, d *domain.Deposit) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO deposits (user_id, amount, payment_method, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, d.UserID, d.Amount, d.PaymentMethod, d.Status).Scan(&d.ID, &d.CreatedAt)
}

// GetByID retrieves a deposit by ID.
func (r *DepositRepository) GetByID(ctx context.Context, id int64) (*domain.Deposit, error) {
	row := r.db.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1`, id)
	return scanDeposit(row)
}

// GetByIDWithTx retrieves a deposit inside an open transaction.
func (r *DepositRepository) GetByIDWithTx(ctx context.Context, tx pgx.Tx, id int64) (*domain.Deposit, error) {
	row := tx.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1`, id)
	return scanDeposit(row)
}

// ListByUser returns a user's deposits, newest first.
func (r *DepositRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Deposit, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+depositColumns+`
		FROM deposits
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeposits(rows)
}

// ListByStatus returns deposits in the given status, oldest first so the
// review queue is FIFO. An empty status returns everything, newest first.
func (r *DepositRepository) ListByStatus(ctx context.Context, status domain.DepositStatus, limit int) ([]domain.Deposit, error) {
	if limit <= 0 {
		limit = 100
	}

	if status == "" {
		rows, err := r.db.Query(ctx, `
			SELECT `+depositColumns+`
			FROM deposits
			ORDER BY created_at DESC
			LIMIT $1
		`, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanDeposits(rows)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+depositColumns+`
		FROM deposits
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeposits(rows)
}

// ReviewWithTx transitions a pending deposit to the given status. Returns
// false when the deposit was not pending, so a second review never applies.
func (r *DepositRepository) ReviewWithTx(ctx context.Context, tx pgx.Tx, id int64, status domain.DepositStatus) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE deposits
		SET status = $2, reviewed_at = $3
		WHERE id = $1 AND status = 'pending'
	`, id, status, time.Now())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SumApprovedByUserWithTx returns the total of a user's approved deposits.
func (r *DepositRepository) SumApprovedByUserWithTx(ctx context.Context, tx pgx.Tx, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM deposits
		WHERE user_id = $1 AND status = 'approved'
	`, userID).Scan(&total)
	return total, err
}

// SumApprovedByUser returns the total of a user's approved deposits.
func (r *DepositRepository) SumApprovedByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM deposits
		WHERE user_id = $1 AND status = 'approved'
	`, userID).Scan(&total)
	return total, err
}

// SumApproved returns the platform-wide approved deposit volume.
func (r *DepositRepository) SumApproved(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM deposits WHERE status = 'approved'
	`).Scan(&total)
	return total, err
}

// CountByStatus returns the number of deposits in a status.
func (r *DepositRepository) CountByStatus(ctx context.Context, status domain.DepositStatus) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM deposits WHERE status = $1`, status).Scan(&n)
	return n, err
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var d domain.Deposit
	if err := row.Scan(
		&d.ID, &d.UserID, &d.Amount, &d.PaymentMethod, &d.Status, &d.CreatedAt, &d.ReviewedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func scanDeposits(rows pgx.Rows) ([]domain.Deposit, error) {
	var deposits []domain.Deposit
	for rows.Next() {
		var d domain.Deposit
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Amount, &d.PaymentMethod, &d.Status, &d.CreatedAt, &d.ReviewedAt,
		); err != nil {
			return nil, err
		}
		deposits = append(deposits, d)
	}
	return deposits, rows.Err()
}
