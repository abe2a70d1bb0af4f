package repository

import (
	"context"
	"errors"
	"strconv"

	"invest_platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type SettingRepository struct {
	db *pgxpool.Pool
}

func NewSettingRepository(db *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get retrieves a setting by key.
func (r *SettingRepository) Get(ctx context.Context, key string) (*domain.PlatformSetting, error) {
	var s domain.PlatformSetting
	err := r.db.QueryRow(ctx, `
		SELECT setting_key, setting_value, updated_at
		FROM platform_settings
		WHERE setting_key = $1
	`, key).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all settings.
func (r *SettingRepository) List(ctx context.Context) ([]domain.PlatformSetting, error) {
	rows, err := r.db.Query(ctx, `
		SELECT setting_key, setting_value, updated_at
		FROM platform_settings
		ORDER BY setting_key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []domain.PlatformSetting
	for rows.Next() {
		var s domain.PlatformSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Upsert writes a setting value.
func (r *SettingRepository) Upsert(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO platform_settings (setting_key, setting_value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (setting_key) DO UPDATE SET setting_value = $2, updated_at = NOW()
	`, key, value)
	return err
}

// GetDecimal reads a numeric setting, falling back to def when the row is
// absent or unparseable. Settings are read at the moment of use, never
// cached.
func (r *SettingRepository) GetDecimal(ctx context.Context, key string, def decimal.Decimal) (decimal.Decimal, error) {
	s, err := r.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return def, nil
		}
		return def, err
	}
	v, err := decimal.NewFromString(s.Value)
	if err != nil {
		return def, nil
	}
	return v, nil
}

// GetInt reads an integer setting with a default.
func (r *SettingRepository) GetInt(ctx context.Context, key string, def int) (int, error) {
	s, err := r.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return def, nil
		}
		return def, err
	}
	v, err := strconv.Atoi(s.Value)
	if err != nil {
		return def, nil
	}
	return v, nil
}
