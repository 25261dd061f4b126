package settings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetBillingProfile(ctx context.Context) (*BillingProfile, error)
	SaveBillingProfile(ctx context.Context, p BillingProfile) (*BillingProfile, error)

	// InsertBillingProfileIfAbsent stores p only when no profile exists yet.
	// It reports whether a row was written.
	InsertBillingProfileIfAbsent(ctx context.Context, p BillingProfile) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetBillingProfile(ctx context.Context) (*BillingProfile, error) {
	var (
		doc       profileDoc
		updatedAt time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT value, updated_at FROM company_settings WHERE key = $1`,
		billingKey,
	).Scan(&doc, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBillingProfileNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to read billing profile", zap.Error(err))
		return nil, err
	}
	return doc.profile(updatedAt), nil
}

func (r *repository) SaveBillingProfile(ctx context.Context, p BillingProfile) (*BillingProfile, error) {
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO company_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING updated_at
	`, billingKey, toDoc(p)).Scan(&updatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to save billing profile", zap.Error(err))
		return nil, err
	}
	return toDoc(p).profile(updatedAt), nil
}

func (r *repository) InsertBillingProfileIfAbsent(ctx context.Context, p BillingProfile) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO company_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO NOTHING
	`, billingKey, toDoc(p))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
