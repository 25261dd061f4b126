package coupon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	FindActiveByCode(ctx context.Context, code string, at time.Time) (*Coupon, error)
	GetByID(ctx context.Context, id string) (*Coupon, error)
	List(ctx context.Context, limit, offset int) ([]*Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id string) error

	// IncrementUsage bumps used_count by one only while the usage limit
	// still has room. It reports whether a row was updated.
	IncrementUsage(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const couponColumns = `
	id, code, description, discount_type, discount_value,
	min_order_amount, max_discount, usage_limit, used_count,
	start_date, end_date, is_active, created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCoupon(row rowScanner) (*Coupon, error) {
	var c Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Description,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinOrderAmount,
		&c.MaxDiscount,
		&c.UsageLimit,
		&c.UsedCount,
		&c.StartDate,
		&c.EndDate,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindActiveByCode(ctx context.Context, code string, at time.Time) (*Coupon, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FindActiveByCode"),
		zap.String("code", code),
	)

	query := `SELECT` + couponColumns + `
		FROM coupons
		WHERE code = $1
		  AND is_active = TRUE
		  AND start_date <= $2
		  AND end_date >= $2
	`

	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, code, at))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no active coupon for code")
		return nil, ErrCouponNotFound
	}
	if err != nil {
		log.Error("failed to query coupon", zap.Error(err))
		return nil, err
	}

	return c, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Coupon, error) {
	query := `SELECT` + couponColumns + `FROM coupons WHERE id = $1`

	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFoundByID
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get coupon",
			zap.String("coupon_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]*Coupon, error) {
	query := `SELECT` + couponColumns + `
		FROM coupons
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list coupons", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	coupons := make([]*Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}

	return coupons, rows.Err()
}

func (r *repository) Create(ctx context.Context, c *Coupon) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("code", c.Code),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO coupons (
			id, code, description, discount_type, discount_value,
			min_order_amount, max_discount, usage_limit, used_count,
			start_date, end_date, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,0,$9,$10,$11)
		RETURNING created_at, updated_at
	`,
		c.ID,
		c.Code,
		c.Description,
		c.DiscountType,
		c.DiscountValue,
		c.MinOrderAmount,
		c.MaxDiscount,
		c.UsageLimit,
		c.StartDate,
		c.EndDate,
		c.IsActive,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate coupon code")
			return ErrCouponCodeExists
		}
		log.Error("failed to insert coupon", zap.Error(err))
		return err
	}

	return nil
}

func (r *repository) Update(ctx context.Context, c *Coupon) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE coupons SET
			code = $1,
			description = $2,
			discount_type = $3,
			discount_value = $4,
			min_order_amount = $5,
			max_discount = $6,
			usage_limit = $7,
			start_date = $8,
			end_date = $9,
			is_active = $10,
			updated_at = NOW()
		WHERE id = $11
	`,
		c.Code,
		c.Description,
		c.DiscountType,
		c.DiscountValue,
		c.MinOrderAmount,
		c.MaxDiscount,
		c.UsageLimit,
		c.StartDate,
		c.EndDate,
		c.IsActive,
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCouponCodeExists
		}
		logger.FromCtx(ctx).Error("failed to update coupon",
			zap.String("coupon_id", c.ID),
			zap.Error(err),
		)
		return err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrCouponNotFoundByID
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrCouponNotFoundByID
	}
	return nil
}

func (r *repository) IncrementUsage(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE coupons
		SET used_count = used_count + 1,
		    updated_at = NOW()
		WHERE id = $1
		  AND (usage_limit IS NULL OR used_count < usage_limit)
	`, id)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to increment coupon usage",
			zap.String("coupon_id", id),
			zap.Error(err),
		)
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation
}
