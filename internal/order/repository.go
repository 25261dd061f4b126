package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*Order, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Order, error)

	// UpdateStatus overwrites the status column. Concurrent writers follow
	// last-write-wins; there is no version check.
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)

	// AppendTracking appends one entry to tracking_updates in a single
	// statement and sets tracking_id when trackingID is non-nil.
	AppendTracking(ctx context.Context, id string, trackingID *string, update *TrackingUpdate) (*Order, error)

	HasInvoice(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, buyer_id, items, total_amount, status, shipping_address,
	payment_method, payment_details, tracking_id, tracking_updates,
	shipping_cost, tax_amount, discount, coupon_code, notes,
	created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o          Order
		trackingID sql.NullString
		couponCode sql.NullString
		notes      sql.NullString
	)

	err := row.Scan(
		&o.ID,
		&o.BuyerID,
		&o.Items,
		&o.TotalAmount,
		&o.Status,
		&o.ShippingAddress,
		&o.PaymentMethod,
		&o.PaymentDetails,
		&trackingID,
		&o.TrackingUpdates,
		&o.ShippingCost,
		&o.TaxAmount,
		&o.Discount,
		&couponCode,
		&notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if trackingID.Valid {
		o.TrackingID = &trackingID.String
	}
	if couponCode.Valid {
		o.CouponCode = &couponCode.String
	}
	o.Notes = notes.String
	if o.TrackingUpdates == nil {
		o.TrackingUpdates = TrackingUpdates{}
	}

	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("order_id", o.ID),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (
			id, buyer_id, items, total_amount, status, shipping_address,
			payment_method, payment_details, tracking_updates,
			shipping_cost, tax_amount, discount, coupon_code, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at
	`,
		o.ID,
		o.BuyerID,
		o.Items,
		o.TotalAmount,
		o.Status,
		o.ShippingAddress,
		o.PaymentMethod,
		o.PaymentDetails,
		o.TrackingUpdates,
		o.ShippingCost,
		o.TaxAmount,
		o.Discount,
		o.CouponCode,
		nullIfEmpty(o.Notes),
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if isPgError(err, PgForeignKeyViolation) {
		// orders.buyer_id references users
		log.Warn("order buyer missing from accounts", zap.String("buyer_id", o.BuyerID))
		return ErrUnknownBuyer
	}
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	log.Debug("order inserted")
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT`+orderColumns+`FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get order",
			zap.String("order_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByTrackingID(ctx context.Context, trackingID string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT`+orderColumns+`FROM orders WHERE tracking_id = $1`, trackingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get order by tracking id",
			zap.String("tracking_id", trackingID),
			zap.Error(err),
		)
		return nil, err
	}
	return o, nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*Order, error) {
	query := `SELECT` + orderColumns + `
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.query(ctx, "ListByBuyer", query, buyerID, limit, offset)
}

func (r *repository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Order, error) {
	query := `SELECT` + orderColumns + `FROM orders WHERE 1=1`

	args := []any{}
	argIndex := 1

	// ---------- FILTERING ----------
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query += fmt.Sprintf(" AND status = ANY($%d)", argIndex)
		args = append(args, pq.Array(statuses))
		argIndex++
	}

	// ---------- PAGINATION ----------
	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	return r.query(ctx, "List", query, args...)
}

func (r *repository) query(ctx context.Context, method, query string, args ...any) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", method),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}

	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING`+orderColumns,
		status, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update order status",
			zap.String("order_id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return nil, err
	}
	return o, nil
}

func (r *repository) AppendTracking(ctx context.Context, id string, trackingID *string, update *TrackingUpdate) (*Order, error) {
	entry, err := TrackingUpdates{*update}.Value()
	if err != nil {
		return nil, err
	}

	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET tracking_id = COALESCE($1, tracking_id),
		    tracking_updates = COALESCE(tracking_updates, '[]'::jsonb) || $2::jsonb,
		    updated_at = NOW()
		WHERE id = $3
		RETURNING`+orderColumns,
		trackingID, entry, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if isPgError(err, PgUniqueViolation) {
		return nil, ErrTrackingIDInUse
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to append tracking update",
			zap.String("order_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return o, nil
}

func (r *repository) HasInvoice(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE order_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		// invoices.order_id is ON DELETE RESTRICT
		if isPgError(err, PgForeignKeyViolation) {
			return ErrOrderHasInvoice
		}
		return fmt.Errorf("delete order: %w", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func isPgError(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
