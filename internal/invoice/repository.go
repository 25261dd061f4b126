package invoice

import (
	"context"
	"database/sql"
	"errors"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByOrderID(ctx context.Context, orderID string) (*Invoice, error)

	// CreateIfAbsent inserts inv unless the order already has an invoice,
	// relying on the unique order_id constraint. It returns the stored
	// invoice and whether this call created it.
	CreateIfAbsent(ctx context.Context, inv *Invoice) (*Invoice, bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const invoiceColumns = `
	id, order_id, invoice_number, user_id,
	customer_name, customer_email, customer_phone, billing_address,
	order_items, subtotal, discount, tax_amount, shipping_cost, total_amount,
	payment_method, payment_status, invoice_date, due_date,
	company_details, created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID,
		&inv.OrderID,
		&inv.InvoiceNumber,
		&inv.UserID,
		&inv.CustomerName,
		&inv.CustomerEmail,
		&inv.CustomerPhone,
		&inv.BillingAddress,
		&inv.OrderItems,
		&inv.Subtotal,
		&inv.Discount,
		&inv.TaxAmount,
		&inv.ShippingCost,
		&inv.TotalAmount,
		&inv.PaymentMethod,
		&inv.PaymentStatus,
		&inv.InvoiceDate,
		&inv.DueDate,
		&inv.CompanyDetails,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) GetByOrderID(ctx context.Context, orderID string) (*Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRowContext(ctx,
		`SELECT`+invoiceColumns+`FROM invoices WHERE order_id = $1`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get invoice",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return nil, err
	}
	return inv, nil
}

func (r *repository) CreateIfAbsent(ctx context.Context, inv *Invoice) (*Invoice, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateIfAbsent"),
		zap.String("order_id", inv.OrderID),
	)

	stored, err := scanInvoice(r.db.QueryRowContext(ctx, `
		INSERT INTO invoices (
			id, order_id, invoice_number, user_id,
			customer_name, customer_email, customer_phone, billing_address,
			order_items, subtotal, discount, tax_amount, shipping_cost, total_amount,
			payment_method, payment_status, invoice_date, due_date, company_details
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING`+invoiceColumns,
		inv.ID,
		inv.OrderID,
		inv.InvoiceNumber,
		inv.UserID,
		inv.CustomerName,
		inv.CustomerEmail,
		inv.CustomerPhone,
		inv.BillingAddress,
		inv.OrderItems,
		inv.Subtotal,
		inv.Discount,
		inv.TaxAmount,
		inv.ShippingCost,
		inv.TotalAmount,
		inv.PaymentMethod,
		inv.PaymentStatus,
		inv.InvoiceDate,
		inv.DueDate,
		inv.CompanyDetails,
	))
	if err == nil {
		log.Info("invoice inserted", zap.String("invoice_number", stored.InvoiceNumber))
		return stored, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to insert invoice", zap.Error(err))
		return nil, false, err
	}

	// Lost the race: another request created it first.
	log.Info("invoice already exists")
	existing, err := r.GetByOrderID(ctx, inv.OrderID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
