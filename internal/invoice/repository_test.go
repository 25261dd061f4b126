package invoice

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoiceRowColumns = []string{
	"id", "order_id", "invoice_number", "user_id",
	"customer_name", "customer_email", "customer_phone", "billing_address",
	"order_items", "subtotal", "discount", "tax_amount", "shipping_cost", "total_amount",
	"payment_method", "payment_status", "invoice_date", "due_date",
	"company_details", "created_at",
}

var invoiceDate = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func invoiceRows(id string) *sqlmock.Rows {
	return sqlmock.NewRows(invoiceRowColumns).AddRow(
		id, "o-1", "INV-1773480413000-1F2C00", "buyer-1",
		"Asha Rao", "asha@example.com", "", []byte(`{"fullName":"Asha Rao","city":"Bengaluru"}`),
		[]byte(`[{"productRef":"p-1","name":"Linen Shirt","unitPrice":"500","quantity":2,"subtotal":"1000"}]`),
		"1300.00", "0.00", "0.00", "100.00", "1400.00",
		"upi", "completed", invoiceDate, invoiceDate.AddDate(0, 0, 30),
		[]byte(`{"name":"Threadline Apparel","gstNumber":"29ABCDE1234F1Z5"}`), invoiceDate,
	)
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_GetByOrderID(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("FROM invoices WHERE order_id = $1")

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(query).WithArgs("o-1").WillReturnRows(invoiceRows("inv-1"))

		inv, err := repo.GetByOrderID(ctx, "o-1")

		require.NoError(t, err)
		assert.Equal(t, "inv-1", inv.ID)
		assert.Equal(t, "Bengaluru", inv.BillingAddress.City)
		require.Len(t, inv.OrderItems, 1)
		assert.True(t, decimal.NewFromInt(1000).Equal(inv.OrderItems[0].Subtotal))
		assert.True(t, decimal.NewFromInt(1300).Equal(inv.Subtotal))
		assert.Equal(t, "Threadline Apparel", inv.CompanyDetails.Name)
		assert.Equal(t, invoiceDate.AddDate(0, 0, 30), inv.DueDate)
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(query).WithArgs("o-2").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByOrderID(ctx, "o-2")

		assert.ErrorIs(t, err, ErrInvoiceNotFound)
	})
}

func TestRepository_CreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	insert := regexp.QuoteMeta("ON CONFLICT (order_id) DO NOTHING")
	newInvoice := func() *Invoice {
		return &Invoice{
			ID:          "inv-new",
			OrderID:     "o-1",
			UserID:      "buyer-1",
			TotalAmount: decimal.NewFromInt(1400),
			InvoiceDate: invoiceDate,
			DueDate:     invoiceDate.AddDate(0, 0, 30),
		}
	}

	t.Run("Inserted", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(insert).WillReturnRows(invoiceRows("inv-new"))

		inv, created, err := repo.CreateIfAbsent(ctx, newInvoice())

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "inv-new", inv.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Conflict returns existing", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(insert).WillReturnRows(sqlmock.NewRows(invoiceRowColumns))
		mock.ExpectQuery(regexp.QuoteMeta("FROM invoices WHERE order_id = $1")).
			WithArgs("o-1").
			WillReturnRows(invoiceRows("inv-first"))

		inv, created, err := repo.CreateIfAbsent(ctx, newInvoice())

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "inv-first", inv.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DB error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		dbErr := errors.New("disk full")

		mock.ExpectQuery(insert).WillReturnError(dbErr)

		_, _, err := repo.CreateIfAbsent(ctx, newInvoice())

		assert.ErrorIs(t, err, dbErr)
	})
}
