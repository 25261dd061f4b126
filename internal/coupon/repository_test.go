package coupon

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var couponRowColumns = []string{
	"id", "code", "description", "discount_type", "discount_value",
	"min_order_amount", "max_discount", "usage_limit", "used_count",
	"start_date", "end_date", "is_active", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_FindActiveByCode(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		rows := sqlmock.NewRows(couponRowColumns).AddRow(
			"c-1", "SAVE20", "twenty off", "percentage", "20.00",
			"2000.00", "1000.00", int64(100), int64(4),
			at.AddDate(0, -1, 0), at.AddDate(0, 1, 0), true, at, at,
		)
		mock.ExpectQuery(regexp.QuoteMeta("FROM coupons")).
			WithArgs("SAVE20", at).
			WillReturnRows(rows)

		c, err := repo.FindActiveByCode(ctx, "SAVE20", at)

		require.NoError(t, err)
		assert.Equal(t, DiscountPercentage, c.DiscountType)
		assert.True(t, decimal.NewFromInt(20).Equal(c.DiscountValue))
		assert.True(t, c.MaxDiscount.Valid)
		require.NotNil(t, c.UsageLimit)
		assert.Equal(t, 100, *c.UsageLimit)
		assert.Equal(t, 4, c.UsedCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nullable columns", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		rows := sqlmock.NewRows(couponRowColumns).AddRow(
			"c-2", "FLAT500", "", "fixed", "500.00",
			"0.00", nil, nil, int64(0),
			at, at, true, at, at,
		)
		mock.ExpectQuery(regexp.QuoteMeta("FROM coupons")).
			WithArgs("FLAT500", at).
			WillReturnRows(rows)

		c, err := repo.FindActiveByCode(ctx, "FLAT500", at)

		require.NoError(t, err)
		assert.False(t, c.MaxDiscount.Valid)
		assert.Nil(t, c.UsageLimit)
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM coupons")).
			WithArgs("NOPE", at).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindActiveByCode(ctx, "NOPE", at)

		assert.ErrorIs(t, err, ErrCouponNotFound)
	})

	t.Run("DB error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		dbErr := errors.New("connection reset")

		mock.ExpectQuery(regexp.QuoteMeta("FROM coupons")).
			WithArgs("SAVE20", at).
			WillReturnError(dbErr)

		_, err := repo.FindActiveByCode(ctx, "SAVE20", at)

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestRepository_IncrementUsage(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SET used_count = used_count + 1")

	t.Run("Room left", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(query).
			WithArgs("c-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.IncrementUsage(ctx, "c-1")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Exhausted", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(query).
			WithArgs("c-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.IncrementUsage(ctx, "c-1")

		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	newCoupon := func() *Coupon {
		return &Coupon{
			ID:             "c-1",
			Code:           "SAVE20",
			DiscountType:   DiscountPercentage,
			DiscountValue:  decimal.NewFromInt(20),
			MinOrderAmount: decimal.NewFromInt(2000),
			StartDate:      now,
			EndDate:        now.AddDate(0, 1, 0),
			IsActive:       true,
		}
	}

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO coupons")).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		c := newCoupon()
		err := repo.Create(ctx, c)

		require.NoError(t, err)
		assert.Equal(t, now, c.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate code", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO coupons")).
			WillReturnError(&pq.Error{Code: pq.ErrorCode(PgUniqueViolation)})

		err := repo.Create(ctx, newCoupon())

		assert.ErrorIs(t, err, ErrCouponCodeExists)
	})
}

func TestRepository_UpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Update missing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE coupons SET")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, &Coupon{ID: "missing", DiscountType: DiscountFixed})

		assert.ErrorIs(t, err, ErrCouponNotFoundByID)
	})

	t.Run("Delete", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM coupons")).
			WithArgs("c-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "c-1"))
	})

	t.Run("Delete missing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM coupons")).
			WithArgs("c-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "c-1"), ErrCouponNotFoundByID)
	})
}

func TestRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(couponRowColumns).
		AddRow("c-1", "A", "", "fixed", "10.00", "0.00", nil, nil, int64(0), at, at, true, at, at).
		AddRow("c-2", "B", "", "percentage", "5.00", "0.00", nil, int64(3), int64(1), at, at, false, at, at)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs(20, 0).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), 20, 0)

	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "B", list[1].Code)
}
