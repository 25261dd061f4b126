package coupon

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront-be/internal/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindActiveByCode(ctx context.Context, code string, at time.Time) (*Coupon, error) {
	args := m.Called(ctx, code, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coupon), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coupon), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, limit, offset int) ([]*Coupon, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Coupon), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, c *Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepository) Update(ctx context.Context, c *Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) IncrementUsage(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// memRepository mimics the guarded increment of the SQL repository.
type memRepository struct {
	MockRepository
	mu      sync.Mutex
	coupons map[string]*Coupon
}

func (m *memRepository) IncrementUsage(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.coupons[id]
	if !ok {
		return false, nil
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false, nil
	}
	c.UsedCount++
	return true, nil
}

func (m *memRepository) GetByID(_ context.Context, id string) (*Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.coupons[id]
	if !ok {
		return nil, ErrCouponNotFoundByID
	}
	cp := *c
	return &cp, nil
}

// --- Helpers ---

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *service {
	return &service{repo: repo, now: func() time.Time { return fixedNow }}
}

func intPtr(i int) *int { return &i }

func save20() *Coupon {
	return &Coupon{
		ID:             uuid.NewString(),
		Code:           "SAVE20",
		DiscountType:   DiscountPercentage,
		DiscountValue:  decimal.NewFromInt(20),
		MinOrderAmount: decimal.NewFromInt(2000),
		MaxDiscount:    decimal.NewNullDecimal(decimal.NewFromInt(1000)),
		StartDate:      fixedNow.AddDate(0, -1, 0),
		EndDate:        fixedNow.AddDate(0, 1, 0),
		IsActive:       true,
	}
}

// --- Tests ---

func TestService_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("Percentage capped by maxDiscount", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)
		c := save20()

		repo.On("FindActiveByCode", ctx, "SAVE20", fixedNow).Return(c, nil)

		res, err := svc.Validate(ctx, "save20", decimal.NewFromInt(6000))

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1000).Equal(res.Discount), "got %s", res.Discount)
		assert.Equal(t, "SAVE20", res.Code)
		assert.Equal(t, c.ID, res.CouponID)
		assert.Equal(t, DiscountPercentage, res.DiscountType)
		repo.AssertExpectations(t)
	})

	t.Run("Minimum order not met", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("FindActiveByCode", ctx, "SAVE20", fixedNow).Return(save20(), nil)

		_, err := svc.Validate(ctx, "SAVE20", decimal.NewFromInt(1000))

		assert.ErrorIs(t, err, ErrMinimumOrderNotMet)
		assert.Contains(t, err.Error(), "2000")
	})

	t.Run("Usage limit reached", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)
		c := save20()
		c.UsageLimit = intPtr(5)
		c.UsedCount = 5

		repo.On("FindActiveByCode", ctx, "SAVE20", fixedNow).Return(c, nil)

		_, err := svc.Validate(ctx, "SAVE20", decimal.NewFromInt(6000))

		assert.ErrorIs(t, err, ErrUsageLimitReached)
	})

	t.Run("Minimum order checked before usage limit", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)
		c := save20()
		c.UsageLimit = intPtr(1)
		c.UsedCount = 1

		repo.On("FindActiveByCode", ctx, "SAVE20", fixedNow).Return(c, nil)

		_, err := svc.Validate(ctx, "SAVE20", decimal.NewFromInt(100))

		assert.ErrorIs(t, err, ErrMinimumOrderNotMet)
	})

	t.Run("Not found, inactive or expired", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("FindActiveByCode", ctx, "GONE", fixedNow).Return(nil, ErrCouponNotFound)

		_, err := svc.Validate(ctx, "gone", decimal.NewFromInt(6000))

		assert.ErrorIs(t, err, ErrCouponNotFound)
		e, ok := apperr.Classify(err)
		require.True(t, ok)
		assert.Equal(t, "COUPON_NOT_FOUND", e.Reason)
		assert.Equal(t, apperr.KindInvalidInput, e.Kind)
	})

	t.Run("Empty code", func(t *testing.T) {
		svc := newTestService(new(MockRepository))

		_, err := svc.Validate(ctx, "  ", decimal.NewFromInt(10))

		assert.ErrorIs(t, err, ErrCouponNotFound)
	})

	t.Run("Negative amount", func(t *testing.T) {
		svc := newTestService(new(MockRepository))

		_, err := svc.Validate(ctx, "SAVE20", decimal.NewFromInt(-1))

		assert.ErrorIs(t, err, ErrInvalidOrderAmount)
	})

	t.Run("Repository failure", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)
		dbErr := errors.New("db down")

		repo.On("FindActiveByCode", ctx, "SAVE20", fixedNow).Return(nil, dbErr)

		_, err := svc.Validate(ctx, "SAVE20", decimal.NewFromInt(6000))

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestComputeDiscount(t *testing.T) {
	t.Run("Percentage without cap", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountPercentage, DiscountValue: decimal.NewFromInt(15)}

		got := ComputeDiscount(c, decimal.NewFromInt(999))

		// 149.85 truncates to 149
		assert.True(t, decimal.NewFromInt(149).Equal(got), "got %s", got)
	})

	t.Run("Percentage below cap", func(t *testing.T) {
		c := save20()

		got := ComputeDiscount(c, decimal.NewFromInt(2500))

		assert.True(t, decimal.NewFromInt(500).Equal(got), "got %s", got)
	})

	t.Run("Fixed is not clamped to order amount", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountFixed, DiscountValue: decimal.NewFromInt(750)}

		got := ComputeDiscount(c, decimal.NewFromInt(300))

		assert.True(t, decimal.NewFromInt(750).Equal(got), "got %s", got)
	})

	t.Run("Fixed ignores maxDiscount", func(t *testing.T) {
		c := &Coupon{
			DiscountType:  DiscountFixed,
			DiscountValue: decimal.NewFromInt(500),
			MaxDiscount:   decimal.NewNullDecimal(decimal.NewFromInt(100)),
		}

		got := ComputeDiscount(c, decimal.NewFromInt(5000))

		assert.True(t, decimal.NewFromInt(500).Equal(got), "got %s", got)
	})

	t.Run("Fractional fixed value truncates", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountFixed, DiscountValue: decimal.RequireFromString("99.99")}

		got := ComputeDiscount(c, decimal.NewFromInt(5000))

		assert.True(t, decimal.NewFromInt(99).Equal(got), "got %s", got)
	})
}

func TestService_RecordUsage(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("IncrementUsage", ctx, id).Return(true, nil)

		assert.NoError(t, svc.RecordUsage(ctx, id))
		repo.AssertExpectations(t)
	})

	t.Run("Limit reached", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("IncrementUsage", ctx, id).Return(false, nil)
		repo.On("GetByID", ctx, id).Return(&Coupon{ID: id, UsageLimit: intPtr(1), UsedCount: 1}, nil)

		assert.ErrorIs(t, svc.RecordUsage(ctx, id), ErrUsageLimitReached)
	})

	t.Run("Unknown coupon", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("IncrementUsage", ctx, id).Return(false, nil)
		repo.On("GetByID", ctx, id).Return(nil, ErrCouponNotFoundByID)

		assert.ErrorIs(t, svc.RecordUsage(ctx, id), ErrCouponNotFoundByID)
	})

	t.Run("Malformed id", func(t *testing.T) {
		svc := newTestService(new(MockRepository))

		assert.ErrorIs(t, svc.RecordUsage(ctx, "not-a-uuid"), ErrInvalidCouponInput)
	})

	t.Run("Concurrent uses on last slot", func(t *testing.T) {
		c := save20()
		c.UsageLimit = intPtr(1)
		repo := &memRepository{coupons: map[string]*Coupon{c.ID: c}}
		svc := newTestService(repo)

		const callers = 8
		var wg sync.WaitGroup
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = svc.RecordUsage(ctx, c.ID)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, ErrUsageLimitReached)
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, repo.coupons[c.ID].UsedCount)
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	validInput := func() Input {
		return Input{
			Code:           " welcome10 ",
			DiscountType:   DiscountPercentage,
			DiscountValue:  decimal.NewFromInt(10),
			MinOrderAmount: decimal.NewFromInt(500),
			StartDate:      fixedNow,
			EndDate:        fixedNow.AddDate(0, 0, 30),
		}
	}

	t.Run("Success normalizes code", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("Create", ctx, mock.MatchedBy(func(c *Coupon) bool {
			return c.Code == "WELCOME10" && c.IsActive && c.ID != ""
		})).Return(nil)

		c, err := svc.Create(ctx, validInput())

		require.NoError(t, err)
		assert.Equal(t, "WELCOME10", c.Code)
		repo.AssertExpectations(t)
	})

	t.Run("Percentage above 100", func(t *testing.T) {
		svc := newTestService(new(MockRepository))
		in := validInput()
		in.DiscountValue = decimal.NewFromInt(150)

		_, err := svc.Create(ctx, in)

		assert.ErrorIs(t, err, ErrInvalidCouponInput)
		assert.Contains(t, err.Error(), "exceed 100")
	})

	t.Run("End before start", func(t *testing.T) {
		svc := newTestService(new(MockRepository))
		in := validInput()
		in.EndDate = in.StartDate.Add(-time.Hour)

		_, err := svc.Create(ctx, in)

		assert.ErrorIs(t, err, ErrInvalidCouponInput)
	})

	t.Run("Unknown discount type", func(t *testing.T) {
		svc := newTestService(new(MockRepository))
		in := validInput()
		in.DiscountType = "bogo"

		_, err := svc.Create(ctx, in)

		assert.ErrorIs(t, err, ErrInvalidCouponInput)
	})

	t.Run("Duplicate code", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("Create", ctx, mock.AnythingOfType("*coupon.Coupon")).Return(ErrCouponCodeExists)

		_, err := svc.Create(ctx, validInput())

		assert.ErrorIs(t, err, ErrCouponCodeExists)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	existing := save20()
	existing.UsedCount = 3

	repo := new(MockRepository)
	svc := newTestService(repo)

	repo.On("GetByID", ctx, existing.ID).Return(existing, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(c *Coupon) bool {
		return c.ID == existing.ID && c.UsedCount == 3 && c.Code == "SAVE25"
	})).Return(nil)

	inactive := false
	c, err := svc.Update(ctx, existing.ID, Input{
		Code:          "save25",
		DiscountType:  DiscountPercentage,
		DiscountValue: decimal.NewFromInt(25),
		StartDate:     existing.StartDate,
		EndDate:       existing.EndDate,
		IsActive:      &inactive,
	})

	require.NoError(t, err)
	assert.False(t, c.IsActive)
	repo.AssertExpectations(t)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo)

	repo.On("List", ctx, 20, 20).Return([]*Coupon{save20()}, nil)

	list, err := svc.List(ctx, 0, 2)

	require.NoError(t, err)
	assert.Len(t, list, 1)
}
