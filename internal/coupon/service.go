package coupon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

type Service interface {
	// Validate previews the discount a code gives on orderAmount. It does
	// not consume a redemption.
	Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*Validation, error)

	// RecordUsage redeems one use of the coupon. The increment is a single
	// guarded update, so the usage limit cannot be exceeded by concurrent
	// callers.
	RecordUsage(ctx context.Context, couponID string) error

	Create(ctx context.Context, input Input) (*Coupon, error)
	Update(ctx context.Context, id string, input Input) (*Coupon, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Coupon, error)
	List(ctx context.Context, limit, page int) ([]*Coupon, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*Validation, error) {
	code = utils.NormalizeCode(code)

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Validate"),
		zap.String("code", code),
		zap.String("order_amount", orderAmount.String()),
	)

	if code == "" {
		return nil, ErrCouponNotFound
	}
	if orderAmount.IsNegative() {
		return nil, ErrInvalidOrderAmount
	}

	// 1. Active, in-window coupon
	c, err := s.repo.FindActiveByCode(ctx, code, s.now())
	if err != nil {
		return nil, err
	}

	// 2. Minimum order
	if orderAmount.LessThan(c.MinOrderAmount) {
		log.Info("coupon rejected: minimum order not met",
			zap.String("min_order_amount", c.MinOrderAmount.String()),
		)
		return nil, fmt.Errorf("%w: minimum order amount is %s", ErrMinimumOrderNotMet, c.MinOrderAmount.String())
	}

	// 3. Usage limit
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		log.Info("coupon rejected: usage limit reached",
			zap.Int("used_count", c.UsedCount),
			zap.Int("usage_limit", *c.UsageLimit),
		)
		return nil, ErrUsageLimitReached
	}

	// 4-5. Discount, floored to whole currency units
	discount := ComputeDiscount(c, orderAmount)

	log.Debug("coupon validated", zap.String("discount", discount.String()))

	return &Validation{
		CouponID:      c.ID,
		Code:          c.Code,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		Discount:      discount,
		MaxDiscount:   c.MaxDiscount,
	}, nil
}

// ComputeDiscount applies the coupon's rule to orderAmount. Percentage
// discounts are capped by MaxDiscount; fixed discounts are returned as-is
// even when they exceed the order amount. The result is truncated to an
// integer.
func ComputeDiscount(c *Coupon, orderAmount decimal.Decimal) decimal.Decimal {
	var raw decimal.Decimal

	switch c.DiscountType {
	case DiscountPercentage:
		raw = orderAmount.Mul(c.DiscountValue).Div(hundred)
		if c.MaxDiscount.Valid && raw.GreaterThan(c.MaxDiscount.Decimal) {
			raw = c.MaxDiscount.Decimal
		}
	case DiscountFixed:
		raw = c.DiscountValue
	}

	return raw.Floor()
}

func (s *service) RecordUsage(ctx context.Context, couponID string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RecordUsage"),
		zap.String("coupon_id", couponID),
	)

	if _, err := uuid.Parse(couponID); err != nil {
		return fmt.Errorf("%w: malformed coupon id", ErrInvalidCouponInput)
	}

	ok, err := s.repo.IncrementUsage(ctx, couponID)
	if err != nil {
		return err
	}
	if ok {
		log.Info("coupon usage recorded")
		return nil
	}

	// Nothing updated: either the coupon is gone or it is exhausted.
	if _, err := s.repo.GetByID(ctx, couponID); err != nil {
		return err
	}

	log.Warn("coupon usage rejected: limit reached")
	return ErrUsageLimitReached
}

func (s *service) Create(ctx context.Context, input Input) (*Coupon, error) {
	c, err := buildCoupon(input)
	if err != nil {
		return nil, err
	}
	c.ID = uuid.NewString()

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("coupon created",
		zap.String("coupon_id", c.ID),
		zap.String("code", c.Code),
	)
	return c, nil
}

func (s *service) Update(ctx context.Context, id string, input Input) (*Coupon, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c, err := buildCoupon(input)
	if err != nil {
		return nil, err
	}
	c.ID = existing.ID
	c.UsedCount = existing.UsedCount
	c.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id string) (*Coupon, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, limit, page int) ([]*Coupon, error) {
	limit, offset := utils.Paginate(limit, page)
	return s.repo.List(ctx, limit, offset)
}

func buildCoupon(input Input) (*Coupon, error) {
	code := utils.NormalizeCode(input.Code)

	var problems []string
	if code == "" {
		problems = append(problems, "code is required")
	}
	if !input.DiscountType.Valid() {
		problems = append(problems, "discountType must be percentage or fixed")
	}
	if !input.DiscountValue.IsPositive() {
		problems = append(problems, "discountValue must be positive")
	}
	if input.DiscountType == DiscountPercentage && input.DiscountValue.GreaterThan(hundred) {
		problems = append(problems, "percentage discountValue must not exceed 100")
	}
	if input.MinOrderAmount.IsNegative() {
		problems = append(problems, "minOrderAmount must not be negative")
	}
	if input.MaxDiscount.Valid && input.MaxDiscount.Decimal.IsNegative() {
		problems = append(problems, "maxDiscount must not be negative")
	}
	if input.UsageLimit != nil && *input.UsageLimit < 0 {
		problems = append(problems, "usageLimit must not be negative")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		problems = append(problems, "startDate and endDate are required")
	} else if input.EndDate.Before(input.StartDate) {
		problems = append(problems, "endDate must not be before startDate")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCouponInput, strings.Join(problems, "; "))
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	return &Coupon{
		Code:           code,
		Description:    strings.TrimSpace(input.Description),
		DiscountType:   input.DiscountType,
		DiscountValue:  input.DiscountValue,
		MinOrderAmount: input.MinOrderAmount,
		MaxDiscount:    input.MaxDiscount,
		UsageLimit:     input.UsageLimit,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		IsActive:       active,
	}, nil
}
