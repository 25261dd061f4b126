package coupon

import "storefront-be/internal/apperr"

var (
	ErrCouponNotFound     = apperr.New(apperr.KindInvalidInput, "COUPON_NOT_FOUND", "coupon not found or expired")
	ErrMinimumOrderNotMet = apperr.New(apperr.KindInvalidInput, "MINIMUM_ORDER_NOT_MET", "minimum order amount not met")
	ErrUsageLimitReached  = apperr.New(apperr.KindInvalidInput, "USAGE_LIMIT_REACHED", "coupon usage limit reached")
	ErrInvalidCouponInput = apperr.New(apperr.KindInvalidInput, "INVALID_INPUT", "invalid coupon input")
	ErrCouponCodeExists   = apperr.New(apperr.KindConflict, "COUPON_CODE_EXISTS", "coupon code already exists")
	ErrCouponNotFoundByID = apperr.New(apperr.KindNotFound, "NOT_FOUND", "coupon not found")
	ErrInvalidOrderAmount = apperr.New(apperr.KindInvalidInput, "INVALID_INPUT", "order amount must be a non-negative number")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
