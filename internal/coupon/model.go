package coupon

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

type Coupon struct {
	ID             string              `json:"id"`
	Code           string              `json:"code"`
	Description    string              `json:"description"`
	DiscountType   DiscountType        `json:"discountType"`
	DiscountValue  decimal.Decimal     `json:"discountValue"`
	MinOrderAmount decimal.Decimal     `json:"minOrderAmount"`
	MaxDiscount    decimal.NullDecimal `json:"maxDiscount"`
	UsageLimit     *int                `json:"usageLimit"`
	UsedCount      int                 `json:"usedCount"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	IsActive       bool                `json:"isActive"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// Validation is the discount preview returned to checkout.
type Validation struct {
	CouponID      string              `json:"couponId"`
	Code          string              `json:"code"`
	DiscountType  DiscountType        `json:"discountType"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
	Discount      decimal.Decimal     `json:"discount"`
	MaxDiscount   decimal.NullDecimal `json:"maxDiscount"`
}

// Input is the admin create/replace payload.
type Input struct {
	Code           string              `json:"code"`
	Description    string              `json:"description"`
	DiscountType   DiscountType        `json:"discountType"`
	DiscountValue  decimal.Decimal     `json:"discountValue"`
	MinOrderAmount decimal.Decimal     `json:"minOrderAmount"`
	MaxDiscount    decimal.NullDecimal `json:"maxDiscount"`
	UsageLimit     *int                `json:"usageLimit"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	IsActive       *bool               `json:"isActive"`
}
