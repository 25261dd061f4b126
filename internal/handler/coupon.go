package handler

import (
	"fmt"
	"net/http"

	"storefront-be/internal/coupon"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CouponHandler struct {
	responder
	svc coupon.Service
}

func NewCouponHandler(svc coupon.Service, exposeInternal bool) *CouponHandler {
	return &CouponHandler{responder: responder{exposeInternal: exposeInternal}, svc: svc}
}

// Validate previews the discount for ?orderAmount without consuming the coupon.
func (h *CouponHandler) Validate(c *gin.Context) {
	raw := c.Query("orderAmount")
	if raw == "" {
		h.fail(c, fmt.Errorf("%w: orderAmount is required", ErrInvalidQuery))
		return
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		h.fail(c, fmt.Errorf("%w: orderAmount must be a number", ErrInvalidQuery))
		return
	}

	v, err := h.svc.Validate(c.Request.Context(), c.Param("code"), amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, v)
}

func (h *CouponHandler) Use(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.svc.RecordUsage(ctx, id); err != nil {
		h.fail(c, err)
		return
	}

	logger.FromCtx(ctx).Info("coupon usage recorded",
		zap.String("coupon_id", id),
		zap.Bool("internal_caller", utils.IsInternalRequest(ctx)),
	)
	h.ok(c, http.StatusOK, gin.H{"id": id, "used": true})
}

func (h *CouponHandler) Create(c *gin.Context) {
	var input coupon.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	cp, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, cp)
}

func (h *CouponHandler) List(c *gin.Context) {
	limit, page := pageParams(c)
	coupons, err := h.svc.List(c.Request.Context(), limit, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, coupons)
}

func (h *CouponHandler) Get(c *gin.Context) {
	cp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, cp)
}

func (h *CouponHandler) Update(c *gin.Context) {
	var input coupon.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	cp, err := h.svc.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, cp)
}

func (h *CouponHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}
