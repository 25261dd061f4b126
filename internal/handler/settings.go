package handler

import (
	"fmt"
	"net/http"

	"storefront-be/internal/settings"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	responder
	svc settings.Service
}

func NewSettingsHandler(svc settings.Service, exposeInternal bool) *SettingsHandler {
	return &SettingsHandler{responder: responder{exposeInternal: exposeInternal}, svc: svc}
}

func (h *SettingsHandler) GetBilling(c *gin.Context) {
	p, err := h.svc.GetBillingProfile(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, p)
}

func (h *SettingsHandler) UpdateBilling(c *gin.Context) {
	var p settings.BillingProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	updated, err := h.svc.UpdateBillingProfile(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, updated)
}
