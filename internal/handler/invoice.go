package handler

import (
	"net/http"

	"storefront-be/internal/invoice"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	responder
	svc invoice.Service
}

func NewInvoiceHandler(svc invoice.Service, exposeInternal bool) *InvoiceHandler {
	return &InvoiceHandler{responder: responder{exposeInternal: exposeInternal}, svc: svc}
}

// Generate returns the order's invoice, creating it on first request.
func (h *InvoiceHandler) Generate(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	inv, err := h.svc.GetOrCreateInvoice(c.Request.Context(), c.Param("orderId"), requester)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, inv)
}

func (h *InvoiceHandler) GetByOrder(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	inv, err := h.svc.GetByOrder(c.Request.Context(), c.Param("orderId"), requester)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, inv)
}
