package handler

import (
	"fmt"
	"net/http"
	"strings"

	"storefront-be/internal/order"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	responder
	svc order.Service
}

func NewOrderHandler(svc order.Service, exposeInternal bool) *OrderHandler {
	return &OrderHandler{responder: responder{exposeInternal: exposeInternal}, svc: svc}
}

func (h *OrderHandler) Create(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	var input order.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	o, err := h.svc.CreateOrder(c.Request.Context(), requester.AccountID, input)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, o)
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	limit, page := pageParams(c)
	orders, err := h.svc.ListMyOrders(c.Request.Context(), requester, limit, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, orders)
}

// List serves the admin listing. Statuses may repeat (?status=a&status=b)
// or be comma separated.
func (h *OrderHandler) List(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	var filter order.Filter
	for _, raw := range c.QueryArray("status") {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, order.Status(strings.ToLower(s)))
			}
		}
	}

	limit, page := pageParams(c)
	orders, err := h.svc.ListOrders(c.Request.Context(), filter, limit, page, requester)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	o, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, o)
}

type updateStatusRequest struct {
	Status     order.Status `json:"status"`
	TrackingID *string      `json:"trackingId"`
	Message    string       `json:"message"`
	Location   string       `json:"location"`
}

func (r updateStatusRequest) hasTracking() bool {
	return r.TrackingID != nil || r.Message != "" || r.Location != ""
}

// UpdateStatus transitions the order and, when tracking fields are sent,
// records a matching tracking entry afterwards.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	trackingStatus, mapped := order.TrackingStatusFor(req.Status)
	withTracking := mapped && req.hasTracking()

	// A taken tracking id must fail before the status is committed.
	if withTracking && req.TrackingID != nil && requester.IsAdmin() {
		if err := h.svc.CheckTrackingID(ctx, id, *req.TrackingID); err != nil {
			h.fail(c, err)
			return
		}
	}

	o, err := h.svc.TransitionStatus(ctx, id, req.Status, requester)
	if err != nil {
		h.fail(c, err)
		return
	}

	if withTracking {
		o, err = h.svc.AppendTracking(ctx, id, order.TrackingInput{
			TrackingID: req.TrackingID,
			Status:     trackingStatus,
			Message:    req.Message,
			Location:   req.Location,
		}, requester)
		if err != nil {
			h.fail(c, err)
			return
		}
	}

	h.ok(c, http.StatusOK, o)
}

func (h *OrderHandler) AppendTracking(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	var input order.TrackingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	o, err := h.svc.AppendTracking(c.Request.Context(), c.Param("id"), input, requester)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, o)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	o, err := h.svc.CancelOrder(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, o)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.svc.DeleteOrder(c.Request.Context(), id, requester); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// Track is public and returns only the redacted tracking view.
func (h *OrderHandler) Track(c *gin.Context) {
	summary, err := h.svc.FindByTrackingID(c.Request.Context(), c.Param("trackingId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, summary)
}
