// Package handler exposes the order, coupon, invoice and settings services
// over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"storefront-be/internal/apperr"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrInvalidBody     = apperr.New(apperr.KindInvalidInput, "INVALID_INPUT", "invalid request body")
	ErrInvalidQuery    = apperr.New(apperr.KindInvalidInput, "INVALID_INPUT", "invalid query parameter")
	ErrUnauthenticated = apperr.New(apperr.KindUnauthenticated, "UNAUTHENTICATED", "authentication required")
)

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// responder renders success and error bodies. exposeInternal leaks
// internal error messages and is only set outside production.
type responder struct {
	exposeInternal bool
}

func (r responder) ok(c *gin.Context, status int, data any) {
	c.JSON(status, successResponse{Success: true, Data: data})
}

func (r responder) fail(c *gin.Context, err error) {
	status, body := apperr.ToResponse(err, r.exposeInternal)
	if status >= http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, body)
}

// requester returns the authenticated caller or renders 401.
func (r responder) requester(c *gin.Context) (utils.Requester, bool) {
	req, ok := utils.RequesterFromContext(c.Request.Context())
	if !ok {
		r.fail(c, ErrUnauthenticated)
		return utils.Requester{}, false
	}
	return req, true
}

// pageParams reads ?limit and ?page; absent or malformed values fall back
// to the defaults applied by utils.Paginate.
func pageParams(c *gin.Context) (limit, page int) {
	limit, _ = strconv.Atoi(c.Query("limit"))
	page, _ = strconv.Atoi(c.Query("page"))
	return limit, page
}
