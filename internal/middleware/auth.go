package middleware

import (
	"crypto/subtle"

	"storefront-be/internal/apperr"
	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
)

const InternalAuthHeader = "X-Service-Auth"

var (
	ErrUnauthenticated = apperr.New(apperr.KindUnauthenticated, "UNAUTHENTICATED", "authentication required")
	ErrInvalidToken    = apperr.New(apperr.KindUnauthenticated, "INVALID_TOKEN", "invalid or expired token")
	ErrRoleForbidden   = apperr.New(apperr.KindForbidden, "FORBIDDEN", "access denied")
)

// Authenticate resolves the caller from the access token. Requests
// without a token pass through anonymously; a token that fails to parse
// is rejected.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := auth.ExtractAccessToken(c.Request)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(secret, tokenStr)
		if err != nil {
			logger.FromCtx(c.Request.Context()).Debug("rejecting access token")
			abort(c, ErrInvalidToken)
			return
		}

		ctx := utils.SetUserContext(c.Request.Context(), claims.UserID, claims.Email, claims.Role)
		ctx = logger.WithAccountID(ctx, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAuth rejects anonymous callers.
func RequireAuth() gin.HandlerFunc {
	return RequireRole()
}

// RequireRole rejects anonymous callers with 401 and, when roles are
// given, callers holding none of them with 403.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, ok := utils.RequesterFromContext(c.Request.Context())
		if !ok {
			abort(c, ErrUnauthenticated)
			return
		}

		if len(roles) > 0 && !hasRole(requester.Role, roles) {
			abort(c, ErrRoleForbidden)
			return
		}

		c.Next()
	}
}

// InternalOrRole admits trusted services presenting the shared secret in
// X-Service-Auth, and otherwise falls back to RequireRole(roles...).
func InternalOrRole(internalKey string, roles ...string) gin.HandlerFunc {
	requireRole := RequireRole(roles...)

	return func(c *gin.Context) {
		if IsInternalCaller(c, internalKey) {
			c.Request = c.Request.WithContext(utils.WithInternalRequest(c.Request.Context()))
			c.Next()
			return
		}
		requireRole(c)
	}
}

func IsInternalCaller(c *gin.Context, internalKey string) bool {
	if internalKey == "" {
		return false
	}
	presented := c.GetHeader(InternalAuthHeader)
	return presented != "" && subtle.ConstantTimeCompare([]byte(presented), []byte(internalKey)) == 1
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func abort(c *gin.Context, err error) {
	status, body := apperr.ToResponse(err, false)
	c.AbortWithStatusJSON(status, body)
}
