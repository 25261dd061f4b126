package settings

import "storefront-be/internal/apperr"

var (
	ErrBillingProfileNotFound = apperr.New(apperr.KindNotFound, "SETTINGS_NOT_FOUND", "company billing profile is not configured")
	ErrInvalidBillingProfile  = apperr.New(apperr.KindInvalidInput, "INVALID_INPUT", "invalid billing profile")
)
