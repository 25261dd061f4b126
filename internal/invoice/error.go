package invoice

import "storefront-be/internal/apperr"

var (
	ErrInvoiceNotFound = apperr.New(apperr.KindNotFound, "INVOICE_NOT_FOUND", "invoice not found")
	ErrForbidden       = apperr.New(apperr.KindForbidden, "FORBIDDEN", "not allowed to access this invoice")
	ErrInvalidOrderID  = apperr.New(apperr.KindInvalidInput, "INVALID_INPUT", "malformed order id")

	// ErrBillingNotConfigured is a server-side setup fault, not a client error.
	ErrBillingNotConfigured = apperr.New(apperr.KindInternal, "BILLING_NOT_CONFIGURED", "company billing profile is not configured")
)
