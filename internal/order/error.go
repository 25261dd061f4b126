package order

import "storefront-be/internal/apperr"

var (
	ErrInvalidOrderInput     = apperr.New(apperr.KindInvalidInput, "INVALID_INPUT", "invalid order input")
	ErrOrderNotFound         = apperr.New(apperr.KindNotFound, "ORDER_NOT_FOUND", "order not found")
	ErrForbidden             = apperr.New(apperr.KindForbidden, "FORBIDDEN", "not allowed to access this order")
	ErrInvalidStatus         = apperr.New(apperr.KindInvalidInput, "INVALID_STATUS", "invalid order status")
	ErrInvalidTransition     = apperr.New(apperr.KindInvalidInput, "INVALID_TRANSITION", "status transition not allowed")
	ErrInvalidTrackingStatus = apperr.New(apperr.KindInvalidInput, "INVALID_TRACKING_STATUS", "invalid tracking status")
	ErrOrderHasInvoice       = apperr.New(apperr.KindConflict, "ORDER_HAS_INVOICE", "order has an issued invoice and cannot be deleted")
	ErrUnknownBuyer          = apperr.New(apperr.KindInvalidInput, "UNKNOWN_BUYER", "buyer account does not exist")
	ErrTrackingIDInUse       = apperr.New(apperr.KindConflict, "TRACKING_ID_IN_USE", "tracking id already belongs to another order")

	// -- Constants (External Systems) --
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
)
