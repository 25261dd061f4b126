package account

import "storefront-be/internal/apperr"

var ErrAccountNotFound = apperr.New(apperr.KindNotFound, "ACCOUNT_NOT_FOUND", "account not found")
