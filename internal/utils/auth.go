package utils

import "context"

// Requester is the trusted {accountId, role} pair produced by the auth layer.
type Requester struct {
	AccountID string
	Email     string
	Role      string
}

func (r Requester) IsAdmin() bool {
	return r.Role == RoleAdmin
}

// CanAccess reports whether the requester owns the resource or is an admin.
func (r Requester) CanAccess(ownerID string) bool {
	if r.IsAdmin() {
		return true
	}
	return r.AccountID != "" && r.AccountID == ownerID
}

// SetUserContext sets user info into context (called by middleware)
func SetUserContext(ctx context.Context, id string, email string, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx
}

// GetUserIDFromContext retrieves userID safely
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

func RequesterFromContext(ctx context.Context) (Requester, bool) {
	id, ok := GetUserIDFromContext(ctx)
	if !ok {
		return Requester{}, false
	}
	return Requester{
		AccountID: id,
		Email:     GetUserEmailFromContext(ctx),
		Role:      GetUserRoleFromContext(ctx),
	}, true
}
