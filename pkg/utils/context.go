package utils

import (
	"context"

	"github.com/google/uuid"
)

// Cookie names shared by handlers and middleware
const (
	LoginSessionCookie = "login_session"
	GuestCartCookie    = "guest_cart"
)

type authKey struct{}

// authInfo is what the session middleware learned about the caller
type authInfo struct {
	userID uuid.UUID
	role   string
	token  string
}

func authFrom(ctx context.Context) (authInfo, bool) {
	info, ok := ctx.Value(authKey{}).(authInfo)
	return info, ok
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	info, ok := authFrom(ctx)
	if !ok || info.userID == uuid.Nil {
		return uuid.Nil, false
	}
	return info.userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	info, ok := authFrom(ctx)
	if !ok || info.role == "" {
		return "", false
	}
	return info.role, true
}

// SetUserContext keeps any token already attached
func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	info, _ := authFrom(ctx)
	info.userID = userID
	info.role = role
	return context.WithValue(ctx, authKey{}, info)
}

// GetTokenFromContext returns the bearer token AuthSession accepted
func GetTokenFromContext(ctx context.Context) (string, bool) {
	info, ok := authFrom(ctx)
	if !ok || info.token == "" {
		return "", false
	}
	return info.token, true
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	info, _ := authFrom(ctx)
	info.token = token
	return context.WithValue(ctx, authKey{}, info)
}
