package utils

import (
	"context"

	"yamdb/internal/data/entity"
)

type contextKey string

const (
	UserKey  contextKey = "user"
	TokenKey contextKey = "token"
)

// SetUserContext stores the authenticated user loaded by the auth middleware.
func SetUserContext(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetUserFromContext returns the authenticated user, or nil for anonymous requests.
func GetUserFromContext(ctx context.Context) *entity.User {
	user, _ := ctx.Value(UserKey).(*entity.User)
	return user
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
