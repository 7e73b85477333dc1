package auth

import (
	"context"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
)

type identityContextKey string

const identityKey identityContextKey = "auth_identity"

func WithIdentity(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

func IdentityFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(identityKey).(model.User)
	return user, ok
}
