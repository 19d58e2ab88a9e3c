package actorctx

import (
	"context"

	"github.com/geocoder89/koinonia/internal/auth"
)

type ctxKey struct{}

func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(auth.Identity)

	return id, ok && id.ID > 0
}
