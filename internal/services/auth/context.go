package auth

import "context"

// Identity is the authenticated caller as resolved by the middleware. It
// travels on the request context so handlers never re-parse tokens.
type Identity struct {
	UserID int64
	SID    string
	Role   string
}

type ctxKey int

const identityCtxKey ctxKey = iota

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(Identity)
	return id, ok
}
