package web

import (
	"context"

	"github.com/loftwall/atrium/internal/domain"
	"github.com/loftwall/atrium/pkg/httpx"
)

type ctxKey struct{}

func contextWithUser(ctx context.Context, user domain.User) context.Context {
	ctx = context.WithValue(ctx, ctxKey{}, user)
	// Also expose the plain id for httpx rate limiting by user.
	return context.WithValue(ctx, httpx.CtxKeyUserID, user.ID)
}

// UserFromContext returns the authenticated user injected by the session
// gate, if any.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(domain.User)
	return user, ok
}
