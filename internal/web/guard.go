package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/loftwall/atrium/internal/domain"
	"github.com/loftwall/atrium/internal/service"
	"github.com/loftwall/atrium/pkg/httpx"
	"github.com/loftwall/atrium/pkg/slogx"
)

const (
	authSection   = "/auth/"
	callbackPath  = "/auth/callback"
	signInPath    = "/auth/signin"
	signOutPath   = "/auth/signout"
	dashboardPath = "/dashboard"
)

// Paths the gate never intercepts: assets, probes, and the JSON surface
// (which reports session state itself).
var gateExclusions = []string{
	"/static/",
	"/favicon.ico",
	"/livez",
	"/readyz",
	"/api/",
	"/swagger/",
}

// SessionResolver resolves a cookie token to its user and session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (domain.User, domain.Session, error)
}

// SessionGate is the single authorization boundary for the page surface.
// It resolves the session cookie once per request and applies the whole
// redirect policy:
//
//   - the auth callback always passes through, session or not
//   - authenticated requests to the auth section go to the dashboard,
//     except sign-out, which must reach its handler to tear the session down
//   - unauthenticated requests to the auth section pass through
//   - unauthenticated requests anywhere else go to sign-in, carrying the
//     original path as redirectTo
//
// Any error resolving the session is treated as "no session" — the gate
// fails closed. Handlers downstream read the user from the request context
// and never re-derive the policy.
func SessionGate(resolver SessionResolver, cookie CookieConfig) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			for _, prefix := range gateExclusions {
				if strings.HasPrefix(path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := r.Context()
			user, authed := resolveUser(ctx, resolver, cookie, r)
			if authed {
				ctx = contextWithUser(ctx, user)
				r = r.WithContext(ctx)
			}

			switch {
			case path == callbackPath:
				// The callback establishes the session itself.
				next.ServeHTTP(w, r)
			case strings.HasPrefix(path, authSection):
				if authed && path != signOutPath {
					http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
					return
				}
				next.ServeHTTP(w, r)
			default:
				if !authed {
					redirect := url.Values{"redirectTo": {path}}
					http.Redirect(w, r, signInPath+"?"+redirect.Encode(), http.StatusSeeOther)
					return
				}
				next.ServeHTTP(w, r)
			}
		})
	}
}

func resolveUser(ctx context.Context, resolver SessionResolver, cookie CookieConfig, r *http.Request) (domain.User, bool) {
	token, ok := cookie.read(r)
	if !ok {
		return domain.User{}, false
	}

	user, _, err := resolver.Resolve(ctx, token)
	if err != nil {
		if !errors.Is(err, service.ErrSessionNotFound) {
			slogx.FromContext(ctx).Warn("session resolution failed, treating as unauthenticated", "error", err)
		}
		return domain.User{}, false
	}
	return user, true
}

// sanitizeRedirect keeps post-login redirects on-site. Anything that is not
// a plain absolute path falls back to the dashboard.
func sanitizeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return dashboardPath
	}
	return target
}
