package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loftwall/atrium/internal/domain"
	"github.com/loftwall/atrium/internal/service"
)

type stubResolver struct {
	user domain.User
	err  error
}

func (s stubResolver) Resolve(_ context.Context, _ string) (domain.User, domain.Session, error) {
	if s.err != nil {
		return domain.User{}, domain.Session{}, s.err
	}
	return s.user, domain.Session{}, nil
}

func gateRequest(t *testing.T, resolver SessionResolver, path string, withCookie bool) *httptest.ResponseRecorder {
	t.Helper()
	cookie := CookieConfig{}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := SessionGate(resolver, cookie)(next)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if withCookie {
		req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "token"})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSessionGateRedirects(t *testing.T) {
	authed := stubResolver{user: domain.User{ID: "u1", Email: "a@example.com"}}
	anon := stubResolver{err: service.ErrSessionNotFound}

	t.Run("unauthenticated protected page redirects to sign-in with redirectTo", func(t *testing.T) {
		rec := gateRequest(t, anon, "/dashboard", false)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/auth/signin?redirectTo=%2Fdashboard", rec.Header().Get("Location"))
	})

	t.Run("unauthenticated root redirects to sign-in", func(t *testing.T) {
		rec := gateRequest(t, anon, "/", false)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/auth/signin?redirectTo=%2F", rec.Header().Get("Location"))
	})

	t.Run("unauthenticated auth pages pass through", func(t *testing.T) {
		for _, path := range []string{"/auth/signin", "/auth/signup", "/auth/verify", "/auth/error"} {
			rec := gateRequest(t, anon, path, false)
			require.Equal(t, http.StatusOK, rec.Code, path)
		}
	})

	t.Run("authenticated auth pages redirect to dashboard", func(t *testing.T) {
		for _, path := range []string{"/auth/signin", "/auth/signup"} {
			rec := gateRequest(t, authed, path, true)
			require.Equal(t, http.StatusSeeOther, rec.Code, path)
			require.Equal(t, "/dashboard", rec.Header().Get("Location"), path)
		}
	})

	t.Run("authenticated protected pages pass through", func(t *testing.T) {
		rec := gateRequest(t, authed, "/dashboard", true)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("sign-out passes through for authenticated users", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
		req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "token"})

		rec := httptest.NewRecorder()
		SessionGate(authed, CookieConfig{})(next).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "the gate must not bounce sign-out to the dashboard")
	})

	t.Run("callback passes through regardless of session", func(t *testing.T) {
		rec := gateRequest(t, anon, "/auth/callback", false)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = gateRequest(t, authed, "/auth/callback", true)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("excluded prefixes bypass the gate", func(t *testing.T) {
		for _, path := range []string{"/livez", "/readyz", "/api/diagnostics", "/swagger/index.html", "/static/app.css", "/favicon.ico"} {
			rec := gateRequest(t, anon, path, false)
			require.Equal(t, http.StatusOK, rec.Code, path)
		}
	})
}

func TestSessionGateFailsClosed(t *testing.T) {
	broken := stubResolver{err: errors.New("database gone")}

	rec := gateRequest(t, broken, "/dashboard", true)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "/auth/signin")
}

func TestSessionGatePutsUserInContext(t *testing.T) {
	authed := stubResolver{user: domain.User{ID: "u1", Email: "a@example.com"}}
	cookie := CookieConfig{}

	var got domain.User
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = UserFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "token"})
	SessionGate(authed, cookie)(next).ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, ok)
	require.Equal(t, "u1", got.ID)
}

func TestSanitizeRedirect(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", "/dashboard"},
		{"/settings", "/settings"},
		{"/dashboard", "/dashboard"},
		{"//evil.example", "/dashboard"},
		{"https://evil.example", "/dashboard"},
		{"settings", "/dashboard"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, sanitizeRedirect(tc.input), "input %q", tc.input)
	}
}
