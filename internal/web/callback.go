package web

import (
	"errors"
	"net/http"

	"github.com/loftwall/atrium/internal/service"
	"github.com/loftwall/atrium/pkg/slogx"
)

// handleCallback completes the emailed verification link. The code parameter
// carries a signed one-time token; anything that doesn't verify cleanly lands
// on the error page rather than leaking why.
func (rt *Router) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/auth/error", http.StatusSeeOther)
		return
	}

	swt, err := rt.Sessions.ExchangeCode(r.Context(), code)
	if err != nil {
		if !errors.Is(err, service.ErrCodeInvalid) {
			slogx.FromContext(r.Context()).Error("code exchange failed", "error", err)
		}
		http.Redirect(w, r, "/auth/error", http.StatusSeeOther)
		return
	}

	rt.cookie.write(w, swt.Token)
	http.Redirect(w, r, sanitizeRedirect(r.URL.Query().Get("next")), http.StatusSeeOther)
}
