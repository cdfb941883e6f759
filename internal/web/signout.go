package web

import (
	"net/http"

	"github.com/loftwall/atrium/pkg/slogx"
)

func (rt *Router) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if token, ok := rt.cookie.read(r); ok {
		if err := rt.Sessions.SignOut(r.Context(), token); err != nil {
			slogx.FromContext(r.Context()).Warn("failed to delete session on sign-out", "error", err)
		}
	}

	// The cookie is cleared even if the store delete failed; the session
	// reaper will catch the orphan.
	rt.cookie.clear(w)
	http.Redirect(w, r, signInPath, http.StatusSeeOther)
}
