package web

import (
	"net/http"

	"github.com/loftwall/atrium/pkg/slogx"
)

func (rt *Router) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		// The gate puts the user in context before this handler runs.
		http.Redirect(w, r, signInPath, http.StatusSeeOther)
		return
	}

	overview, err := rt.Dashboard.Load(r.Context(), user)
	if err != nil {
		slogx.FromContext(r.Context()).Error("dashboard load failed", "user_id", user.ID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rt.render(w, r, http.StatusOK, "dashboard", pageData{
		Title:    "Dashboard",
		User:     user,
		Overview: overview,
	})
}
