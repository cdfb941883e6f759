package web

import "net/http"

// The root path just forwards to the dashboard; the session gate decides
// whether that lands on the dashboard or on sign-in.
func (rt *Router) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

func (rt *Router) handleAuthError(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, http.StatusOK, "error", pageData{Title: "Something went wrong"})
}
