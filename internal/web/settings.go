package web

import "net/http"

func (rt *Router) handleSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, signInPath, http.StatusSeeOther)
		return
	}

	rt.render(w, r, http.StatusOK, "settings", pageData{
		Title: "Settings",
		User:  user,
	})
}
