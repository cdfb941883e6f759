package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/loftwall/atrium/internal/service"
	"github.com/loftwall/atrium/pkg/slogx"
)

func (rt *Router) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title:      "Sign in",
		RedirectTo: r.URL.Query().Get("redirectTo"),
	}
	if r.URL.Query().Get("reset") == "1" {
		data.Notice = "Your password has been updated. Sign in with your new password."
	}
	rt.render(w, r, http.StatusOK, "signin", data)
}

func (rt *Router) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	redirectTo := r.PostFormValue("redirectTo")

	swt, err := rt.Sessions.SignInWithPassword(r.Context(), email, password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		rt.render(w, r, http.StatusUnprocessableEntity, "signin", pageData{
			Title:      "Sign in",
			Error:      "Invalid email or password.",
			Email:      email,
			RedirectTo: redirectTo,
		})
		return
	case errors.Is(err, service.ErrEmailNotVerified):
		// Unverified accounts get routed back into the verification flow.
		http.Redirect(w, r, "/auth/verify?"+url.Values{"email": {email}}.Encode(), http.StatusSeeOther)
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("sign-in failed", "error", err)
		rt.render(w, r, http.StatusInternalServerError, "signin", pageData{
			Title:      "Sign in",
			Error:      "Something went wrong. Please try again.",
			Email:      email,
			RedirectTo: redirectTo,
		})
		return
	}

	rt.cookie.write(w, swt.Token)
	http.Redirect(w, r, sanitizeRedirect(redirectTo), http.StatusSeeOther)
}
