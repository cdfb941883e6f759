package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/loftwall/atrium/internal/service"
	"github.com/loftwall/atrium/pkg/slogx"
)

func (rt *Router) handleSignUpPage(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, http.StatusOK, "signup", pageData{Title: "Create an account"})
}

func (rt *Router) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	fullName := strings.TrimSpace(r.PostFormValue("full_name"))
	orgName := strings.TrimSpace(r.PostFormValue("organization_name"))

	if msg := validateSignUp(email, password, fullName, orgName); msg != "" {
		rt.render(w, r, http.StatusUnprocessableEntity, "signup", pageData{
			Title: "Create an account",
			Error: msg,
			Email: email,
		})
		return
	}

	result, err := rt.Sessions.SignUp(r.Context(), email, password, fullName, orgName)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		rt.render(w, r, http.StatusUnprocessableEntity, "signup", pageData{
			Title: "Create an account",
			Error: "That email is already registered. Try signing in instead.",
			Email: email,
		})
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("sign-up failed", "error", err)
		rt.render(w, r, http.StatusInternalServerError, "signup", pageData{
			Title: "Create an account",
			Error: "Something went wrong. Please try again.",
			Email: email,
		})
		return
	}

	if result.PendingVerification {
		http.Redirect(w, r, "/auth/verify?"+url.Values{"email": {email}}.Encode(), http.StatusSeeOther)
		return
	}

	rt.cookie.write(w, result.Session.Token)
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

func validateSignUp(email, password, fullName, orgName string) string {
	switch {
	case !strings.Contains(email, "@"):
		return "Please enter a valid email address."
	case len(password) < 6:
		return "Password must be at least 6 characters."
	case len(fullName) < 2:
		return "Full name must be at least 2 characters."
	case len(orgName) < 2:
		return "Organization name must be at least 2 characters."
	}
	return ""
}
