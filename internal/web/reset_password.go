package web

import (
	"errors"
	"net/http"

	"github.com/loftwall/atrium/internal/service"
	"github.com/loftwall/atrium/pkg/slogx"
)

// The reset page serves two forms behind one path: without a token it asks
// for an email, with a token it asks for the new password.

func (rt *Router) handleResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, http.StatusOK, "reset_password", pageData{
		Title: "Reset password",
		Token: r.URL.Query().Get("token"),
	})
}

func (rt *Router) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if token := r.PostFormValue("token"); token != "" {
		rt.completePasswordReset(w, r, token)
		return
	}

	email := r.PostFormValue("email")
	if err := rt.Sessions.RequestPasswordReset(r.Context(), email); err != nil {
		slogx.FromContext(r.Context()).Error("password reset request failed", "error", err)
	}

	// Identical response for known and unknown emails.
	rt.render(w, r, http.StatusOK, "reset_password", pageData{
		Title:  "Reset password",
		Notice: "If an account exists for that email, a reset link is on its way.",
	})
}

func (rt *Router) completePasswordReset(w http.ResponseWriter, r *http.Request, token string) {
	password := r.PostFormValue("password")
	if len(password) < 6 {
		rt.render(w, r, http.StatusUnprocessableEntity, "reset_password", pageData{
			Title: "Reset password",
			Error: "Password must be at least 6 characters.",
			Token: token,
		})
		return
	}

	err := rt.Sessions.ResetPassword(r.Context(), token, password)
	switch {
	case errors.Is(err, service.ErrCodeInvalid):
		rt.render(w, r, http.StatusUnprocessableEntity, "reset_password", pageData{
			Title: "Reset password",
			Error: "That reset link is invalid or expired. Request a new one below.",
		})
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("password reset failed", "error", err)
		rt.render(w, r, http.StatusInternalServerError, "reset_password", pageData{
			Title: "Reset password",
			Error: "Something went wrong. Please try again.",
			Token: token,
		})
		return
	}

	http.Redirect(w, r, signInPath+"?reset=1", http.StatusSeeOther)
}
