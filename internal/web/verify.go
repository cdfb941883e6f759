package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/loftwall/atrium/internal/service"
	"github.com/loftwall/atrium/pkg/slogx"
)

func (rt *Router) handleVerifyPage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title: "Verify your email",
		Email: r.URL.Query().Get("email"),
	}
	if r.URL.Query().Get("resent") == "1" {
		data.Notice = "A new code is on its way."
	}
	rt.render(w, r, http.StatusOK, "verify", data)
}

func (rt *Router) handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	code := r.PostFormValue("code")

	swt, err := rt.Sessions.VerifyOTP(r.Context(), email, code)
	switch {
	case errors.Is(err, service.ErrCodeInvalid):
		rt.render(w, r, http.StatusUnprocessableEntity, "verify", pageData{
			Title: "Verify your email",
			Error: "That code is invalid or expired.",
			Email: email,
		})
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("verification failed", "error", err)
		rt.render(w, r, http.StatusInternalServerError, "verify", pageData{
			Title: "Verify your email",
			Error: "Something went wrong. Please try again.",
			Email: email,
		})
		return
	}

	rt.cookie.write(w, swt.Token)
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

func (rt *Router) handleVerifyResend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	if err := rt.Sessions.ResendVerification(r.Context(), email); err != nil {
		slogx.FromContext(r.Context()).Error("resend verification failed", "error", err)
	}

	// Same answer whether or not the account exists.
	http.Redirect(w, r, "/auth/verify?"+url.Values{"email": {email}, "resent": {"1"}}.Encode(), http.StatusSeeOther)
}
