package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/loftwall/atrium/pkg/appsdk"
	"github.com/loftwall/atrium/pkg/httpx"
)

// handleDiagnostics godoc
//
//	@Summary		Diagnostics Endpoint
//	@Description	Probes each application table with a count query and reports whether the caller's cookie resolved to a live session
//	@Description	Intended for operational smoke-testing, not monitoring
//	@Tags			Diagnostics
//	@Produce		json
//	@Success		200	{object}	appsdk.DiagnosticsResponse	"all tables reachable"
//	@Failure		503	{object}	appsdk.DiagnosticsResponse	"one or more table probes failed"
//	@Router			/api/diagnostics [get].
func (rt *Router) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	probes := map[string]func(context.Context) (int64, error){
		"users":                func(ctx context.Context) (int64, error) { return rt.store.Users().Count(ctx) },
		"profiles":             func(ctx context.Context) (int64, error) { return rt.store.Profiles().Count(ctx) },
		"organizations":        func(ctx context.Context) (int64, error) { return rt.store.Organizations().Count(ctx) },
		"organization_members": func(ctx context.Context) (int64, error) { return rt.store.Members().Count(ctx) },
	}

	response := appsdk.DiagnosticsResponse{
		Status: "ok",
		Tables: make(map[string]string, len(probes)),
	}
	statusCode := http.StatusOK

	for table, probe := range probes {
		n, err := probe(ctx)
		if err != nil {
			response.Tables[table] = "error: " + err.Error()
			response.Status = "degraded"
			statusCode = http.StatusServiceUnavailable
			continue
		}
		response.Tables[table] = fmt.Sprintf("ok (%d rows)", n)
	}

	// The gate skips /api/, so the session check happens here directly.
	if token, ok := rt.cookie.read(r); ok {
		if _, _, err := rt.Sessions.Resolve(ctx, token); err == nil {
			response.Session = true
		}
	}

	httpx.WriteJSON(w, statusCode, response)
}
