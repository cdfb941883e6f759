package appsdk

// ErrorResponse is the generic JSON error shape.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// DiagnosticsResponse reports table reachability and whether the caller's
// cookie resolved to a session. Operational smoke-testing only.
type DiagnosticsResponse struct {
	Status  string            `json:"status"`
	Tables  map[string]string `json:"tables"`
	Session bool              `json:"session"`
}
