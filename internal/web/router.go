package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/loftwall/atrium/internal/service"
	"github.com/loftwall/atrium/internal/store"
	"github.com/loftwall/atrium/pkg/httpx"
	"github.com/loftwall/atrium/pkg/slogx"

	_ "github.com/loftwall/atrium/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	appName      string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store  store.Store
	cookie CookieConfig

	Sessions  *service.SessionService
	Dashboard *service.DashboardService

	// AnalyticsKey is surfaced to every page template when set.
	AnalyticsKey string
}

func NewRouter(
	appName, buildVersion string,
	st store.Store,
	cookie CookieConfig,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		appName:      appName,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cookie:       cookie,
		logger:       logger,
	}
	return r
}

func (rt *Router) ApplyRoutes() {
	// The session gate sits in the global chain so every page route shares
	// one resolution and one redirect policy.
	rt.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(rt.logger),
		SessionGate(rt.Sessions, rt.cookie),
	}

	rt.registerPages()
	rt.registerAuth()
	rt.registerAPI()
	rt.registerSystem()

	rt.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Atrium Application Service API
//	@version		0.1.0
//	@description	Session-backed web application service: sign-up with email verification, cookie sessions, tenant provisioning, and a server-rendered dashboard.
//	@description
//	@description				Pages are served as HTML; /api, /livez and /readyz are JSON.
//
//	@contact.name				Loftwall Team
//	@contact.url				https://github.com/loftwall/atrium
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
func (rt *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(rt.Mux, rt.middlewares...).ServeHTTP(w, req)
}

func (rt *Router) registerPages() {
	rt.Mux.Handle("GET /{$}",
		httpx.Chain(http.HandlerFunc(rt.handleHome),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Authenticated pages - lenient rate limit by user (the gate has already
	// put the user ID in context)
	rt.Mux.Handle("GET /dashboard",
		httpx.Chain(http.HandlerFunc(rt.handleDashboard),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	rt.Mux.Handle("GET /settings",
		httpx.Chain(http.HandlerFunc(rt.handleSettings),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (rt *Router) registerAuth() {
	// Form pages - lenient rate limit (just render HTML)
	rt.Mux.Handle("GET /auth/signin",
		httpx.Chain(http.HandlerFunc(rt.handleSignInPage),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	rt.Mux.Handle("GET /auth/signup",
		httpx.Chain(http.HandlerFunc(rt.handleSignUpPage),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	rt.Mux.Handle("GET /auth/verify",
		httpx.Chain(http.HandlerFunc(rt.handleVerifyPage),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	rt.Mux.Handle("GET /auth/reset-password",
		httpx.Chain(http.HandlerFunc(rt.handleResetPasswordPage),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	rt.Mux.Handle("GET /auth/error",
		httpx.Chain(http.HandlerFunc(rt.handleAuthError),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /auth/signin - strict rate limit by IP + email to slow brute force
	rt.Mux.Handle("POST /auth/signin",
		httpx.Chain(http.HandlerFunc(rt.handleSignIn),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)

	// POST /auth/signup - strict rate limit by IP (account creation)
	rt.Mux.Handle("POST /auth/signup",
		httpx.Chain(http.HandlerFunc(rt.handleSignUp),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	rt.Mux.Handle("POST /auth/signout",
		httpx.Chain(http.HandlerFunc(rt.handleSignOut),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// GET /auth/callback - moderate rate limit (one-time link tokens)
	rt.Mux.Handle("GET /auth/callback",
		httpx.Chain(http.HandlerFunc(rt.handleCallback),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /auth/verify - strict rate limit by IP + email (6-digit code guessing)
	rt.Mux.Handle("POST /auth/verify",
		httpx.Chain(http.HandlerFunc(rt.handleVerify),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)
	rt.Mux.Handle("POST /auth/verify/resend",
		httpx.Chain(http.HandlerFunc(rt.handleVerifyResend),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /auth/reset-password - strict rate limit by IP (email sending)
	rt.Mux.Handle("POST /auth/reset-password",
		httpx.Chain(http.HandlerFunc(rt.handleResetPassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (rt *Router) registerAPI() {
	rt.Mux.Handle("GET /api/diagnostics",
		httpx.Chain(http.HandlerFunc(rt.handleDiagnostics),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (rt *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	rt.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(rt.startTime, rt.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	rt.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(rt.startTime, rt.buildVersion, rt.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
