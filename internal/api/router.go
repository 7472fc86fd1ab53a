package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/voicediary/internal/api/handlers"
	"github.com/nikhilbhutani/voicediary/internal/api/middleware"
	"github.com/nikhilbhutani/voicediary/internal/auth"
	"github.com/nikhilbhutani/voicediary/internal/config"
)

// Services are the backends the handlers call. Limiter may be nil to
// disable rate limiting.
type Services struct {
	Recorder   handlers.Recorder
	Entries    handlers.EntryReader
	Rejections handlers.RejectionSummarizer
	Health     *handlers.HealthHandler
	Limiter    middleware.Counter
}

type Router struct {
	mux *chi.Mux
	cfg *config.Config
	svc Services
	jwt *auth.JWTMiddleware
}

func NewRouter(cfg *config.Config, svc Services) *Router {
	if svc.Health == nil {
		svc.Health = handlers.NewHealthHandlerWithChecks(nil)
	}
	return &Router{
		mux: chi.NewRouter(),
		cfg: cfg,
		svc: svc,
		jwt: auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.CORSAllowedOrigins))

	if rt.svc.Limiter != nil {
		rl := middleware.NewRateLimiter(rt.svc.Limiter, rt.cfg.Server.RateLimitPerMinute)
		r.Use(rl.Limit)
	}

	// Health endpoints (no auth)
	r.Get("/healthz", rt.svc.Health.Healthz)
	r.Get("/readyz", rt.svc.Health.Readyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		diaryH := handlers.NewDiaryHandler(rt.svc.Recorder, rt.svc.Entries)
		r.Route("/diary", func(r chi.Router) {
			r.Post("/voice", diaryH.Voice)
			r.Post("/validate", diaryH.Validate)
			r.Get("/list", diaryH.List)
			r.Get("/stats", diaryH.Stats)
			r.Get("/{id}", diaryH.Get)
		})

		adminH := handlers.NewAdminHandler(rt.svc.Rejections)
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin))
			r.Get("/rejections", adminH.Rejections)
		})
	})

	return r
}
