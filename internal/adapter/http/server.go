package adapthttp

import (
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"hbnb/internal/app"
)

// OIDCConfig holds the single sign-on settings. SSO routes answer 404 when
// Enabled is false.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Options tune optional server behaviour.
type Options struct {
	Logger *zap.Logger
	OIDC   OIDCConfig
	// LoginRate is the sustained number of login attempts per second allowed
	// per client address. Zero disables the limiter.
	LoginRate  float64
	LoginBurst int
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	facade       *app.Facade
	authSvc      *app.AuthService
	logger       *zap.Logger
	oidcConfig   OIDCConfig
	loginLimiter *RateLimiter
	metrics      *Metrics
}

// New creates a Server wired to the given application services.
func New(f *app.Facade, authSvc *app.AuthService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		facade:     f,
		authSvc:    authSvc,
		logger:     logger,
		oidcConfig: opts.OIDC,
		metrics:    NewMetrics(),
	}
	if opts.LoginRate > 0 {
		s.loginLimiter = NewRateLimiter(opts.LoginRate, opts.LoginBurst, logger)
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(withNoCache, s.metrics.Instrument, s.loggingMiddleware, s.authMiddleware)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.With(s.rateLimitLogin).Post("/login", s.handleLogin)
			r.Get("/config", s.handleConfig)
			r.Get("/sso/login", s.handleSSOLogin)
			r.Get("/sso/callback", s.handleSSOCallback)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.With(requireAdmin).Post("/", s.handleCreateUser)
			r.Get("/{id}", s.handleGetUser)
			r.With(requireAuth).Put("/{id}", s.handleUpdateUser)
			r.Get("/{id}/places", s.handleUserPlaces)
		})

		r.Route("/places", func(r chi.Router) {
			r.Get("/", s.handleListPlaces)
			r.With(requireAuth).Post("/", s.handleCreatePlace)
			r.Get("/{id}", s.handleGetPlace)
			r.With(requireAuth).Put("/{id}", s.handleUpdatePlace)
			r.Get("/{id}/reviews", s.handlePlaceReviews)
			r.With(requireAuth).Post("/{id}/amenities/{amenityID}", s.handleAddPlaceAmenity)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", s.handleListReviews)
			r.With(requireAuth).Post("/", s.handleCreateReview)
			r.Get("/{id}", s.handleGetReview)
			r.With(requireAuth).Put("/{id}", s.handleUpdateReview)
			r.With(requireAuth).Delete("/{id}", s.handleDeleteReview)
		})

		r.Route("/amenities", func(r chi.Router) {
			r.Get("/", s.handleListAmenities)
			r.With(requireAdmin).Post("/", s.handleCreateAmenity)
			r.Get("/{id}", s.handleGetAmenity)
			r.With(requireAdmin).Put("/{id}", s.handleUpdateAmenity)
		})
	})

	return r
}
