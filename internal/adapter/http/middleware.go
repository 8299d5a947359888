package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hbnb/internal/domain"
)

type contextKey string

const claimsContextKey contextKey = "claims"

var (
	errUnauthorized = errors.New("missing or invalid token")
	errAdminOnly    = errors.New("admin privileges required")

	errCredentialChange = errors.New("you cannot modify credentials or admin status")
)

// authMiddleware resolves a bearer token into claims on the request context.
// Requests without a valid token continue anonymously; gated routes reject
// them with requireAuth or requireAdmin.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.authSvc.ParseToken(r.Context(), raw)
		if err != nil {
			s.logger.Debug("rejected token", zap.String("path", r.URL.Path), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func withClaims(ctx context.Context, c *domain.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, c)
}

// claimsFrom returns the authenticated caller, or nil.
func claimsFrom(ctx context.Context) *domain.Claims {
	c, _ := ctx.Value(claimsContextKey).(*domain.Claims)
	return c
}

func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claimsFrom(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, errUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := claimsFrom(r.Context())
		if c == nil {
			writeError(w, http.StatusUnauthorized, errUnauthorized)
			return
		}
		if !c.IsAdmin {
			writeError(w, http.StatusForbidden, errAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}
