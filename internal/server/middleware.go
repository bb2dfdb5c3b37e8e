package server

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"submissionsbff/internal/metrics"
	"submissionsbff/pkg/types"

	"github.com/sirupsen/logrus"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := metrics.StartTimer()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		timer.Finish(s.metrics.HTTPRequestDurationMilliseconds.WithLabelValues(r.Method, strconv.Itoa(rw.statusCode)))

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": timer.Elapsed().Milliseconds(),
		}).Info("http request")
	})
}

// Recover turns a handler panic into a 500 and keeps the server running.
func (s *Service) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovery := recover(); recovery != nil {
				s.metrics.HTTPHandlerPanicsTotal.WithLabelValues(r.Method).Inc()

				s.logger.WithFields(logrus.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  recovery,
					"stack":  string(debug.Stack()),
				}).Error("panicked while handling request")

				s.internalServerError(w)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// RequireAuth verifies the access token and stores the principal on the
// request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := s.auth.Authenticate(r)
		if err != nil {
			s.logger.WithError(err).Debug("request failed authentication")
			s.writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := contextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ResolveCaller looks up the organisation the authenticated user acts for.
// Any failure to resolve is a server error: downstream calls cannot be
// stamped without it.
func (s *Service) ResolveCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		principal, ok := principalFromContext(ctx)
		if !ok {
			s.writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		caller, err := s.identity.Caller(ctx, principal.UserID, principal.Email)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", principal.UserID).Error("failed to resolve caller")
			s.internalServerError(w)
			return
		}

		s.logger.WithFields(logrus.Fields{
			"user_id":         caller.UserID,
			"organisation_id": caller.OrganisationID,
		}).Debug("resolved caller")

		next.ServeHTTP(w, r.WithContext(types.ContextWithCaller(ctx, caller)))
	})
}

// StripTrailingSlash rewrites /path/ to /path before routing.
func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") {
			r2 := r.Clone(r.Context())
			r2.URL.Path = strings.TrimRight(path, "/")
			if r2.URL.Path == "" {
				r2.URL.Path = "/"
			}
			r2.URL.RawPath = ""
			r = r2
		}

		next.ServeHTTP(w, r)
	})
}
