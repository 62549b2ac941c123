package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tripmate/internal/apperr"
	handlers "tripmate/internal/handler"
	"tripmate/internal/logger"
	"tripmate/internal/service"
)

type Middleware func(http.Handler) http.Handler

// Auth resolves the bearer token to a principal and stores it in the request context.
func Auth(authService service.AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				handlers.WriteError(w, "Not authorized, no token", http.StatusUnauthorized)
				return
			}

			// "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
				handlers.WriteError(w, "Not authorized, no token", http.StatusUnauthorized)
				return
			}

			p, err := authService.Authenticate(r.Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				status := handlers.StatusOf(apperr.KindOf(err))
				if status == http.StatusInternalServerError {
					logger.Log.WithError(err).Error("authenticate request")
				}
				handlers.WriteError(w, apperr.Message(err), status)
				return
			}

			next.ServeHTTP(w, r.WithContext(service.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole lets through only principals holding one of allowedRoles. It must run after Auth.
func RequireRole(allowedRoles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := service.PrincipalFrom(r.Context())
			if !ok {
				handlers.WriteError(w, "Not authorized, no token", http.StatusUnauthorized)
				return
			}

			for _, role := range allowedRoles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			handlers.WriteError(w, "Access denied", http.StatusForbidden)
		})
	}
}

// CORS admits the configured frontend origin with credentials.
func CORS(frontendURL string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", frontendURL)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		entry := logger.Log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_addr": r.RemoteAddr,
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request")
		} else {
			entry.Info("request")
		}
	})
}

// Recovery turns a handler panic into a 500 envelope.
func Recovery(debugMode bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Log.WithFields(logrus.Fields{
						"panic": rec,
						"path":  r.URL.Path,
						"stack": string(debug.Stack()),
					}).Error("handler panicked")

					message := "Internal server error"
					if debugMode {
						if err, ok := rec.(error); ok {
							message = err.Error()
						}
					}
					handlers.WriteError(w, message, http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Chain wraps h so the first middleware listed runs outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
