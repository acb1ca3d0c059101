package apiapp

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	authsvc "github.com/RiqueAlvess/portal/internal/services/auth"
	"github.com/RiqueAlvess/portal/internal/transport/http/cookies"
	httperrors "github.com/RiqueAlvess/portal/internal/transport/http/errors"
)

const (
	HeaderUserID   = "x-user-id"
	HeaderUserRole = "x-user-role"

	loginPath = "/login"
)

// publicPaths and publicPrefixes together classify every request path.
// Anything not matched here is protected.
var publicPaths = map[string]struct{}{
	"/":                {},
	"/login":           {},
	"/register":        {},
	"/healthz":         {},
	"/csrf-token":      {},
	"/api/auth/login":  {},
	"/api/auth/logout": {},
}

var publicPrefixes = []string{
	"/api/public/",
	"/static/",
	"/assets/",
}

func IsPublicPath(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(requestLogger(log))
}

// RouteGate is the single authorization checkpoint in front of the
// protected surface. Downstream handlers may trust the identity headers
// only because every protected request passes through here first.
func RouteGate(codec *authsvc.TokenCodec, cookieManager *cookies.Manager, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if IsPublicPath(path) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := cookieManager.SessionToken(r)
			if !ok {
				denyUnauthenticated(w, r, path)
				return
			}

			payload, valid := codec.Verify(token)
			if !valid {
				if log != nil {
					log.Debug("session token rejected", zap.String("path", path))
				}
				// The stale cookie is overwritten so the client does not
				// keep presenting it.
				cookieManager.ClearSessionToken(w)
				denyUnauthenticated(w, r, path)
				return
			}

			r.Header.Set(HeaderUserID, payload.UserID)
			r.Header.Set(HeaderUserRole, payload.Role)

			ctx := authsvc.WithIdentity(r.Context(), authsvc.Identity{
				UserID: payload.UserID,
				Email:  payload.Email,
				Role:   payload.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Page navigations get a redirect back through the login screen; API
// clients get a JSON 401 they can act on.
func denyUnauthenticated(w http.ResponseWriter, r *http.Request, path string) {
	if isAPIPath(path) {
		httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
			Code:    "UNAUTHORIZED",
			Message: "authentication required",
		})
		return
	}

	target := loginPath + "?callbackUrl=" + url.QueryEscape(path)
	http.Redirect(w, r, target, http.StatusFound)
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/") || path == "/session"
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[strings.ToUpper(role)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := authsvc.IdentityFromContext(r.Context())
			if !ok {
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    "UNAUTHORIZED",
					Message: "authentication required",
				})
				return
			}

			if _, ok := allowed[strings.ToUpper(identity.Role)]; !ok {
				httperrors.Write(w, http.StatusForbidden, httperrors.APIError{
					Code:    "FORBIDDEN",
					Message: "insufficient role",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
