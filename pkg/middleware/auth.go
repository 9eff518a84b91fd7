package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"maitred/pkg/auth"
	"maitred/pkg/logger"
)

const PrincipalKey contextKey = "principal"

// Authenticate wraps a single route: it verifies a Bearer token and stores
// the principal in the request context. Applied per route rather than on the
// whole chain because booking creation and availability stay public.
func Authenticate(secret string, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}

			principal, err := auth.VerifyToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Warn("Token verification failed",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

// OptionalAuthenticate attaches a principal when the request carries a valid
// Bearer token and passes anonymous requests through untouched. A token that
// is present but invalid is still rejected so callers notice expired
// credentials instead of silently losing their account link.
func OptionalAuthenticate(secret string, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next(w, r, ps)
				return
			}
			if !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}

			principal, err := auth.VerifyToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Warn("Token verification failed",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

// RequireRole allows the request through only when the authenticated
// principal carries one of the given roles. Must wrap inside Authenticate.
func RequireRole(roles ...string) func(httprouter.Handle) httprouter.Handle {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok || !allowed[principal.Role] {
				writeAuthError(w, http.StatusForbidden, "Insufficient role")
				return
			}
			next(w, r, ps)
		}
	}
}

// PrincipalFrom returns the authenticated principal stored by Authenticate.
func PrincipalFrom(ctx context.Context) (auth.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(auth.Principal)
	return principal, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
