package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/velora/storefront-cart/pkg/httputil"
	"github.com/velora/storefront-cart/pkg/logger"
	pkgmw "github.com/velora/storefront-cart/pkg/middleware"
)

type contextKey string

const userIDKey contextKey = "user_id"

// ResolveUserID is middleware that establishes the authenticated user for the
// request: the identity set by JWT auth middleware wins, otherwise the
// X-User-ID header injected by the API gateway is trusted. Requests with
// neither are rejected with 401; every cart operation requires a user.
func ResolveUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := pkgmw.UserIDFromContext(r.Context())
		if uid == "" {
			uid = r.Header.Get("X-User-ID")
		}
		if uid == "" {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
			})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, uid)
		ctx = logger.WithUserID(ctx, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userIDKey).(string)
	return uid, ok && uid != ""
}

// ContentTypeJSON enforces that requests with a body carry
// Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
