package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/opsmap/internal/logger"
)

// authExempt lists routes served without an API key.
var authExempt = map[string]struct{}{
	HealthPath:  {},
	MetricsPath: {},
}

// BearerAuthMiddleware requires "Authorization: Bearer <key>" on every
// route except health and metrics. No configured keys disables the check.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := authExempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if reason := checkBearer(r.Header.Get("Authorization"), keys); reason != "" {
				logpkg.FromContext(r.Context()).Info("Rejected unauthenticated request",
					zap.String("path", r.URL.Path), zap.String("reason", reason))
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, reason)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkBearer returns an empty string when header carries a known key.
func checkBearer(header string, keys [][]byte) string {
	if header == "" {
		return "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "authorization header must use Bearer scheme"
	}
	tok := []byte(strings.TrimSpace(token))
	for _, k := range keys {
		if subtle.ConstantTimeCompare(tok, k) == 1 {
			return ""
		}
	}
	return "invalid api key"
}
