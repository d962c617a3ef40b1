package middleware

import (
	"net/http"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/identity"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

// PortalTokenCookie carries the portal session token for browser clients.
const PortalTokenCookie = "portal_token"

// Identity attaches the signed-in visitor to the request context. Missing
// or invalid tokens leave the request anonymous.
func Identity(parser *identity.Parser, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		if parser == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				if c, err := r.Cookie(PortalTokenCookie); err == nil && c.Value != "" {
					token, ok = c.Value, true
				}
			}
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			id, err := parser.Parse(token)
			if err != nil {
				logger.Debug("ignoring invalid portal token", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
		})
	}
}
