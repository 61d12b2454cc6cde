package middleware

import (
	"context"
	"net/http"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/gate"
	"portfolio-backend/internal/transport"
)

type gateTokenKey struct{}

// AdminAuth protects admin routes. A request passes with a matching
// X-Admin-Key header, or with a valid access cookie whose gate claim still
// validates against the live gate. The resolved gate token is stored in the
// request context for handlers that call mutating operations.
func AdminAuth(adminKey string, manager *auth.Manager, g *gate.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" && manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
				return
			}

			if adminKey != "" && r.Header.Get("X-Admin-Key") == adminKey {
				// The API key is an operator credential equivalent to the
				// gate secret, so it may open the gate directly.
				tok := g.Grant(r.Context())
				next.ServeHTTP(w, r.WithContext(withGateToken(r.Context(), tok)))
				return
			}

			if manager != nil {
				cookie, err := r.Cookie("portfolio_access")
				if err == nil && cookie.Value != "" {
					claims, err := manager.Parse(cookie.Value)
					if err == nil && claims.Role == "admin" {
						tok := gate.TokenFrom(claims.Gate)
						if g.Valid(tok) {
							next.ServeHTTP(w, r.WithContext(withGateToken(r.Context(), tok)))
							return
						}
					}
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		})
	}
}

func withGateToken(ctx context.Context, tok gate.Token) context.Context {
	return context.WithValue(ctx, gateTokenKey{}, tok)
}

func GateTokenFromContext(ctx context.Context) gate.Token {
	if v := ctx.Value(gateTokenKey{}); v != nil {
		if t, ok := v.(gate.Token); ok {
			return t
		}
	}
	return gate.Token{}
}
