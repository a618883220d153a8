package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"ingresso-platform/internal/models"
	"ingresso-platform/internal/services"
)

type contextKey string

const (
	// ClaimsContextKey holds the authenticated token claims
	ClaimsContextKey contextKey = "claims"
)

// TokenParser verifies a bearer token and returns its claims
type TokenParser interface {
	ParseToken(tokenString string) (*services.Claims, error)
}

// AuthMiddleware authenticates requests with a bearer JWT
type AuthMiddleware struct {
	parser TokenParser
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(parser TokenParser) *AuthMiddleware {
	return &AuthMiddleware{parser: parser}
}

// LoadClaims puts token claims into the request context when a valid bearer
// token is present. Requests without a token continue anonymously.
func (m *AuthMiddleware) LoadClaims(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.parser.ParseToken(token)
		if err != nil {
			// A present but invalid token is rejected rather than demoted
			// to anonymous.
			writeAuthError(w)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests without authenticated claims
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetClaimsFromContext(r.Context()) == nil {
			writeAuthError(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOrganizer rejects requests whose claims lack the organizer role
func (m *AuthMiddleware) RequireOrganizer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaimsFromContext(r.Context())
		if claims == nil {
			writeAuthError(w)
			return
		}
		if !claims.Organizer {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{
				"kind":    string(models.KindForbidden),
				"message": "organizer role required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaimsFromContext returns the authenticated claims, or nil
func GetClaimsFromContext(ctx context.Context) *services.Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*services.Claims)
	return claims
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"kind":    string(models.KindUnauthenticated),
		"message": "authentication required",
	})
}
