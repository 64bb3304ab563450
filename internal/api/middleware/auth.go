package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"elderguard/internal/domain/models"
	"elderguard/pkg/logger"
)

// ContextKey is a type for context keys
type ContextKey string

// ContextKeyIdentity is the context key for the signed-in caller
const ContextKeyIdentity ContextKey = "identity"

// SessionClaims are the claims carried by the session token
type SessionClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// SessionAuth validates an HS256 bearer token and stores the caller identity in the context
func SessionAuth(secret, issuer string, log *logger.Logger) func(next http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) == 0 {
				writeError(w, http.StatusUnauthorized, "authentication not configured")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
			if issuer != "" {
				opts = append(opts, jwt.WithIssuer(issuer))
			}

			claims := &SessionClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				return key, nil
			}, opts...)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					writeError(w, http.StatusUnauthorized, "session expired")
					return
				}
				log.Debug().Err(err).Msg("invalid session token")
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !token.Valid || claims.Email == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			id := models.Identity{
				Email:    claims.Email,
				Name:     claims.Name,
				Image:    claims.Picture,
				GoogleID: claims.Subject,
			}
			ctx := context.WithValue(r.Context(), ContextKeyIdentity, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the caller set by SessionAuth
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(ContextKeyIdentity).(models.Identity)
	return id, ok
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
