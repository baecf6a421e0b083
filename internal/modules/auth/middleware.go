package auth

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/user"
)

// Middleware verifies the Bearer token and stashes the caller's identity
// in the request context. Requests without a valid token get 401.
func Middleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			var c claims
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), &c, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			identity := Identity{UserID: c.Subject, Role: user.ParseRole(c.Role)}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), identity)))
		})
	}
}
