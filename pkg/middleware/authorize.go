package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"

	"github.com/cmdvault/cmdvault/pkg/constants"
	"github.com/cmdvault/cmdvault/pkg/serrors"
)

// Claims is the token payload shared by the auth service and this middleware.
// Kind distinguishes access tokens from refresh tokens; only access tokens
// authorize API calls.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Kind     string `json:"kind"`
}

const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// Authorize rejects requests without a valid bearer access token. Paths with
// one of the given prefixes are public.
func Authorize(secret string, publicPrefixes ...string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range publicPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}

			claims, err := ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil || claims.Kind != TokenKindAccess {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), constants.UserKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ParseToken(raw, secret string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// UseUserID returns the authenticated user id, if any.
func UseUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(constants.UserKey).(int64)
	return id, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	body, _ := json.Marshal(serrors.NewError("UNAUTHORIZED", "missing or invalid credentials", nil))
	_, _ = w.Write(body)
}
