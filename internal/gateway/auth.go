package gateway

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// userIDFromRequest extracts the opaque user identifier from the connection
// handshake. Browser WebSocket clients cannot set headers, so the token is
// accepted from the `token` query parameter as well as the Authorization
// header.
func userIDFromRequest(r *http.Request, secret []byte) (string, bool) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return "", false
		}
		tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// IssueToken signs a token carrying the user identifier. Used by the seeder
// and by operators handing out test credentials; real identity comes from the
// upstream chat platform.
func IssueToken(userID string, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}
