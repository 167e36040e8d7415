package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"server/internal/domain"
)

// Claims is the verified identity carried by a bearer token.
type Claims struct {
	UserID string
	Email  string
	Role   domain.UserRole
}

// SignToken issues an HS256 token for the given identity.
func SignToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   claims.UserID,
		"email": claims.Email,
		"role":  string(claims.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a bearer token. Any failure (bad
// signature, expiry, malformed payload) surfaces as ErrUnauthenticated.
func VerifyToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	sub, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	if sub == "" || !domain.UserRole(role).Valid() {
		return nil, domain.ErrUnauthenticated
	}
	return &Claims{UserID: sub, Email: email, Role: domain.UserRole(role)}, nil
}
