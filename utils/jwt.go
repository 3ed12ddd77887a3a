package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt"

	"labsched/config"
)

// secretKey resolves the signing secret at call time, after config has been
// loaded. Config wins, then the raw environment, then a dev-only default
// (not recommended in production).
func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		secret = "labsched-dev"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT token carrying the subject's identity
// and role. The role decides whether committed bookings are written as
// approved or pending. The token expires after the specified duration.
func GenerateToken(subject, role string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// TokenClaims extracts the subject and role claims from a validated token.
func TokenClaims(token *jwt.Token) (subject, role string) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ""
	}
	subject, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	return subject, role
}
