// Package auth provides bcrypt password hashing and JWT issue/parse.
// Leaf package: used by internal/domain/auth and internal/api/middleware.
package auth

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// BCryptCost is the bcrypt work factor. 12 balances login latency and
// brute-force resistance for a single-node deployment.
const BCryptCost = 12

// DefaultJWTExpiryHours applies when JWT_EXPIRY is unset or malformed.
const DefaultJWTExpiryHours = 24

const (
	envJWTSecret = "JWT_SECRET"
	envJWTExpiry = "JWT_EXPIRY"
)

// jwtSecret reads JWT_SECRET from the environment. Panics if unset so a
// misconfigured deployment fails at startup instead of issuing unsigned-ish
// tokens.
func jwtSecret() []byte {
	secret := os.Getenv(envJWTSecret)
	if secret == "" {
		panic(envJWTSecret + " environment variable not set")
	}
	return []byte(secret)
}

// parseJWTExpiry converts an hour count string into a Duration, falling back
// to the default on empty or invalid input.
func parseJWTExpiry(expiryStr string) time.Duration {
	if expiryStr == "" {
		return DefaultJWTExpiryHours * time.Hour
	}
	hours, err := strconv.Atoi(expiryStr)
	if err != nil || hours <= 0 {
		return DefaultJWTExpiryHours * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

func jwtExpiry() time.Duration {
	return parseJWTExpiry(os.Getenv(envJWTExpiry))
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BCryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. Invalid hashes
// return false rather than an error so responses never leak hash format.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Claims are the JWT claims carried by CourseMind tokens.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateJWT issues a signed HS256 token for the given user.
func GenerateJWT(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtExpiry())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("sign JWT: %w", err)
	}
	return signed, nil
}

// ParseJWT validates a token string and returns its claims.
func ParseJWT(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject any non-HMAC method to block algorithm substitution.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse JWT: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid JWT claims or signature")
	}
	return claims, nil
}
