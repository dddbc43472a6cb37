package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"chronoboard/config"

	"github.com/golang-jwt/jwt"
)

var (
	fallbackSecret     []byte
	fallbackSecretOnce sync.Once
)

// secretKey returns JWT_SECRET, or a random per-process key when unset.
func secretKey() []byte {
	if config.AppConfig.JWTSecret != "" {
		return []byte(config.AppConfig.JWTSecret)
	}
	fallbackSecretOnce.Do(func() {
		fallbackSecret = make([]byte, 32)
		if _, err := rand.Read(fallbackSecret); err != nil {
			panic("utils: cannot generate jwt secret: " + err.Error())
		}
	})
	return fallbackSecret
}

// TokenClaims are the fields the admin API relies on.
type TokenClaims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// GenerateToken creates a signed HS256 token for subject (a school id, or
// "super-admin") with the given role. The token expires after duration.
func GenerateToken(subject, role string, duration time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(duration)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secretKey())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ParseToken validates tokenString and extracts its subject and role.
func ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return nil, errors.New("token does not contain a valid 'role' claim")
	}
	out := &TokenClaims{Subject: sub, Role: role}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}
