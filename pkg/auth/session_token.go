package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "skillijob"

var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims is the payload of a signed session token. ID (jti) carries the
// server-side session token so that logout can revoke it.
type SessionClaims struct {
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue signs a token for the session.
func (m *TokenManager) Issue(userID, userType, sessionToken string, issuedAt, expiresAt time.Time) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("session secret not configured")
	}
	claims := SessionClaims{
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ID:        sessionToken,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies the signature, issuer and expiry of a token.
func (m *TokenManager) Parse(signed string) (*SessionClaims, error) {
	if len(m.secret) == 0 {
		return nil, ErrInvalidToken
	}
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	// A token without exp would never expire.
	if claims.ExpiresAt == nil || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NewOpaqueToken returns 32 random bytes, hex encoded.
func NewOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashToken is how single-use tokens are stored at rest.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
