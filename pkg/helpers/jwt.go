package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTypeAccess marks short-lived tokens used to authorize API calls.
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks longer-lived tokens used solely to mint new
	// access tokens.
	TokenTypeRefresh = "refresh"
)

var (
	ErrExpiredToken   = errors.New("token expired")
	ErrMalformedToken = errors.New("token malformed or invalid")
)

// JWTManager signs and validates tokens with a single shared HS256 secret.
// The secret never leaves the manager, so key rotation can be added here
// without touching callers.
type JWTManager struct {
	secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

// Claims carries the subject email and a type discriminator so a refresh
// token is never accepted where an access token is required.
type Claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAccess() bool  { return c.TokenType == TokenTypeAccess }
func (c *Claims) IsRefresh() bool { return c.TokenType == TokenTypeRefresh }

// GenerateAccessToken signs an access token for the given subject email.
func (m *JWTManager) GenerateAccessToken(subject string) (string, time.Time, error) {
	return m.generate(subject, TokenTypeAccess, m.AccessTTL)
}

// GenerateRefreshToken signs a refresh token for the given subject email.
func (m *JWTManager) GenerateRefreshToken(subject string) (string, time.Time, error) {
	return m.generate(subject, TokenTypeRefresh, m.RefreshTTL)
}

func (m *JWTManager) generate(subject, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Parse verifies signature and expiry and returns the decoded claims.
// Failures are collapsed into ErrExpiredToken or ErrMalformedToken.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformedToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrMalformedToken
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
