package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	ScopeRead  = "read"
	ScopeWrite = "write"
)

// JWTClaims represents the claims in a reader access token. The subject
// names the reader client the token was issued to.
type JWTClaims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

func (c *JWTClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Service issues and validates access tokens.
type Service struct {
	jwtSecret   []byte
	tokenExpiry time.Duration
	now         func() time.Time
}

func NewService(jwtSecret string, tokenExpiry time.Duration) *Service {
	return &Service{
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: tokenExpiry,
		now:         time.Now,
	}
}

// GenerateToken signs a token for subject with the given scopes.
func (s *Service) GenerateToken(subject string, scopes []string) (string, error) {
	now := s.now()
	claims := JWTClaims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return signed, nil
}

func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
