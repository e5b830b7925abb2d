package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingSecret = errors.New("jwt secret is not configured")

type Claims struct {
	APIKey   string `json:"apikey"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Signer turns a claims payload into an opaque bearer token.
type Signer interface {
	Sign(ctx context.Context, claims Claims) (string, error)
}

type JWTSigner struct {
	config JWTConfig
	now    func() time.Time
}

func NewJWTSigner(config JWTConfig) (*JWTSigner, error) {
	if config.Secret == "" {
		return nil, ErrMissingSecret
	}
	if config.Expiry <= 0 {
		config.Expiry = DefaultTokenExpiry
	}
	if config.Issuer == "" {
		config.Issuer = DefaultIssuer
	}
	return &JWTSigner{config: config, now: time.Now}, nil
}

func (s *JWTSigner) Sign(_ context.Context, claims Claims) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   claims.APIKey,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func ValidateToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
