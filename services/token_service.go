package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenPair bundles the short-lived access token with its refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService signs and validates the JWT pairs used by the HTTP layer.
type TokenService interface {
	GenerateTokenPair(userID, username, role string) (*TokenPair, error)
	ValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error)
}

type tokenServiceImpl struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) TokenService {
	return &tokenServiceImpl{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (s *tokenServiceImpl) GenerateTokenPair(userID, username, role string) (*TokenPair, error) {
	accessToken, err := s.generateToken(userID, username, role, "access", s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateToken(userID, username, role, "refresh", s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *tokenServiceImpl) generateToken(userID, username, role, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"role":     role,
		"type":     tokenType,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a token, additionally checking the "type"
// claim so a refresh token cannot be used as an access token.
func (s *tokenServiceImpl) ValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if tokenType, _ := claims["type"].(string); tokenType != expectedType {
		return nil, fmt.Errorf("unexpected token type %q", tokenType)
	}
	return claims, nil
}
