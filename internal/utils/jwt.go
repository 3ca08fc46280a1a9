package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chativo/backend/internal/apperr"
	"github.com/chativo/backend/internal/domain"
)

// TokenService signs and verifies identity tokens. A token carries the
// user's public projection and an expiry fixed at issuance time; there is
// no revoked state, a token is either valid or invalid.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a new token service.
func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

type identityClaims struct {
	User domain.UserView `json:"user"`
	jwt.RegisteredClaims
}

// Sign issues a token embedding the user's public projection.
func (t *TokenService) Sign(user domain.UserView) (string, error) {
	now := time.Now()
	claims := &identityClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token. Missing, malformed, forged and
// expired tokens all collapse to the same Unauthorized failure so callers
// cannot distinguish them.
func (t *TokenService) Verify(tokenString string) (*domain.TokenClaims, error) {
	if tokenString == "" {
		return nil, apperr.Unauthorized("invalid or expired token")
	}

	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("invalid or expired token")
	}

	return tokenClaimsOf(claims), nil
}

// Decode reads claims off a token without verifying the signature. It is
// used for non-security-critical identity lookups from inbound headers.
// A missing token yields nothing; a malformed one is a BadRequest.
func (t *TokenService) Decode(tokenString string) (*domain.TokenClaims, error) {
	if tokenString == "" {
		return nil, nil
	}

	claims := &identityClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, apperr.BadRequest("malformed token")
	}

	return tokenClaimsOf(claims), nil
}

// Expiry returns the token lifetime in seconds.
func (t *TokenService) Expiry() int {
	return int(t.expiry.Seconds())
}

func tokenClaimsOf(claims *identityClaims) *domain.TokenClaims {
	tc := &domain.TokenClaims{User: claims.User}
	if claims.ExpiresAt != nil {
		tc.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		tc.IssuedAt = claims.IssuedAt.Time
	}
	return tc
}
