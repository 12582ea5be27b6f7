package security

import (
	"fmt"
	"time"

	"pinnacle_metals/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const roleClaim = "role"

// Claims is what a verified session token says about its bearer.
type Claims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies stateless HS256 session tokens.
type TokenService struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{
		auth: jwtauth.New("HS256", secret, nil),
		ttl:  ttl,
		now:  time.Now,
	}
}

// TTL is the validity window of issued session tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// JWTAuth exposes the underlying signer for jwtauth helpers.
func (s *TokenService) JWTAuth() *jwtauth.JWTAuth { return s.auth }

func (s *TokenService) Issue(subjectID, role string) (string, error) {
	issuedAt := s.now()
	claims := jwt.MapClaims{
		"sub":     subjectID,
		roleClaim: role,
	}
	jwtauth.SetIssuedAt(claims, issuedAt)
	jwtauth.SetExpiry(claims, issuedAt.Add(s.ttl))

	_, tokenString, err := s.auth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature and expiry. Every failure wraps common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(s.auth, tokenString)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	role, _ := token.PrivateClaims()[roleClaim].(string)
	claims := Claims{
		Subject:   token.Subject(),
		Role:      role,
		IssuedAt:  token.IssuedAt(),
		ExpiresAt: token.Expiration(),
	}
	if claims.Subject == "" || claims.Role == "" {
		return Claims{}, fmt.Errorf("%w: subject or role claim missing", common.ErrInvalidToken)
	}
	// exp is mandatory; jwtauth only rejects it when present.
	if claims.ExpiresAt.IsZero() || !s.now().Before(claims.ExpiresAt) {
		return Claims{}, fmt.Errorf("%w: token expired", common.ErrInvalidToken)
	}
	return claims, nil
}
