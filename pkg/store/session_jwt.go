package store

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const jwtIssuer = "biblioteca"

// JWTSessionStore issues and validates HS256 session tokens signed with
// the configured session secret. Tokens are stateless, so logout works
// through a revocation list consulted on every validation.
type JWTSessionStore struct {
	secret  []byte
	ttl     time.Duration
	revoked TokenRevoker
}

// NewJWTSessionStore builds a JWT session store. A nil revoker falls back
// to an in-memory one.
func NewJWTSessionStore(secret string, ttl time.Duration, revoker TokenRevoker) (*JWTSessionStore, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret required")
	}
	if revoker == nil {
		revoker = NewMemoryTokenRevoker()
	}
	return &JWTSessionStore{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoker,
	}, nil
}

// NewSession creates a signed token carrying the user ID as subject.
func (s *JWTSessionStore) NewSession(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    jwtIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// GetUserIDByToken validates the token and returns its subject. Revoked
// tokens do not validate even before their expiry.
func (s *JWTSessionStore) GetUserIDByToken(token string) (string, bool, error) {
	claims, ok := s.parse(token)
	if !ok {
		return "", false, nil
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", false, nil
	}
	revoked, err := s.revoked.IsRevoked(token)
	if err != nil {
		return "", false, err
	}
	if revoked {
		return "", false, nil
	}
	return subject, true, nil
}

// DeleteSession revokes the token for the remainder of its lifetime.
// Invalid or already-expired tokens need no revocation.
func (s *JWTSessionStore) DeleteSession(token string) error {
	claims, ok := s.parse(token)
	if !ok {
		return nil
	}
	return s.revoked.Revoke(token, time.Until(claims.ExpiresAt.Time))
}

func (s *JWTSessionStore) parse(token string) (jwt.RegisteredClaims, bool) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return jwt.RegisteredClaims{}, false
	}
	return claims, true
}
