// server/internal/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is fixed; there is no refresh or revocation.
const TokenTTL = time.Hour

var (
	ErrUnauthenticated = errors.New("unauthorized access")
	ErrForbidden       = errors.New("forbidden access")
)

// Claims is the caller supplied payload carried in a token. Only "email" is
// interpreted by the server.
type Claims map[string]interface{}

// Email returns the email claim, or "".
func (c Claims) Email() string {
	email, _ := c["email"].(string)
	return email
}

// TokenService signs and verifies HS256 tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

// Issue signs claims with a one hour expiry. The payload must carry an email.
func (s *TokenService) Issue(claims Claims) (string, error) {
	if claims.Email() == "" {
		return "", errors.New("claims must contain an email")
	}

	now := s.now()
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = jwt.NewNumericDate(now)
	mc["exp"] = jwt.NewNumericDate(now.Add(s.ttl))

	return jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the decoded claims.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	mc := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, mc, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, ErrUnauthenticated
	}
	return Claims(mc), nil
}

// BearerToken extracts the token from an Authorization header value. Only a
// missing header is rejected here; a malformed value is returned as-is and
// fails signature verification.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", ErrUnauthenticated)
	}
	return strings.TrimPrefix(header, "Bearer "), nil
}
