// Package auth issues and verifies the bearer credentials used by the
// tenant-user endpoints. Tokens are stateless: the only claim is the
// username, and nothing is stored server side.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrBadCredentials is returned when a token cannot be verified or does
// not match the expected user.
var ErrBadCredentials = errors.New("bad credentials")

// TokenService issues a token for a username and recovers the username
// from a presented token.
type TokenService interface {
	Issue(username string) (string, error)
	Verify(token string) (string, error)
}

// NewTokenService selects the token strategy once at startup: a signed
// JWT when useJWT is set, otherwise a plain base64 encoding of the
// username (no integrity, demo only).
func NewTokenService(useJWT bool, secret string) TokenService {
	if useJWT {
		return &jwtTokenService{secret: []byte(secret)}
	}
	return &simpleTokenService{}
}

type simpleTokenService struct{}

func (s *simpleTokenService) Issue(username string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(username)), nil
}

func (s *simpleTokenService) Verify(token string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: could not decode simple token", ErrBadCredentials)
	}
	return string(decoded), nil
}

type jwtTokenService struct {
	secret []byte
}

func (s *jwtTokenService) Issue(username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"user": username,
	})
	return token.SignedString(s.secret)
}

func (s *jwtTokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: could not verify JWT token", ErrBadCredentials)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: unexpected claims format", ErrBadCredentials)
	}
	username, ok := claims["user"].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing user claim", ErrBadCredentials)
	}
	return username, nil
}

// VerifyAuthorizationHeader strips a "Bearer " prefix if present, verifies
// the token and checks that its subject equals expectedUsername.
func VerifyAuthorizationHeader(ts TokenService, header, expectedUsername string) error {
	token := strings.TrimPrefix(header, "Bearer ")
	subject, err := ts.Verify(token)
	if err != nil {
		return err
	}
	if subject != expectedUsername {
		return fmt.Errorf("%w: token and username don't match", ErrBadCredentials)
	}
	return nil
}
