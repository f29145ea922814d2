package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

const (
	bearerPrefix = "Bearer "
	jwtParam     = "jwt"
)

// An AuthorizeFn decides what authenticated claims may do.
type AuthorizeFn func(r *http.Request, claims jwt.MapClaims) Authorization

// JWTAuthenticator implements Authenticator with HMAC signed JSON web tokens.
type JWTAuthenticator struct {
	authorize AuthorizeFn
	key       []byte
	parser    *jwt.Parser
}

// NewJWTAuthenticator constructs a *JWTAuthenticator verifying tokens signed with key.
//
// authorize can be nil, in which case every validly signed token is Permitted.
func NewJWTAuthenticator(key string, authorize AuthorizeFn) (*JWTAuthenticator, error) {
	if key == "" {
		return nil, fmt.Errorf(`%w: key cannot be ""`, ErrNotValid)
	}

	if authorize == nil {
		authorize = func(*http.Request, jwt.MapClaims) Authorization { return Permitted }
	}

	return &JWTAuthenticator{
		authorize: authorize,
		key:       []byte(key),
		parser:    &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}},
	}, nil
}

// Authenticate reads a token from the "Authorization: Bearer" header
// or, failing that, the "jwt" query param.
//
// A missing, malformed, expired, or incorrectly signed token
// fails authentication without returning an error.
// An error returns only when something unexpected happens.
func (a *JWTAuthenticator) Authenticate(r *http.Request) (*Result, error) {
	raw := tokenFrom(r)
	if raw == "" {
		return &Result{Authentication: AuthenticationFailed}, nil
	}

	claims := make(jwt.MapClaims)
	_, err := a.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.key, nil
	})

	var invalid *jwt.ValidationError
	if errors.As(err, &invalid) {
		return &Result{Authentication: AuthenticationFailed}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpected, err)
	}

	sub, _ := claims["sub"].(string)
	return &Result{
		Authentication: AuthenticationSucceeded,
		Authorization:  a.authorize(r, claims),
		Subject:        sub,
		Claims:         claims,
	}, nil
}

// Sign issues a token for claims, signed the way Authenticate verifies.
func (a *JWTAuthenticator) Sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnexpected, err)
	}

	return signed, nil
}

func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	}

	return r.URL.Query().Get(jwtParam)
}
