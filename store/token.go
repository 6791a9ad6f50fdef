package store

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// ErrNoToken is returned by Token when nothing has been stored.
var ErrNoToken = errors.New("store: no token stored")

const tokenKey = "auth:token"

// TokenStore keeps the operator's bearer token between CLI invocations.
// It is an oauth2.TokenSource so the API client can read it on every request.
type TokenStore interface {
	oauth2.TokenSource
	SaveToken(raw string) error
	ClearToken() error
	Close() error
}

// tokenFromRaw wraps a raw bearer string. When the string is a JWT carrying
// an exp claim, Expiry is populated from it. The signature is not checked:
// the server remains the one to accept or reject the token.
func tokenFromRaw(raw string) *oauth2.Token {
	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return tok
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tok.Expiry = exp.Time
	}
	return tok
}

func normalizeToken(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return "", errors.New("store: empty token")
	}
	return raw, nil
}
