// Package auth verifies session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// userIDClaim is the private claim used by tokens that do not carry the user in "sub".
const userIDClaim = "userId"

var ErrNoSubject = errors.New("token has no subject")

type Verifier interface {
	Verify(ctx context.Context, tokenString string) (jwt.Token, error)
}

// HMACVerifier verifies HS256 signed access tokens with a shared secret.
type HMACVerifier struct {
	key    []byte
	issuer string
}

// NewHMACVerifier creates a new HMACVerifier instance.
func NewHMACVerifier(cfg config.AuthConfig) *HMACVerifier {
	return &HMACVerifier{
		key:    []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

func (v *HMACVerifier) Verify(_ context.Context, tokenString string) (jwt.Token, error) {
	opts := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256(), v.key),
		// Standard validation checks - expiration, not before, etc.
		jwt.WithValidate(true),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.Parse([]byte(tokenString), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	return token, nil
}

// Subject returns the user id carried by the token: "sub" first, then the "userId" claim.
func Subject(token jwt.Token) (string, error) {
	if sub, ok := token.Subject(); ok && sub != "" {
		return sub, nil
	}
	var userID string
	if err := token.Get(userIDClaim, &userID); err == nil && userID != "" {
		return userID, nil
	}
	return "", ErrNoSubject
}
