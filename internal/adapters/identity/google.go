// Package identity verifies third-party sign-in tokens.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

// Identity errors
var (
	ErrInvalidToken  = errors.New("invalid identity token")
	ErrNotConfigured = errors.New("google sign-in is not configured")
)

// Claims are the identity facts taken from a verified token.
type Claims struct {
	Subject string
	Email   string
	Name    string
}

// Verifier checks an ID token and returns its claims.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Claims, error)
}

// Google verifies Google ID tokens issued for ClientID.
type Google struct {
	ClientID string
	verifier googleAuthIDTokenVerifier.Verifier
}

// NewGoogle creates a verifier for the given OAuth client ID.
func NewGoogle(clientID string) *Google {
	return &Google{ClientID: clientID}
}

// Verify implements Verifier.
// POST: returned claims have a non-empty Subject and Email
func (g *Google) Verify(ctx context.Context, idToken string) (Claims, error) {
	if g.ClientID == "" {
		return Claims{}, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return Claims{}, err
	}
	if err := g.verifier.VerifyIDToken(idToken, []string{g.ClientID}); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c := Claims{Subject: claimSet.Sub, Email: strings.ToLower(claimSet.Email), Name: claimSet.Name}
	if c.Subject == "" || c.Email == "" {
		return Claims{}, ErrInvalidToken
	}
	return c, nil
}

// Static returns fixed claims per token. Used by tests and development mode.
type Static map[string]Claims

// Verify implements Verifier.
func (s Static) Verify(_ context.Context, idToken string) (Claims, error) {
	c, ok := s[idToken]
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	return c, nil
}
