package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryChecked wraps a provider and rejects JWTs whose exp claim has
// passed. The signature is not verified; that is the backend's job. Tokens
// that are not JWTs are returned unchanged.
type ExpiryChecked struct {
	Provider CredentialProvider
	Now      func() time.Time
	Leeway   time.Duration
}

// Token implements CredentialProvider.
func (e ExpiryChecked) Token(ctx context.Context) (string, error) {
	tok, err := e.Provider.Token(ctx)
	if err != nil {
		return "", err
	}

	exp, ok := ExpiresAt(tok)
	if !ok {
		return tok, nil
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	if now().After(exp.Add(e.Leeway)) {
		return "", fmt.Errorf("%w at %s", ErrTokenExpired, exp.UTC().Format(time.RFC3339))
	}

	return tok, nil
}

// ExpiresAt extracts the exp claim of a JWT without verifying it.
func ExpiresAt(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}

// Header formats the Authorization header value. An empty scheme yields the
// raw token.
func Header(scheme, token string) string {
	scheme = strings.TrimSpace(scheme)
	if scheme == "" {
		return token
	}

	return scheme + " " + token
}
